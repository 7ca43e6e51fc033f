package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/k0kubun/pp"
	"github.com/mwiater/hubble-tool/internal/toolerr"
	"github.com/mwiater/hubble-tool/internal/util"
	"github.com/mwiater/hubble-tool/mcp/tools"
	"github.com/spf13/cobra"
)

var (
	toolNameColor  = color.New(color.FgGreen, color.Bold).SprintFunc()
	requiredColor  = color.New(color.FgYellow).SprintFunc()
	optionalColor  = color.New(color.Faint).SprintFunc()
	resultTitle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	resultBadge    = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("34")).Padding(0, 1)
	violationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// toolsCmd groups the tool inspection commands.
var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Inspect and invoke the registered tools",
}

// toolsListCmd implements 'tools list'.
var toolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the registered tools and their arguments",
	RunE: func(cmd *cobra.Command, args []string) error {
		defs := newRegistry(*GetConfig()).Definitions()
		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			data, err := tools.SummaryJSON(defs)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}
		printSummaries(cmd.OutOrStdout(), tools.Summaries(defs))
		return nil
	},
}

// toolsCallCmd implements 'tools call', which runs one tool outside of MCP.
var toolsCallCmd = &cobra.Command{
	Use:   "call <tool>",
	Short: "Invoke a tool with JSON arguments and print its result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("args")
		dump, _ := cmd.Flags().GetBool("dump")

		arguments, err := decodeArguments(raw)
		if err != nil {
			return err
		}

		registry := newRegistry(*GetConfig())
		res, err := registry.Dispatch(cmd.Context(), args[0], arguments)
		if err != nil {
			printToolError(cmd.ErrOrStderr(), err)
			return err
		}
		if dump {
			_, _ = pp.Fprintln(cmd.OutOrStdout(), res)
			return nil
		}
		printResult(cmd.OutOrStdout(), args[0], res)
		return nil
	},
}

func init() {
	toolsListCmd.Flags().Bool("json", false, "print the tool summaries as JSON")
	toolsCallCmd.Flags().String("args", "{}", "tool arguments as a JSON object")
	toolsCallCmd.Flags().Bool("dump", false, "pretty-print the raw result structure")

	toolsCmd.AddCommand(toolsListCmd)
	toolsCmd.AddCommand(toolsCallCmd)
	rootCmd.AddCommand(toolsCmd)
}

// decodeArguments parses the --args object keeping numbers as json.Number,
// the same way the MCP server hands arguments to the tools.
func decodeArguments(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}, nil
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, errors.Wrap(err, "--args must be a JSON object")
	}
	return out, nil
}

const descriptionWidth = 76

func printSummaries(out io.Writer, summaries []tools.Summary) {
	for i, s := range summaries {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, toolNameColor(s.Name))
		fmt.Fprintln(out, util.Indent(util.WrapToWidth(s.Description, descriptionWidth), "  "))
		if len(s.Required) > 0 {
			fmt.Fprintf(out, "  required: %s\n", requiredColor(strings.Join(s.Required, ", ")))
		}
		if len(s.Optional) > 0 {
			fmt.Fprintf(out, "  optional: %s\n", optionalColor(strings.Join(s.Optional, ", ")))
		}
	}
}

func printResult(out io.Writer, name string, res *tools.Result) {
	fmt.Fprintln(out, resultTitle.Render(name)+" "+resultBadge.Render("ok"))
	for _, part := range res.Content {
		switch {
		case part.Text != "":
			fmt.Fprintln(out, part.Text)
		case part.Content != "":
			fmt.Fprintln(out, part.Content)
		}
	}
}

func printToolError(out io.Writer, err error) {
	var te *toolerr.Error
	if !errors.As(err, &te) {
		return
	}
	fmt.Fprintf(out, "%s (%s)\n", te.Message, te.Kind)
	for _, v := range te.Violations {
		fmt.Fprintln(out, violationStyle.Render("  - "+v.String()))
	}
}

// internal/commands/list_commands.go
package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	commandHeading = color.New(color.Bold).SprintFunc()
	commandPath    = color.New(color.FgCyan).SprintFunc()
)

// CommandInfo is one row of the 'list commands' output.
type CommandInfo struct {
	Path        string
	Description string
}

// listCmd groups the 'list' subcommands.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List command metadata",
}

// commandsCmd implements 'list commands', which prints the available
// commands and subcommands in a hierarchical, indented, two-column format.
var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List all commands and subcommands in two columns",
	Run: func(cmd *cobra.Command, args []string) {
		var rows []CommandInfo
		for _, data := range collectCommandData(rootCmd, "", "") {
			if strings.Contains(data.Path, "completion") || strings.Contains(data.Path, "help") {
				continue
			}
			rows = append(rows, data)
		}
		printCommands(cmd.OutOrStdout(), rows)
	},
}

func init() {
	listCmd.AddCommand(commandsCmd)
	rootCmd.AddCommand(listCmd)
}

// collectCommandData walks the command tree and returns a flattened slice of
// indented path/description pairs.
func collectCommandData(cmd *cobra.Command, currentPath string, indent string) []CommandInfo {
	fullPath := cmd.Name()
	if currentPath != "" {
		fullPath = currentPath + " " + cmd.Name()
	}

	rows := []CommandInfo{{Path: indent + fullPath, Description: cmd.Short}}
	for _, sub := range cmd.Commands() {
		rows = append(rows, collectCommandData(sub, fullPath, indent+"  ")...)
	}
	return rows
}

// printCommands aligns descriptions one column past the longest path. Padding
// is computed on the plain path so color codes do not skew the layout.
func printCommands(out io.Writer, rows []CommandInfo) {
	width := 0
	for _, r := range rows {
		width = max(width, len(r.Path))
	}

	fmt.Fprintln(out, commandHeading("Commands and Subcommands:"))
	for _, r := range rows {
		pad := strings.Repeat(" ", width-len(r.Path)+2)
		fmt.Fprintf(out, "  %s%s%s\n", commandPath(r.Path), pad, r.Description)
	}
}

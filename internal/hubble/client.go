// Package hubble talks to the Hubble workflow service: it creates a run of the
// search workflow and starts it with the caller's query.
package hubble

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/mwiater/hubble-tool/internal/logging"
	"github.com/mwiater/hubble-tool/internal/toolerr"
	"github.com/tidwall/gjson"
)

const (
	DefaultBaseURL  = "http://ai-api.hubble-rpc.xyz"
	DefaultWorkflow = "hubbleWorkflow"

	apiKeyHeader = "X-API-Key"
	errPrefix    = "Failed to search Hubble"
)

var defaultHTTPClient = &http.Client{Timeout: 60 * time.Second}

// Client runs search queries through the Hubble workflow API.
type Client struct {
	baseURL    string
	workflow   string
	apiKey     string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithAPIKey sends key in the X-API-Key header of every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithWorkflow selects the workflow id; empty keeps DefaultWorkflow.
func WithWorkflow(id string) Option {
	return func(c *Client) {
		if id != "" {
			c.workflow = id
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient returns a Client for baseURL, or DefaultBaseURL when empty.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		workflow:   DefaultWorkflow,
		httpClient: defaultHTTPClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search creates a fresh workflow run and starts it with query, returning the
// workflow output untouched. Every failure is an UpstreamFailure.
func (c *Client) Search(ctx context.Context, query string) (json.RawMessage, error) {
	runID, err := c.createRun(ctx)
	if err != nil {
		return nil, toolerr.Upstream(err, errPrefix)
	}
	logging.LogEvent("hubble: created run %s for workflow %s", runID, c.workflow)

	out, err := c.startAsync(ctx, runID, query)
	if err != nil {
		return nil, toolerr.Upstream(err, errPrefix)
	}
	return out, nil
}

func (c *Client) createRun(ctx context.Context) (string, error) {
	body, err := c.post(ctx, c.workflowURL("createRun"), nil)
	if err != nil {
		return "", errors.Wrap(err, "createRun")
	}
	runID := gjson.GetBytes(body, "runId")
	if !runID.Exists() || runID.Type != gjson.String || runID.String() == "" {
		return "", errors.New("createRun: response has no runId")
	}
	return runID.String(), nil
}

func (c *Client) startAsync(ctx context.Context, runID, query string) (json.RawMessage, error) {
	payload, err := json.Marshal(map[string]string{"message": query})
	if err != nil {
		return nil, errors.Wrap(err, "startAsync: encode request")
	}
	endpoint := c.workflowURL("startAsync") + "?runId=" + url.QueryEscape(runID)
	body, err := c.post(ctx, endpoint, payload)
	if err != nil {
		return nil, errors.Wrap(err, "startAsync")
	}
	return json.RawMessage(body), nil
}

func (c *Client) workflowURL(action string) string {
	return c.baseURL + "/api/workflows/" + url.PathEscape(c.workflow) + "/" + action
}

// post sends a JSON POST and returns the response body once it is known to be
// a 2xx carrying valid JSON.
func (c *Client) post(ctx context.Context, endpoint string, payload []byte) ([]byte, error) {
	var reader io.Reader = http.NoBody
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Newf("unexpected status: %s", resp.Status)
	}
	if !gjson.ValidBytes(body) {
		return nil, errors.New("response is not valid JSON")
	}
	return body, nil
}

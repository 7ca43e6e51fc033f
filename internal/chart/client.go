package chart

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/sjson"
)

// defaultHTTPClient is shared by clients that were not given their own.
var defaultHTTPClient = &http.Client{Timeout: 30 * time.Second}

// Client posts chart configurations to the rendering service and returns the
// rendered image.
type Client struct {
	endpoint   string
	httpClient *http.Client
	width      int
	height     int
	format     string
}

// NewClient returns a Client for endpoint, or DefaultEndpoint when empty.
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{endpoint: endpoint, httpClient: defaultHTTPClient}
}

// WithHTTPClient replaces the HTTP client used for rendering requests.
func (c *Client) WithHTTPClient(client *http.Client) *Client {
	if client != nil {
		c.httpClient = client
	}
	return c
}

// WithSize sets the requested image size in pixels; zero leaves the service default.
func (c *Client) WithSize(width, height int) *Client {
	c.width = width
	c.height = height
	return c
}

// WithFormat sets the requested image format (png, svg, webp, ...).
func (c *Client) WithFormat(format string) *Client {
	c.format = format
	return c
}

// Render sends {"chart": config} to the rendering service and returns the
// response body. Any non-2xx status is an error.
func (c *Client) Render(ctx context.Context, config map[string]any) ([]byte, error) {
	body, err := c.requestBody(config)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create chart request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "chart request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Newf("chart service returned status: %s", resp.Status)
	}

	image, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read chart response")
	}
	return image, nil
}

func (c *Client) requestBody(config map[string]any) ([]byte, error) {
	if config == nil {
		config = map[string]any{}
	}
	chartJSON, err := json.Marshal(config)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode chart config")
	}

	body, err := sjson.SetRawBytes([]byte(`{}`), "chart", chartJSON)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build chart request")
	}
	if c.width > 0 {
		if body, err = sjson.SetBytes(body, "width", c.width); err != nil {
			return nil, errors.Wrap(err, "failed to build chart request")
		}
	}
	if c.height > 0 {
		if body, err = sjson.SetBytes(body, "height", c.height); err != nil {
			return nil, errors.Wrap(err, "failed to build chart request")
		}
	}
	if c.format != "" {
		if body, err = sjson.SetBytes(body, "format", c.format); err != nil {
			return nil, errors.Wrap(err, "failed to build chart request")
		}
	}
	return body, nil
}

package chart

import (
	"encoding/json"
	"net/url"

	"github.com/cockroachdb/errors"
)

// DefaultEndpoint is the QuickChart-compatible rendering endpoint.
const DefaultEndpoint = "https://quickchart-proxy.vercel.app/api/chart"

// configParam is the query parameter holding the JSON chart config.
const configParam = "c"

// Builder produces fetchable chart URLs for a rendering endpoint.
type Builder struct {
	endpoint string
}

// NewBuilder returns a Builder for endpoint, or DefaultEndpoint when empty.
func NewBuilder(endpoint string) *Builder {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Builder{endpoint: endpoint}
}

// Endpoint returns the rendering endpoint the builder targets.
func (b *Builder) Endpoint() string { return b.endpoint }

// ToURL JSON-encodes cfg and sets it as a single query value on the endpoint.
// Existing query parameters of the endpoint are kept.
func (b *Builder) ToURL(cfg Config) (string, error) {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode chart config")
	}
	u, err := url.Parse(b.endpoint)
	if err != nil {
		return "", errors.Wrapf(err, "invalid chart endpoint %q", b.endpoint)
	}
	q := u.Query()
	q.Set(configParam, string(payload))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

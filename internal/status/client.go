package status

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"oxy/internal/domain"
)

// Client reads the admin endpoint of a running process.
type Client struct {
	Base string
	HTTP *http.Client
}

var _ domain.StatusClient = (*Client)(nil)

// NewClient returns a client for base, e.g. http://127.0.0.1:9090.
func NewClient(base string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{Base: strings.TrimRight(base, "/"), HTTP: hc}
}

// Health fetches /healthz.
func (c *Client) Health(ctx context.Context) (domain.Health, error) {
	var out domain.Health
	if err := c.getJSON(ctx, "/healthz", &out); err != nil {
		return domain.Health{}, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("status get %s: %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

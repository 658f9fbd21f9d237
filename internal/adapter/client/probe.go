package client

import (
	"context"
	"net/http"
	"time"
)

const DefaultProbeURL = "https://httpbin.org/status/200"

// HTTPProbe checks outbound connectivity with a lightweight GET before the
// gateway commits to an external call.
type HTTPProbe struct {
	url    string
	client *http.Client
}

func NewHTTPProbe(url string, timeout time.Duration) *HTTPProbe {
	if url == "" {
		url = DefaultProbeURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPProbe{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (p *HTTPProbe) Online(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

package fetcher

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"

	"forum-mirror/internal/config"
)

// HTTPTransport is the default net/http transport.
type HTTPTransport struct {
	client *http.Client
}

func NewHTTPTransport(cfg *config.Config) *HTTPTransport {
	return &HTTPTransport{
		client: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        cfg.HTTP.MaxIdleConnections,
				MaxIdleConnsPerHost: cfg.HTTP.MaxIdleConnectionsPerHost,
				IdleConnTimeout:     cfg.GetIdleConnectionTimeout(),
			},
		},
	}
}

func (t *HTTPTransport) Get(ctx context.Context, urlStr string, header http.Header) (*FetchResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip body: %w", err)
		}
		defer func() { _ = gzipReader.Close() }()
		reader = gzipReader
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	return &FetchResponse{
		StatusCode: resp.StatusCode,
		Body:       body,
		URL:        resp.Request.URL.String(),
		Headers:    resp.Header,
	}, nil
}

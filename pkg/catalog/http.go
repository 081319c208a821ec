package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"token-swap/pkg/types"
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=mocks -destination=../mocks/http_client.go -source=http.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPSource fetches a JSON array of {currency, date, price} entries.
type HTTPSource struct {
	// url is the endpoint serving the price list.
	url string
	// httpClient performs the requests.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header
}

// HTTPSourceOption is a configuration option for the HTTP price source.
type HTTPSourceOption func(*HTTPSource)

// WithHTTPClient sets the HTTP client used for fetching.
func WithHTTPClient(httpClient HTTPClient) HTTPSourceOption {
	return func(s *HTTPSource) {
		s.httpClient = httpClient
	}
}

// WithTimeout replaces the HTTP client with one using the given overall timeout.
func WithTimeout(timeout time.Duration) HTTPSourceOption {
	return func(s *HTTPSource) {
		s.httpClient = NewHTTPClient(timeout)
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) HTTPSourceOption {
	return func(s *HTTPSource) {
		for key, values := range header {
			for _, value := range values {
				s.header.Add(key, value)
			}
		}
	}
}

// NewHTTPSource creates a price source reading from url.
func NewHTTPSource(url string, options ...HTTPSourceOption) *HTTPSource {
	s := &HTTPSource{
		url:        url,
		httpClient: NewHTTPClient(10 * time.Second),
		header:     http.Header{},
	}
	s.header.Set("Accept", "application/json")
	s.header.Set("User-Agent", "token-swap/0.1")
	for _, option := range options {
		option(s)
	}
	return s
}

// NewHTTPClient returns an http.Client with conservative transport defaults.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		ForceAttemptHTTP2:     true,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   3 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

func (s *HTTPSource) Name() string { return s.url }

// Fetch downloads and decodes the price list.
func (s *HTTPSource) Fetch(ctx context.Context) ([]types.RawPrice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, &FetchError{Source: s.url, Err: fmt.Errorf("build request: %w", err)}
	}
	for key, values := range s.header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Source: s.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &FetchError{Source: s.url, StatusCode: resp.StatusCode}
	}

	return decodePrices(s.url, resp.Body)
}

// decodePrices decodes a JSON array of raw price entries from r.
func decodePrices(source string, r io.Reader) ([]types.RawPrice, error) {
	var raw []types.RawPrice
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, &ParseError{Source: source, Err: err}
	}
	for i := range raw {
		raw[i].Currency = strings.TrimSpace(raw[i].Currency)
		if raw[i].Currency == "" {
			return nil, &ParseError{Source: source, Err: fmt.Errorf("entry %d has no currency", i)}
		}
	}
	return raw, nil
}

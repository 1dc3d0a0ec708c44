package exam

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPSource fetches <baseURL>/<folder>/part<N>.csv (or .xlsx) over HTTP, the layout a
// static file server exposes for the data directory.
type HTTPSource struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

// HTTPOption configures an HTTPSource.
type HTTPOption func(*HTTPSource)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		s.client = client
	}
}

// WithTimeout bounds every request. Without it a hung server blocks the caller until
// ctx is cancelled.
func WithTimeout(d time.Duration) HTTPOption {
	return func(s *HTTPSource) {
		s.timeout = d
	}
}

// NewHTTPSource creates a source for baseURL.
func NewHTTPSource(baseURL string, opts ...HTTPOption) *HTTPSource {
	s := &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.timeout > 0 {
		c := *s.client
		c.Timeout = s.timeout
		s.client = &c
	}
	return s
}

func (s *HTTPSource) Fetch(ctx context.Context, folderName string, partNumber int) (Resource, error) {
	if !validFolderName(folderName) {
		return Resource{}, fmt.Errorf("invalid folder name: %q", folderName)
	}
	for _, f := range formats {
		data, err := s.get(ctx, url.PathEscape(folderName)+"/"+partFile(partNumber, f))
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return Resource{}, err
		}
		return Resource{Data: data, Format: f}, nil
	}
	return Resource{}, ErrNotFound
}

func (s *HTTPSource) Folders(ctx context.Context) ([]string, error) {
	data, err := s.get(ctx, CatalogFile)
	if err != nil {
		return nil, err
	}
	return parseCatalog(data)
}

func (s *HTTPSource) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/"+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return data, nil
}

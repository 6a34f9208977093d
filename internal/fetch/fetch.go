// ABOUTME: Retrieval of the article CSV from a URL or a local file path.
// ABOUTME: HTTP requests are conditional on ETag and Last-Modified and capped in size.

package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	// MaxResponseSize caps the CSV payload.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB

	// DefaultTimeout bounds a single HTTP fetch.
	DefaultTimeout = 30 * time.Second

	// UserAgent is sent with every request.
	UserAgent = "smilefeed/1.0 (article feed)"
)

var (
	// ErrStatus wraps non-200/304 HTTP responses.
	ErrStatus = errors.New("unexpected status code")
	// ErrTooLarge is returned for payloads above the size limit.
	ErrTooLarge = errors.New("response too large")
)

// Result contains the response from a fetch.
type Result struct {
	Body         []byte
	ETag         string
	LastModified string
	NotModified  bool
}

// Fetcher retrieves CSV sources.
type Fetcher struct {
	client  *http.Client
	maxSize int64
}

// New returns a Fetcher whose HTTP requests time out after timeout.
// A zero timeout uses DefaultTimeout.
func New(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		maxSize: MaxResponseSize,
	}
}

var defaultFetcher = New(DefaultTimeout)

// Fetch retrieves urlStr with the default fetcher.
func Fetch(ctx context.Context, urlStr string, etag, lastModified *string) (*Result, error) {
	return defaultFetcher.Fetch(ctx, urlStr, etag, lastModified)
}

// IsRemote reports whether source is an http(s) URL rather than a file path.
func IsRemote(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Load retrieves source, which is either an http(s) URL or a file path.
// The cache headers only apply to URLs.
func (f *Fetcher) Load(ctx context.Context, source string, etag, lastModified *string) (*Result, error) {
	if IsRemote(source) {
		return f.Fetch(ctx, source, etag, lastModified)
	}
	return f.ReadFile(ctx, source)
}

// Fetch retrieves a URL with optional conditional request headers.
// If etag is provided, sets If-None-Match header.
// If lastModified is provided, sets If-Modified-Since header.
// Returns NotModified=true for 304 responses.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string, etag, lastModified *string) (*Result, error) {
	if !IsRemote(urlStr) {
		return nil, fmt.Errorf("invalid URL: %q", urlStr)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")

	if etag != nil && *etag != "" {
		req.Header.Set("If-None-Match", *etag)
	}
	if lastModified != nil && *lastModified != "" {
		req.Header.Set("If-Modified-Since", *lastModified)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return &Result{NotModified: true}, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	body, err := f.readLimited(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Result{
		Body:         body,
		ETag:         resp.Header.Get("ETag"),
		LastModified: resp.Header.Get("Last-Modified"),
	}, nil
}

// ReadFile reads a local CSV file under the same size limit.
func (f *Fetcher) ReadFile(ctx context.Context, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path = strings.TrimPrefix(path, "file://")
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file: %w", err)
	}
	defer file.Close()

	body, err := f.readLimited(file)
	if err != nil {
		return nil, err
	}
	return &Result{Body: body}, nil
}

func (f *Fetcher) readLimited(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, f.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if int64(len(body)) > f.maxSize {
		return nil, fmt.Errorf("%w (exceeds %d bytes)", ErrTooLarge, f.maxSize)
	}
	return body, nil
}

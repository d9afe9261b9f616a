package loader

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"
)

// OpenStore returns the asset store rooted at root. An http or https URL yields a store that fetches each file
// with a GET request; anything else is treated as a local directory.
//
// Parameters:
//   - root: a directory path or an http(s) base URL
//
// Returns:
//   - fs.FS: the asset store
//   - error: an error if the directory does not exist or the URL is invalid
func OpenStore(root string) (fs.FS, error) {
	if strings.HasPrefix(root, "http://") || strings.HasPrefix(root, "https://") {
		return NewHTTPStore(root, nil)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("open asset root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open asset root %s: not a directory", root)
	}
	return os.DirFS(root), nil
}

// contextStore is a store whose requests can be bound to a lifetime.
type contextStore interface {
	WithContext(ctx context.Context) fs.FS
}

// httpStore is an fs.FS over an HTTP base URL.
type httpStore struct {
	base   *url.URL
	client *http.Client
	ctx    context.Context
}

// NewHTTPStore creates an fs.FS that resolves names against baseURL. A nil client uses a client with a 30 second
// timeout. Files report the response Content-Length as their size, or -1 when the server does not declare it.
//
// Parameters:
//   - baseURL: the http(s) URL every name is resolved against
//   - client: the HTTP client, nil for the default
//
// Returns:
//   - fs.FS: the store
//   - error: an error if baseURL does not parse
func NewHTTPStore(baseURL string, client *http.Client) (fs.FS, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse asset url: %w", err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &httpStore{base: u, client: client, ctx: context.Background()}, nil
}

// WithContext returns a copy of the store whose requests, including body reads, are cancelled with ctx.
func (s *httpStore) WithContext(ctx context.Context) fs.FS {
	return &httpStore{base: s.base, client: s.client, ctx: ctx}
}

func (s *httpStore) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	ref, err := url.Parse(name)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	target := s.base.ResolveReference(ref)

	req, err := http.NewRequestWithContext(s.ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		statusErr := &HTTPStatusError{URL: target.String(), StatusCode: resp.StatusCode}
		if resp.StatusCode == http.StatusNotFound {
			return nil, &fs.PathError{Op: "open", Path: name, Err: fmt.Errorf("%w: %w", fs.ErrNotExist, statusErr)}
		}
		return nil, &fs.PathError{Op: "open", Path: name, Err: statusErr}
	}

	return &httpFile{
		body: resp.Body,
		info: httpFileInfo{name: path.Base(name), size: resp.ContentLength, modTime: time.Now()},
	}, nil
}

type httpFile struct {
	body io.ReadCloser
	info httpFileInfo
}

func (f *httpFile) Stat() (fs.FileInfo, error) { return f.info, nil }
func (f *httpFile) Read(p []byte) (int, error) { return f.body.Read(p) }
func (f *httpFile) Close() error               { return f.body.Close() }

type httpFileInfo struct {
	name    string
	size    int64
	modTime time.Time
}

func (i httpFileInfo) Name() string       { return i.name }
func (i httpFileInfo) Size() int64        { return i.size }
func (i httpFileInfo) Mode() fs.FileMode  { return 0o444 }
func (i httpFileInfo) ModTime() time.Time { return i.modTime }
func (i httpFileInfo) IsDir() bool        { return false }
func (i httpFileInfo) Sys() any           { return nil }

package forms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultLoadTimeout bounds HTTP schema fetches when no timeout is set.
const DefaultLoadTimeout = 10 * time.Second

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	// FS, when set, serves every non-URL source instead of the OS filesystem.
	FS fs.FS
	// HTTPClient is used for http(s) sources. A client with Timeout is
	// built when nil.
	HTTPClient *http.Client
	Timeout    time.Duration
	// AssetsDir prefixes relative non-URL sources.
	AssetsDir string
}

// Loader reads form schemas from files, an fs.FS or http(s) URLs.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	timeout   time.Duration
	assetsDir string
}

// NewLoader constructs a Loader from options.
func NewLoader(options LoaderOptions) *Loader {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = DefaultLoadTimeout
	}

	var httpClient *http.Client
	if options.HTTPClient != nil {
		clone := *options.HTTPClient
		if clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	} else {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:        options.FS,
		http:      httpClient,
		timeout:   timeout,
		assetsDir: options.AssetsDir,
	}
}

// Load fetches and decodes the schema at src. A missing source yields an
// error wrapping ErrSchemaNotFound.
func (l *Loader) Load(ctx context.Context, src string) (Schema, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return Schema{}, errors.New("forms loader: source is required")
	}

	var (
		data []byte
		err  error
	)
	switch {
	case isURL(src):
		data, err = l.loadHTTP(ctx, src)
	case l.fs != nil:
		data, err = l.loadFS(ctx, src)
	default:
		data, err = l.loadFile(ctx, src)
	}
	if err != nil {
		return Schema{}, err
	}

	schema, err := Parse(data, formatOf(src))
	if err != nil {
		return Schema{}, fmt.Errorf("forms loader: %s: %w", src, err)
	}
	return schema, nil
}

// LoadForm loads src and builds its form.
func (l *Loader) LoadForm(ctx context.Context, src string) (*Form, error) {
	schema, err := l.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return New(schema)
}

func (l *Loader) loadFile(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.assetsDir != "" && !filepath.IsAbs(name) {
		name = filepath.Join(l.assetsDir, name)
	}
	data, err := os.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, name)
	}
	return data, err
}

func (l *Loader) loadFS(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name = strings.TrimPrefix(path.Clean(filepath.ToSlash(name)), "/")
	if l.assetsDir != "" {
		name = path.Join(filepath.ToSlash(l.assetsDir), name)
	}
	data, err := fs.ReadFile(l.fs, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, name)
	}
	return data, err
}

func (l *Loader) loadHTTP(ctx context.Context, url string) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forms loader: fetch %s: %w", url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, url)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("forms loader: unexpected status %s from %s", resp.Status, url)
	}
	return io.ReadAll(resp.Body)
}

// Parse decodes a schema document. format is "yaml" or "json"; anything
// else is treated as JSON.
func Parse(data []byte, format string) (Schema, error) {
	var schema Schema
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &schema); err != nil {
			return Schema{}, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&schema); err != nil {
			return Schema{}, fmt.Errorf("decode json: %w", err)
		}
	}
	return schema, nil
}

func formatOf(src string) string {
	if isURL(src) {
		if i := strings.IndexAny(src, "?#"); i >= 0 {
			src = src[:i]
		}
	}
	switch strings.ToLower(path.Ext(src)) {
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}

func isURL(src string) bool {
	lower := strings.ToLower(src)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

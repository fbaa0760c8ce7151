package openapi

import (
	"context"
	"io/fs"
	"net/http"
)

// Loader fetches OpenAPI documents from their sources (file path, fs.FS
// entry, HTTP endpoint). The implementation lives under internal/openapi.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

// LoaderOptions configures how a Loader resolves sources.
type LoaderOptions struct {
	// FileSystem backs SourceFromFS sources. Nil rejects fs sources.
	FileSystem fs.FS

	// HTTPClient fetches SourceFromURL sources. Nil falls back to
	// http.DefaultClient.
	HTTPClient *http.Client
}

// LoaderOption mutates LoaderOptions during construction.
type LoaderOption func(*LoaderOptions)

// WithFileSystem injects the fs.FS that backs SourceFromFS sources.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.FileSystem = files
	}
}

// WithHTTPClient injects a custom HTTP client for remote documents.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.HTTPClient = client
	}
}

// NewLoaderOptions applies LoaderOption functions and returns the resulting
// configuration.
func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	cfg := LoaderOptions{}
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}

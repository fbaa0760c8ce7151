package openapi

import "context"

// Parser normalises OpenAPI documents into the component-schema table that
// the type mapper consumes, keyed by schema name as declared under
// components/schemas.
type Parser interface {
	Schemas(ctx context.Context, doc Document) (map[string]Schema, error)
}

// ParserOptions exposes toggles for parser behaviour.
type ParserOptions struct {
	// ResolveReferences controls whether the parser validates the document
	// so that $ref pointers are known-resolvable. Defaults to true.
	ResolveReferences bool

	// AllowEmptyComponents gates documents without any component schemas.
	// Defaults to false: a document with nothing to convert is an error.
	AllowEmptyComponents bool
}

// ParserOption mutates ParserOptions during construction.
type ParserOption func(*ParserOptions)

// WithReferenceResolution toggles eager reference validation.
func WithReferenceResolution(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.ResolveReferences = enabled
	}
}

// WithEmptyComponents toggles acceptance of documents that declare no
// component schemas.
func WithEmptyComponents(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.AllowEmptyComponents = enabled
	}
}

// NewParserOptions applies ParserOption functions and returns the resulting
// configuration. Implementations under internal/openapi should call this
// helper to remain consistent.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{
		ResolveReferences:    true,
		AllowEmptyComponents: false,
	}
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}

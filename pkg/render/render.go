// Package render turns type model trees into Avro schema text. Two renderers
// share the model contract and nothing else: Standard inlines every nested
// named type at its point of use, Unified defines each named type once and
// references it by qualified name elsewhere.
//
// Renderer values hold no per-render state; caches live in call-scoped
// contexts, so one renderer may serve concurrent renders.
package render

import (
	"errors"
	"fmt"
	"unicode/utf8"

	json "github.com/goccy/go-json"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/goliatone/go-avrogen/pkg/avro"
)

// DefaultNamespace qualifies named types when the caller supplies none.
const DefaultNamespace = "com.goliatone.generated"

var (
	// ErrNamedTypeConflict marks two structurally different types claiming
	// the same qualified name within one render. Fatal: the document could
	// not be parsed back unambiguously.
	ErrNamedTypeConflict = errors.New("render: named type conflict")

	// ErrPatternEscaping marks a pattern that cannot be embedded in the
	// output text. Failing loudly beats emitting corrupt schema text.
	ErrPatternEscaping = errors.New("render: pattern cannot be embedded")
)

// Options configures a renderer.
type Options struct {
	Namespace string
}

// Option mutates Options during construction.
type Option func(*Options)

// WithNamespace overrides the namespace under which named types are defined
// and referenced.
func WithNamespace(namespace string) Option {
	return func(opts *Options) {
		opts.Namespace = namespace
	}
}

func newOptions(options ...Option) Options {
	cfg := Options{Namespace: DefaultNamespace}
	for _, opt := range options {
		opt(&cfg)
	}
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}
	return cfg
}

// attrs is the ordered JSON object used for every schema node we emit;
// attribute order is part of the rendered text's stability guarantee.
type attrs = orderedmap.OrderedMap[string, any]

func newAttrs() *attrs {
	return orderedmap.New[string, any]()
}

func marshalDocument(value any) ([]byte, error) {
	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render: marshal schema document: %w", err)
	}
	return out, nil
}

// checkPattern validates that a pattern survives JSON string embedding.
func checkPattern(pattern string) error {
	if !utf8.ValidString(pattern) {
		return fmt.Errorf("%w: pattern %q is not valid UTF-8", ErrPatternEscaping, pattern)
	}
	return nil
}

// renderLong covers the one primitive with a structural form: a long tagged
// with a logical type (timestamp-millis).
func renderLong(t *avro.TypeInfo) any {
	if t.LogicalType() == "" {
		return string(avro.KindLong)
	}
	node := newAttrs()
	node.Set("type", string(avro.KindLong))
	node.Set("logicalType", t.LogicalType())
	return node
}

// Package avrogen derives Avro-style schema text from raw JSON samples or
// from the component schemas of an OpenAPI document. The root package wires
// the inference engine, the OpenAPI mapper, and the renderers together; the
// sub-packages remain usable on their own for callers that need only one
// stage.
package avrogen

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/goliatone/go-avrogen/internal/openapi/loader"
	"github.com/goliatone/go-avrogen/internal/openapi/parser"
	"github.com/goliatone/go-avrogen/pkg/avro"
	"github.com/goliatone/go-avrogen/pkg/detect"
	"github.com/goliatone/go-avrogen/pkg/infer"
	"github.com/goliatone/go-avrogen/pkg/mapper"
	pkgopenapi "github.com/goliatone/go-avrogen/pkg/openapi"
	"github.com/goliatone/go-avrogen/pkg/render"
)

// ErrInputNotFound reports a source path that does not exist. File-based
// entry points wrap it with the offending path.
var ErrInputNotFound = errors.New("avrogen: input not found")

// Converter is the configured pipeline front door. The zero configuration
// infers with the default detector set, renders standard (inlined) documents
// under the default namespace, and parses OpenAPI documents with reference
// resolution enabled.
type Converter struct {
	namespace string
	typeName  string
	unified   bool
	detectors []detect.Detector
	parser    pkgopenapi.Parser
	loader    pkgopenapi.Loader
}

// Option configures a Converter.
type Option func(*Converter)

// WithNamespace overrides the namespace stamped on named types.
func WithNamespace(namespace string) Option {
	return func(c *Converter) {
		c.namespace = namespace
	}
}

// WithTypeName overrides the root type name used for JSON inference. OpenAPI
// conversions name types after their components and ignore it.
func WithTypeName(name string) Option {
	return func(c *Converter) {
		c.typeName = name
	}
}

// WithUnified switches output to the unified layout: a JSON array of
// standalone definitions with repeated named types emitted once and
// referenced by qualified name.
func WithUnified(enabled bool) Option {
	return func(c *Converter) {
		c.unified = enabled
	}
}

// WithDetectors replaces the default detector set used during JSON
// inference.
func WithDetectors(detectors ...detect.Detector) Option {
	return func(c *Converter) {
		c.detectors = detectors
	}
}

// WithParser replaces the OpenAPI parser, mostly useful in tests.
func WithParser(p pkgopenapi.Parser) Option {
	return func(c *Converter) {
		c.parser = p
	}
}

// WithLoader replaces the document loader, e.g. to back fs.FS sources with
// an embedded filesystem or to inject a custom HTTP client.
func WithLoader(l pkgopenapi.Loader) Option {
	return func(c *Converter) {
		c.loader = l
	}
}

// New constructs a Converter.
func New(options ...Option) *Converter {
	c := &Converter{namespace: render.DefaultNamespace}
	for _, option := range options {
		option(c)
	}
	if c.parser == nil {
		c.parser = parser.New(pkgopenapi.NewParserOptions())
	}
	if c.loader == nil {
		c.loader = loader.New(pkgopenapi.NewLoaderOptions())
	}
	return c
}

// ConvertJSON infers a type model from a JSON sample document and renders
// it as schema text.
func (c *Converter) ConvertJSON(data []byte) ([]byte, error) {
	rootName := c.typeName
	if rootName == "" {
		rootName = infer.DefaultRootName
	}
	model, err := infer.New(c.detectors...).Infer(data, rootName)
	if err != nil {
		return nil, err
	}
	return c.renderModel(model, rootName)
}

// ConvertJSONFile is ConvertJSON reading the sample from disk.
func (c *Converter) ConvertJSONFile(path string) ([]byte, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	return c.ConvertJSON(data)
}

// ConvertOpenAPI maps the named component schema of an OpenAPI document to a
// type model and renders it. Sibling components are available for reference
// resolution.
func (c *Converter) ConvertOpenAPI(ctx context.Context, doc pkgopenapi.Document, schemaName string) ([]byte, error) {
	schemas, err := c.parser.Schemas(ctx, doc)
	if err != nil {
		return nil, err
	}
	schema, ok := schemas[schemaName]
	if !ok {
		return nil, fmt.Errorf("avrogen: component schema %q not found in %s", schemaName, doc.Location())
	}
	model, err := mapper.New(schemas).Map(schema, schemaName)
	if err != nil {
		return nil, err
	}
	return c.renderModel(model, schemaName)
}

// ConvertOpenAPISource is ConvertOpenAPI loading the document through the
// configured loader, so filesystem, fs.FS, and URL sources all work.
func (c *Converter) ConvertOpenAPISource(ctx context.Context, src pkgopenapi.Source, schemaName string) ([]byte, error) {
	doc, err := c.loadDocument(ctx, src)
	if err != nil {
		return nil, err
	}
	return c.ConvertOpenAPI(ctx, doc, schemaName)
}

// ConvertOpenAPIFile is ConvertOpenAPI loading the document from disk.
func (c *Converter) ConvertOpenAPIFile(ctx context.Context, path, schemaName string) ([]byte, error) {
	return c.ConvertOpenAPISource(ctx, pkgopenapi.SourceFromFile(path), schemaName)
}

// ConvertOpenAPIAll maps every component schema of the document and renders
// each record-kinded result as its own schema document, keyed by component
// name. Scalar and enum components only exist to be referenced, so they are
// mapped (errors still surface) but not emitted standalone.
func (c *Converter) ConvertOpenAPIAll(ctx context.Context, doc pkgopenapi.Document) (map[string][]byte, error) {
	schemas, err := c.parser.Schemas(ctx, doc)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	m := mapper.New(schemas)
	out := make(map[string][]byte, len(schemas))
	for _, name := range names {
		model, err := m.Map(schemas[name], name)
		if err != nil {
			return nil, fmt.Errorf("avrogen: component %q: %w", name, err)
		}
		if model.Kind() != avro.KindRecord {
			continue
		}
		rendered, err := c.renderModel(model, name)
		if err != nil {
			return nil, fmt.Errorf("avrogen: component %q: %w", name, err)
		}
		out[name] = rendered
	}
	return out, nil
}

// ConvertOpenAPIAllFromSource is ConvertOpenAPIAll loading the document
// through the configured loader.
func (c *Converter) ConvertOpenAPIAllFromSource(ctx context.Context, src pkgopenapi.Source) (map[string][]byte, error) {
	doc, err := c.loadDocument(ctx, src)
	if err != nil {
		return nil, err
	}
	return c.ConvertOpenAPIAll(ctx, doc)
}

// ConvertOpenAPIAllFromFile is ConvertOpenAPIAll loading the document from
// disk.
func (c *Converter) ConvertOpenAPIAllFromFile(ctx context.Context, path string) (map[string][]byte, error) {
	return c.ConvertOpenAPIAllFromSource(ctx, pkgopenapi.SourceFromFile(path))
}

func (c *Converter) renderModel(model *avro.TypeInfo, name string) ([]byte, error) {
	if c.unified {
		return render.NewUnified(render.WithNamespace(c.namespace)).Render(model, name)
	}
	return render.NewStandard(render.WithNamespace(c.namespace)).Render(model, name)
}

// ConvertJSON is the package-level shorthand for a one-shot conversion.
func ConvertJSON(data []byte, options ...Option) ([]byte, error) {
	return New(options...).ConvertJSON(data)
}

// ConvertJSONFile converts a JSON sample file in one call.
func ConvertJSONFile(path string, options ...Option) ([]byte, error) {
	return New(options...).ConvertJSONFile(path)
}

// ConvertOpenAPIFile converts one component schema of an OpenAPI file in one
// call.
func ConvertOpenAPIFile(ctx context.Context, path, schemaName string, options ...Option) ([]byte, error) {
	return New(options...).ConvertOpenAPIFile(ctx, path, schemaName)
}

func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("avrogen: %s: %w", path, ErrInputNotFound)
		}
		return nil, fmt.Errorf("avrogen: read %s: %w", path, err)
	}
	return data, nil
}

func (c *Converter) loadDocument(ctx context.Context, src pkgopenapi.Source) (pkgopenapi.Document, error) {
	doc, err := c.loader.Load(ctx, src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return pkgopenapi.Document{}, fmt.Errorf("avrogen: %s: %w", src.Location(), ErrInputNotFound)
		}
		return pkgopenapi.Document{}, err
	}
	return doc, nil
}

package render

import (
	"fmt"

	"github.com/goliatone/go-avrogen/pkg/avro"
)

// Standard renders one self-contained schema document with every nested
// named type inlined at its first point of use. Exact repeats of a
// (namespace, name) pair are emitted once and referenced by qualified name
// thereafter, because schema grammars reject duplicate definitions inside a
// single document; structurally distinct types with different names are
// always inlined.
type Standard struct {
	opts Options
}

// NewStandard constructs a Standard renderer.
func NewStandard(options ...Option) *Standard {
	return &Standard{opts: newOptions(options...)}
}

// Render emits schema text for the tree. The name parameter is the fallback
// root name for trees whose root node carries none.
func (r *Standard) Render(root *avro.TypeInfo, name string) ([]byte, error) {
	if root == nil {
		return nil, fmt.Errorf("render: standard: nil type model")
	}
	ctx := &inlineContext{
		namespace: r.opts.Namespace,
		named:     map[string]*avro.TypeInfo{},
	}
	value, err := ctx.render(root, name)
	if err != nil {
		return nil, err
	}
	return marshalDocument(value)
}

// inlineContext carries the per-render dedup cache. A fresh context per call
// keeps renders idempotent and concurrent use safe.
type inlineContext struct {
	namespace string
	named     map[string]*avro.TypeInfo
}

func (c *inlineContext) render(t *avro.TypeInfo, name string) (any, error) {
	switch t.Kind() {
	case avro.KindNull, avro.KindBoolean, avro.KindInt, avro.KindFloat, avro.KindDouble:
		return string(t.Kind()), nil
	case avro.KindLong:
		return renderLong(t), nil
	case avro.KindString:
		return c.renderString(t)
	case avro.KindArray:
		return c.renderArray(t, name)
	case avro.KindEnum:
		return c.renderEnum(t)
	case avro.KindRecord:
		return c.renderRecord(t)
	case avro.KindUnion:
		return c.renderUnion(t, name)
	default:
		return nil, fmt.Errorf("render: standard: unsupported kind %q", t.Kind())
	}
}

func (c *inlineContext) renderString(t *avro.TypeInfo) (any, error) {
	if t.Pattern() != "" {
		if err := checkPattern(t.Pattern()); err != nil {
			return nil, err
		}
	}

	// A named logical string renders as a named definition so consumers can
	// refer to the identifier type by name.
	if t.Name() != "" && t.LogicalType() != "" {
		node := newAttrs()
		node.Set("name", t.Name())
		node.Set("type", string(avro.KindString))
		node.Set("logicalType", t.LogicalType())
		if t.Pattern() != "" {
			node.Set("pattern", t.Pattern())
		}
		return node, nil
	}

	if t.Pattern() != "" {
		node := newAttrs()
		node.Set("type", string(avro.KindString))
		node.Set("pattern", t.Pattern())
		if t.LogicalType() != "" {
			node.Set("logicalType", t.LogicalType())
		}
		return node, nil
	}

	if t.LogicalType() != "" {
		node := newAttrs()
		node.Set("type", string(avro.KindString))
		node.Set("logicalType", t.LogicalType())
		return node, nil
	}

	return string(avro.KindString), nil
}

func (c *inlineContext) renderArray(t *avro.TypeInfo, name string) (any, error) {
	items, err := c.render(t.Item(), name+"Item")
	if err != nil {
		return nil, err
	}
	node := newAttrs()
	node.Set("type", string(avro.KindArray))
	node.Set("items", items)
	return node, nil
}

func (c *inlineContext) renderEnum(t *avro.TypeInfo) (any, error) {
	key := avro.QualifiedName(c.namespace, t.Name())
	if prior, ok := c.named[key]; ok {
		if !avro.Equal(prior, t) {
			return nil, fmt.Errorf("%w: enum %q", ErrNamedTypeConflict, key)
		}
		return key, nil
	}
	c.named[key] = t

	node := newAttrs()
	node.Set("type", string(avro.KindEnum))
	node.Set("name", t.Name())
	node.Set("namespace", c.namespace)
	if t.Doc() != "" {
		node.Set("doc", t.Doc())
	}
	node.Set("symbols", t.Symbols())
	return node, nil
}

func (c *inlineContext) renderRecord(t *avro.TypeInfo) (any, error) {
	key := avro.QualifiedName(c.namespace, t.Name())
	if prior, ok := c.named[key]; ok {
		if !avro.Equal(prior, t) {
			return nil, fmt.Errorf("%w: record %q", ErrNamedTypeConflict, key)
		}
		return key, nil
	}
	c.named[key] = t

	fields := make([]any, 0, len(t.Fields()))
	for _, field := range t.Fields() {
		rendered, err := c.render(field.Type, field.Name)
		if err != nil {
			return nil, err
		}
		entry := newAttrs()
		entry.Set("name", field.Name)
		entry.Set("type", rendered)
		if doc := field.Type.Doc(); doc != "" {
			entry.Set("doc", doc)
		}
		if field.Type.IsNullable() {
			entry.Set("default", nil)
		}
		fields = append(fields, entry)
	}

	node := newAttrs()
	node.Set("type", string(avro.KindRecord))
	node.Set("name", t.Name())
	node.Set("namespace", c.namespace)
	if t.Doc() != "" {
		node.Set("doc", t.Doc())
	}
	node.Set("fields", fields)
	return node, nil
}

func (c *inlineContext) renderUnion(t *avro.TypeInfo, name string) (any, error) {
	alternatives := make([]any, 0, len(t.Alternatives()))
	for _, alt := range t.Alternatives() {
		rendered, err := c.render(alt, name)
		if err != nil {
			return nil, err
		}
		alternatives = append(alternatives, rendered)
	}
	return alternatives, nil
}

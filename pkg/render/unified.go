package render

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/goliatone/go-avrogen/pkg/avro"
)

// Unified renders a single document containing every named type exactly
// once: a JSON array of definitions in dependency-safe order, with
// enum/record uses elsewhere expressed as qualified-name references. The
// consuming schema library is expected to resolve those name references
// within the document.
type Unified struct {
	opts Options
}

// NewUnified constructs a Unified renderer.
func NewUnified(options ...Option) *Unified {
	return &Unified{opts: newOptions(options...)}
}

// Render collects the tree's named types and emits them as an ordered list
// of standalone definitions.
func (r *Unified) Render(root *avro.TypeInfo, name string) ([]byte, error) {
	if root == nil {
		return nil, fmt.Errorf("render: unified: nil type model")
	}

	reg := &registry{
		namespace: r.opts.Namespace,
		seen:      map[string]*avro.TypeInfo{},
		types:     orderedmap.New[string, *avro.TypeInfo](),
	}
	if err := reg.collect(root); err != nil {
		return nil, err
	}

	definitions := make([]any, 0, reg.types.Len())
	for pair := reg.types.Oldest(); pair != nil; pair = pair.Next() {
		def, err := reg.renderDefinition(pair.Value)
		if err != nil {
			return nil, err
		}
		definitions = append(definitions, def)
	}
	return marshalDocument(definitions)
}

// registry is the call-scoped collection state: a first-definition-wins
// ordered map of named types keyed by qualified name.
type registry struct {
	namespace string
	seen      map[string]*avro.TypeInfo
	types     *orderedmap.OrderedMap[string, *avro.TypeInfo]
}

// collect walks the tree depth-first. A record's field subtrees are visited
// before the record itself is registered, so children land ahead of or
// alongside their parent in the definition order.
func (r *registry) collect(t *avro.TypeInfo) error {
	if t == nil {
		return nil
	}

	switch t.Kind() {
	case avro.KindEnum:
		return r.register(t)
	case avro.KindRecord:
		key := avro.QualifiedName(r.namespace, t.Name())
		if prior, ok := r.seen[key]; ok {
			if !avro.Equal(prior, t) {
				return fmt.Errorf("%w: record %q", ErrNamedTypeConflict, key)
			}
			return nil
		}
		r.seen[key] = t
		for _, field := range t.Fields() {
			if err := r.collect(field.Type); err != nil {
				return err
			}
		}
		r.types.Set(key, t)
		return nil
	case avro.KindArray:
		return r.collect(t.Item())
	case avro.KindUnion:
		for _, alt := range t.Alternatives() {
			if err := r.collect(alt); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

func (r *registry) register(t *avro.TypeInfo) error {
	key := avro.QualifiedName(r.namespace, t.Name())
	if prior, ok := r.seen[key]; ok {
		// First definition wins; later occurrences must be the same type.
		if !avro.Equal(prior, t) {
			return fmt.Errorf("%w: %s %q", ErrNamedTypeConflict, t.Kind(), key)
		}
		return nil
	}
	r.seen[key] = t
	r.types.Set(key, t)
	return nil
}

func (r *registry) renderDefinition(t *avro.TypeInfo) (any, error) {
	switch t.Kind() {
	case avro.KindEnum:
		node := newAttrs()
		node.Set("type", string(avro.KindEnum))
		node.Set("name", t.Name())
		node.Set("namespace", r.namespace)
		if t.Doc() != "" {
			node.Set("doc", t.Doc())
		}
		node.Set("symbols", t.Symbols())
		return node, nil
	case avro.KindRecord:
		fields := make([]any, 0, len(t.Fields()))
		for _, field := range t.Fields() {
			rendered, err := r.renderFieldType(field.Type)
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
		node.Set("namespace", r.namespace)
		if t.Doc() != "" {
			node.Set("doc", t.Doc())
		}
		node.Set("fields", fields)
		return node, nil
	default:
		return nil, fmt.Errorf("render: unified: %q is not a named type", t.Kind())
	}
}

// renderFieldType emits the in-place form of a type used inside a
// definition: named types become bare qualified-name references, everything
// else renders structurally.
func (r *registry) renderFieldType(t *avro.TypeInfo) (any, error) {
	switch t.Kind() {
	case avro.KindNull, avro.KindBoolean, avro.KindInt, avro.KindFloat, avro.KindDouble:
		return string(t.Kind()), nil
	case avro.KindLong:
		return renderLong(t), nil
	case avro.KindString:
		return r.renderStringField(t)
	case avro.KindEnum, avro.KindRecord:
		return avro.QualifiedName(r.namespace, t.Name()), nil
	case avro.KindArray:
		items, err := r.renderFieldType(t.Item())
		if err != nil {
			return nil, err
		}
		node := newAttrs()
		node.Set("type", string(avro.KindArray))
		node.Set("items", items)
		return node, nil
	case avro.KindUnion:
		alternatives := make([]any, 0, len(t.Alternatives()))
		for _, alt := range t.Alternatives() {
			rendered, err := r.renderFieldType(alt)
			if err != nil {
				return nil, err
			}
			alternatives = append(alternatives, rendered)
		}
		return alternatives, nil
	default:
		return nil, fmt.Errorf("render: unified: unsupported kind %q", t.Kind())
	}
}

func (r *registry) renderStringField(t *avro.TypeInfo) (any, error) {
	if t.LogicalType() == "" && t.Pattern() == "" {
		return string(avro.KindString), nil
	}
	if t.Pattern() != "" {
		if err := checkPattern(t.Pattern()); err != nil {
			return nil, err
		}
	}
	node := newAttrs()
	node.Set("type", string(avro.KindString))
	if t.LogicalType() != "" {
		node.Set("logicalType", t.LogicalType())
	}
	if t.Pattern() != "" {
		node.Set("pattern", t.Pattern())
	}
	return node, nil
}

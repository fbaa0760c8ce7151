// Package mapper translates neutral OpenAPI schemas into the type model.
// Unlike package infer it performs no heuristics: every decision is driven by
// an explicit OpenAPI construct (type, format, pattern, enum, required,
// $ref).
package mapper

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-avrogen/pkg/avro"
	"github.com/goliatone/go-avrogen/pkg/openapi"
)

var (
	// ErrUnresolvedReference marks a $ref whose target is missing from the
	// document's component table. Fatal: a silently dropped reference would
	// corrupt the resulting schema.
	ErrUnresolvedReference = errors.New("mapper: unresolved reference")

	// ErrCircularReference marks a $ref chain that re-enters a schema
	// currently being expanded. Self-referential component schemas have no
	// finite inline representation in this model.
	ErrCircularReference = errors.New("mapper: circular reference")
)

// Mapper resolves component references against one document's schema table
// and maps schemas to TypeInfo trees. Map calls are independent and safe to
// issue concurrently.
type Mapper struct {
	schemas map[string]openapi.Schema
}

// New constructs a Mapper over a component-schema table as produced by the
// parser (keyed by component name). The table is deep-copied so callers can
// keep mutating theirs between Map calls.
func New(schemas map[string]openapi.Schema) *Mapper {
	copied := make(map[string]openapi.Schema, len(schemas))
	for name, schema := range schemas {
		copied[name] = schema.Clone()
	}
	return &Mapper{schemas: copied}
}

// Map converts one schema under the given naming context. The field name
// seeds enum/record type names for anonymous nested schemas.
func (m *Mapper) Map(schema openapi.Schema, fieldName string) (*avro.TypeInfo, error) {
	return m.mapSchema(schema, fieldName, map[string]bool{})
}

func (m *Mapper) mapSchema(schema openapi.Schema, fieldName string, expanding map[string]bool) (*avro.TypeInfo, error) {
	// An entirely empty schema constrains nothing; treat it as a plain
	// string value like any other unusable declaration.
	if schema.IsZero() {
		return avro.Primitive(avro.KindString), nil
	}
	if schema.Ref != "" {
		return m.mapReference(schema.Ref, fieldName, expanding)
	}

	// An explicit enum list wins over the declared type.
	if len(schema.Enum) > 0 {
		return mapEnum(schema, fieldName)
	}

	switch strings.ToLower(schema.Type) {
	case "string":
		return mapString(schema), nil
	case "integer":
		return mapInteger(schema), nil
	case "number":
		return mapNumber(schema), nil
	case "boolean":
		return avro.Primitive(avro.KindBoolean, docOption(schema)...), nil
	case "array":
		return m.mapArray(schema, fieldName, expanding)
	case "object":
		return m.mapObject(schema, fieldName, expanding)
	default:
		// Unsupported or absent declarations fall back to string rather
		// than failing; the document said nothing usable about the value.
		return avro.Primitive(avro.KindString), nil
	}
}

func mapString(schema openapi.Schema) *avro.TypeInfo {
	switch strings.ToLower(schema.Format) {
	case "uuid":
		opts := append(docOption(schema), avro.WithLogicalType("uuid"))
		return avro.Primitive(avro.KindString, opts...)
	case "date", "date-time":
		// Format wins over any declared pattern.
		opts := append(docOption(schema), avro.WithLogicalType("timestamp-millis"))
		return avro.Primitive(avro.KindLong, opts...)
	}

	opts := docOption(schema)
	if schema.Pattern != "" {
		opts = append(opts, avro.WithPattern(schema.Pattern))
	}
	return avro.Primitive(avro.KindString, opts...)
}

func mapInteger(schema openapi.Schema) *avro.TypeInfo {
	kind := avro.KindInt
	switch strings.ToLower(schema.Format) {
	case "int64", "long":
		kind = avro.KindLong
	}
	return avro.Primitive(kind, docOption(schema)...)
}

func mapNumber(schema openapi.Schema) *avro.TypeInfo {
	kind := avro.KindFloat
	if strings.ToLower(schema.Format) == "double" {
		kind = avro.KindDouble
	}
	return avro.Primitive(kind, docOption(schema)...)
}

func mapEnum(schema openapi.Schema, fieldName string) (*avro.TypeInfo, error) {
	symbols := make([]string, 0, len(schema.Enum))
	for _, value := range schema.Enum {
		symbols = append(symbols, fmt.Sprint(value))
	}

	name := avro.Capitalize(fieldName) + "Enum"
	enum, err := avro.NewEnum(name, symbols, docOption(schema)...)
	if err != nil {
		return nil, fmt.Errorf("mapper: enum %q (%s): %w", fieldName, schema.DebugString(), err)
	}
	return enum, nil
}

func (m *Mapper) mapArray(schema openapi.Schema, fieldName string, expanding map[string]bool) (*avro.TypeInfo, error) {
	itemSchema := openapi.Schema{}
	if schema.Items != nil {
		itemSchema = *schema.Items
	}
	item, err := m.mapSchema(itemSchema, fieldName+"Item", expanding)
	if err != nil {
		return nil, err
	}

	arr, err := avro.NewArray(item, docOption(schema)...)
	if err != nil {
		return nil, fmt.Errorf("mapper: array %q: %w", fieldName, err)
	}
	return arr, nil
}

func (m *Mapper) mapObject(schema openapi.Schema, fieldName string, expanding map[string]bool) (*avro.TypeInfo, error) {
	requiredSet := make(map[string]struct{}, len(schema.Required))
	for _, name := range schema.Required {
		requiredSet[name] = struct{}{}
	}

	propNames := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		propNames = append(propNames, name)
	}
	sort.Strings(propNames)

	fields := make([]avro.Field, 0, len(propNames))
	for _, propName := range propNames {
		mapped, err := m.mapSchema(schema.Properties[propName], propName, expanding)
		if err != nil {
			return nil, err
		}
		// Nullable-by-default-unless-required, regardless of the
		// property's own type.
		if _, required := requiredSet[propName]; !required {
			mapped = avro.Nullable(mapped)
		}
		fields = append(fields, avro.Field{Name: avro.SanitizeName(propName), Type: mapped})
	}

	name := avro.Capitalize(fieldName) + "Record"
	record, err := avro.NewRecord(name, fields, docOption(schema)...)
	if err != nil {
		return nil, fmt.Errorf("mapper: object %q (%s): %w", fieldName, schema.DebugString(), err)
	}
	return record, nil
}

func (m *Mapper) mapReference(ref, fieldName string, expanding map[string]bool) (*avro.TypeInfo, error) {
	name := schemaNameFromRef(ref)
	if expanding[name] {
		return nil, fmt.Errorf("%w: schema %q references itself (via field %q)", ErrCircularReference, name, fieldName)
	}

	target, ok := m.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (field %q) not found in component schemas", ErrUnresolvedReference, ref, fieldName)
	}
	if target.Ref != "" {
		// Resolution is one level deep by contract; a reference that
		// resolves to another bare reference fails instead of silently
		// stopping short.
		return nil, fmt.Errorf("%w: %q resolves to another reference %q", ErrUnresolvedReference, ref, target.Ref)
	}

	expanding[name] = true
	defer delete(expanding, name)

	// Re-apply the mapping rules to the target under its component name:
	// enum references become named enums, object references named records.
	return m.mapSchema(target, name, expanding)
}

func schemaNameFromRef(ref string) string {
	if idx := strings.LastIndex(ref, "/"); idx >= 0 {
		return ref[idx+1:]
	}
	return ref
}

func docOption(schema openapi.Schema) []avro.Option {
	if schema.Description == "" {
		return nil
	}
	return []avro.Option{avro.WithDoc(schema.Description)}
}

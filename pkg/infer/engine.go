// Package infer derives a type model from raw JSON sample documents. The
// engine consults a detector set for string values and treats every decision
// heuristically; contrast with package mapper, where every decision is driven
// by an explicit OpenAPI construct.
package infer

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-avrogen/pkg/avro"
	"github.com/goliatone/go-avrogen/pkg/detect"
)

// DefaultRootName names the record inferred from a document root when the
// caller does not supply one.
const DefaultRootName = "Root"

// Engine walks parsed JSON values and produces TypeInfo trees.
type Engine struct {
	detectors *detect.Set
}

// New constructs an Engine. With no arguments the default detector set
// (UUID, enum heuristic) is installed.
func New(detectors ...detect.Detector) *Engine {
	if len(detectors) == 0 {
		return &Engine{detectors: detect.DefaultSet()}
	}
	return &Engine{detectors: detect.NewSet(detectors...)}
}

// Infer parses a JSON document and infers its type under the given field
// name.
func (e *Engine) Infer(data []byte, fieldName string) (*avro.TypeInfo, error) {
	value, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return e.InferValue(value, fieldName)
}

// InferValue infers the type of an already-parsed value. The field name
// seeds record and enum names for nested types.
func (e *Engine) InferValue(value any, fieldName string) (*avro.TypeInfo, error) {
	if fieldName == "" {
		fieldName = DefaultRootName
	}

	switch v := value.(type) {
	case nil:
		// A lone null never determines the real type; default to a
		// nullable string placeholder.
		return nullableString(), nil
	case bool:
		return avro.Primitive(avro.KindBoolean), nil
	case json.Number:
		// Numbers are deliberately modelled as strings to preserve the
		// exact textual form; see the module documentation before
		// changing this.
		return avro.Primitive(avro.KindString), nil
	case string:
		return e.inferString(v, fieldName), nil
	case []any:
		return e.inferArray(v, fieldName)
	case *Object:
		return e.inferRecord(v, fieldName)
	default:
		return nil, fmt.Errorf("infer: unsupported value %T under field %q", value, fieldName)
	}
}

func (e *Engine) inferString(value, fieldName string) *avro.TypeInfo {
	for _, d := range e.detectors.Detectors() {
		if d.Matches(value) && d.LogicalType() != "" {
			return avro.Primitive(avro.KindString,
				avro.WithLogicalType(d.LogicalType()),
				avro.WithName(avro.Capitalize(fieldName)))
		}
	}
	return avro.Primitive(avro.KindString)
}

func (e *Engine) inferArray(values []any, fieldName string) (*avro.TypeInfo, error) {
	if len(values) == 0 {
		// Documented default for the empty-information case.
		return mustArray(avro.Primitive(avro.KindString)), nil
	}

	if d := e.detectors.MatchArray(values); d != nil {
		if logical := d.LogicalType(); logical != "" {
			item := avro.Primitive(avro.KindString, avro.WithLogicalType(logical))
			return mustArray(item), nil
		}
		item, err := avro.NewEnum(avro.Capitalize(fieldName), stringSymbols(values))
		if err != nil {
			return nil, fmt.Errorf("infer: array %q: %w", fieldName, err)
		}
		return mustArray(item), nil
	}

	var distinct []*avro.TypeInfo
	hasNull := false
	for _, element := range values {
		if element == nil {
			hasNull = true
			continue
		}
		elementType, err := e.InferValue(element, fieldName+"Item")
		if err != nil {
			return nil, err
		}
		if !containsShape(distinct, elementType) {
			distinct = append(distinct, elementType)
		}
	}

	if len(distinct) == 0 {
		return mustArray(nullableString()), nil
	}

	var item *avro.TypeInfo
	if len(distinct) == 1 {
		item = distinct[0]
		if hasNull {
			item = avro.Nullable(item)
		}
	} else {
		alternatives := distinct
		if hasNull {
			alternatives = append([]*avro.TypeInfo{avro.Primitive(avro.KindNull)}, distinct...)
		}
		union, err := avro.NewUnion(alternatives)
		if err != nil {
			return nil, fmt.Errorf("infer: array %q: %w", fieldName, err)
		}
		item = union
	}
	return mustArray(item), nil
}

func (e *Engine) inferRecord(obj *Object, fieldName string) (*avro.TypeInfo, error) {
	fields := make([]avro.Field, 0, obj.Len())
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		var fieldType *avro.TypeInfo
		if pair.Value == nil {
			// A single null value cannot seed a nested type.
			fieldType = nullableString()
		} else {
			inferred, err := e.InferValue(pair.Value, pair.Key)
			if err != nil {
				return nil, err
			}
			fieldType = inferred
		}
		fields = append(fields, avro.Field{Name: avro.SanitizeName(pair.Key), Type: fieldType})
	}

	record, err := avro.NewRecord(avro.Capitalize(fieldName), fields)
	if err != nil {
		return nil, fmt.Errorf("infer: object %q: %w", fieldName, err)
	}
	return record, nil
}

// stringSymbols collects the distinct string values of an array in first-seen
// order. NewEnum de-duplicates again, but collecting here keeps non-string
// elements (already excluded by the detector contract) out of the symbol set.
func stringSymbols(values []any) []string {
	symbols := make([]string, 0, len(values))
	for _, value := range values {
		if str, ok := value.(string); ok {
			symbols = append(symbols, str)
		}
	}
	return symbols
}

// containsShape reports whether a type with the same (kind, logicalType)
// shape is already present. Element types inside one array are deduplicated
// on that shape alone.
func containsShape(types []*avro.TypeInfo, candidate *avro.TypeInfo) bool {
	for _, t := range types {
		if t.Kind() == candidate.Kind() && t.LogicalType() == candidate.LogicalType() {
			return true
		}
	}
	return false
}

func nullableString() *avro.TypeInfo {
	return avro.Nullable(avro.Primitive(avro.KindString))
}

func mustArray(item *avro.TypeInfo) *avro.TypeInfo {
	arr, err := avro.NewArray(item)
	if err != nil {
		panic(err)
	}
	return arr
}

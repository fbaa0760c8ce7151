package serializer

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	avroruntime "github.com/hamba/avro/v2"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Sample produces an Avro-JSON value that conforms to the schema, suitable
// as a starting point for hand-edited payloads. Unions use the Avro JSON
// encoding: null stays null, any other branch is wrapped in an object keyed
// by the branch's type name.
func Sample(schema avroruntime.Schema) ([]byte, error) {
	value, err := sampleValue(schema)
	if err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializer: marshal sample: %w", err)
	}
	return out, nil
}

func sampleValue(schema avroruntime.Schema) (any, error) {
	switch s := schema.(type) {
	case *avroruntime.RefSchema:
		return sampleValue(s.Schema())
	case *avroruntime.RecordSchema:
		record := orderedmap.New[string, any]()
		for _, field := range s.Fields() {
			value, err := sampleValue(field.Type())
			if err != nil {
				return nil, err
			}
			record.Set(field.Name(), value)
		}
		return record, nil
	case *avroruntime.EnumSchema:
		symbols := s.Symbols()
		if len(symbols) == 0 {
			return nil, fmt.Errorf("serializer: enum %s has no symbols", s.FullName())
		}
		return symbols[0], nil
	case *avroruntime.ArraySchema:
		item, err := sampleValue(s.Items())
		if err != nil {
			return nil, err
		}
		return []any{item}, nil
	case *avroruntime.MapSchema:
		return map[string]any{}, nil
	case *avroruntime.UnionSchema:
		return sampleUnion(s)
	case *avroruntime.FixedSchema:
		return "", nil
	case *avroruntime.PrimitiveSchema:
		return samplePrimitive(s), nil
	default:
		return nil, fmt.Errorf("serializer: cannot generate sample for schema type %s", schema.Type())
	}
}

// sampleUnion picks null for nullable unions, matching the null default
// those fields carry; any other union samples its first non-null branch in
// the wrapped Avro JSON form.
func sampleUnion(s *avroruntime.UnionSchema) (any, error) {
	types := s.Types()
	if len(types) > 0 && types[0].Type() == avroruntime.Null {
		return nil, nil
	}
	var branch avroruntime.Schema
	for _, t := range types {
		if t.Type() != avroruntime.Null {
			branch = t
			break
		}
	}
	if branch == nil {
		return nil, nil
	}
	value, err := sampleValue(branch)
	if err != nil {
		return nil, err
	}
	wrapped := orderedmap.New[string, any]()
	wrapped.Set(unionBranchName(branch), value)
	return wrapped, nil
}

func samplePrimitive(s *avroruntime.PrimitiveSchema) any {
	if logical := s.Logical(); logical != nil {
		switch logical.Type() {
		case avroruntime.UUID:
			return uuid.NewString()
		case avroruntime.TimestampMillis:
			return time.Now().UnixMilli()
		}
	}
	switch s.Type() {
	case avroruntime.Boolean:
		return false
	case avroruntime.Int:
		return 0
	case avroruntime.Long:
		return int64(0)
	case avroruntime.Float:
		return float32(0)
	case avroruntime.Double:
		return float64(0)
	case avroruntime.Bytes:
		return ""
	case avroruntime.Null:
		return nil
	default:
		return ""
	}
}

// unionBranchName yields the key the Avro JSON encoding uses for a union
// branch: full name for named types, the type keyword otherwise.
func unionBranchName(schema avroruntime.Schema) string {
	switch s := schema.(type) {
	case *avroruntime.RefSchema:
		return unionBranchName(s.Schema())
	case *avroruntime.RecordSchema:
		return s.FullName()
	case *avroruntime.EnumSchema:
		return s.FullName()
	case *avroruntime.FixedSchema:
		return s.FullName()
	default:
		return string(schema.Type())
	}
}

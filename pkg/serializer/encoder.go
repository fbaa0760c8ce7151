package serializer

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	json "github.com/goccy/go-json"
	avroruntime "github.com/hamba/avro/v2"
	"github.com/hamba/avro/v2/ocf"
)

// Encode writes a single JSON value as an Avro object container file. The
// value must use the Avro JSON encoding the schema implies: record fields by
// name, non-null union branches wrapped in an object keyed by type name.
func Encode(schema avroruntime.Schema, jsonValue []byte, w io.Writer) error {
	decoder := json.NewDecoder(bytes.NewReader(jsonValue))
	decoder.UseNumber()
	var value any
	if err := decoder.Decode(&value); err != nil {
		return fmt.Errorf("serializer: decode value: %w", err)
	}

	prepared, err := prepareValue(schema, value)
	if err != nil {
		return err
	}

	encoder, err := ocf.NewEncoder(schema.String(), w)
	if err != nil {
		return fmt.Errorf("serializer: create container encoder: %w", err)
	}
	if err := encoder.Encode(prepared); err != nil {
		return fmt.Errorf("serializer: encode value: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("serializer: flush container: %w", err)
	}
	return nil
}

// EncodeToFile is Encode with the container written to path.
func EncodeToFile(schema avroruntime.Schema, jsonValue []byte, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("serializer: create %s: %w", path, err)
	}
	if err := Encode(schema, jsonValue, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("serializer: close %s: %w", path, err)
	}
	return nil
}

// prepareValue converts a decoded JSON value into the generic representation
// the Avro runtime encodes: json.Number becomes the numeric type the schema
// asks for, timestamp-millis longs become time.Time, union branches become
// single-entry maps.
func prepareValue(schema avroruntime.Schema, value any) (any, error) {
	switch s := schema.(type) {
	case *avroruntime.RefSchema:
		return prepareValue(s.Schema(), value)
	case *avroruntime.RecordSchema:
		return prepareRecord(s, value)
	case *avroruntime.UnionSchema:
		return prepareUnion(s, value)
	case *avroruntime.ArraySchema:
		items, ok := value.([]any)
		if !ok {
			return nil, fmt.Errorf("serializer: expected array, got %T", value)
		}
		prepared := make([]any, len(items))
		for i, item := range items {
			p, err := prepareValue(s.Items(), item)
			if err != nil {
				return nil, err
			}
			prepared[i] = p
		}
		return prepared, nil
	case *avroruntime.MapSchema:
		entries, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("serializer: expected object, got %T", value)
		}
		prepared := make(map[string]any, len(entries))
		for key, entry := range entries {
			p, err := prepareValue(s.Values(), entry)
			if err != nil {
				return nil, err
			}
			prepared[key] = p
		}
		return prepared, nil
	case *avroruntime.EnumSchema:
		symbol, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("serializer: enum %s: expected string, got %T", s.FullName(), value)
		}
		return symbol, nil
	case *avroruntime.FixedSchema:
		text, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("serializer: fixed %s: expected string, got %T", s.FullName(), value)
		}
		return []byte(text), nil
	case *avroruntime.PrimitiveSchema:
		return preparePrimitive(s, value)
	default:
		return nil, fmt.Errorf("serializer: cannot encode schema type %s", schema.Type())
	}
}

func prepareRecord(s *avroruntime.RecordSchema, value any) (any, error) {
	fields, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("serializer: record %s: expected object, got %T", s.FullName(), value)
	}
	prepared := make(map[string]any, len(s.Fields()))
	for _, field := range s.Fields() {
		raw, present := fields[field.Name()]
		if !present {
			return nil, fmt.Errorf("serializer: record %s: missing field %q", s.FullName(), field.Name())
		}
		p, err := prepareValue(field.Type(), raw)
		if err != nil {
			return nil, fmt.Errorf("serializer: field %q: %w", field.Name(), err)
		}
		prepared[field.Name()] = p
	}
	return prepared, nil
}

func prepareUnion(s *avroruntime.UnionSchema, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	wrapped, ok := value.(map[string]any)
	if !ok || len(wrapped) != 1 {
		return nil, fmt.Errorf("serializer: union value must be null or a single-key object, got %T", value)
	}
	for key, raw := range wrapped {
		for _, branch := range s.Types() {
			if unionBranchName(branch) != key {
				continue
			}
			p, err := prepareValue(branch, raw)
			if err != nil {
				return nil, err
			}
			return map[string]any{key: p}, nil
		}
		return nil, fmt.Errorf("serializer: union has no branch %q", key)
	}
	return nil, nil
}

func preparePrimitive(s *avroruntime.PrimitiveSchema, value any) (any, error) {
	switch s.Type() {
	case avroruntime.Null:
		if value != nil {
			return nil, fmt.Errorf("serializer: expected null, got %T", value)
		}
		return nil, nil
	case avroruntime.Boolean:
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("serializer: expected boolean, got %T", value)
		}
		return b, nil
	case avroruntime.String:
		text, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("serializer: expected string, got %T", value)
		}
		return text, nil
	case avroruntime.Bytes:
		text, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("serializer: expected string for bytes, got %T", value)
		}
		return []byte(text), nil
	case avroruntime.Int:
		n, err := asNumber(value)
		if err != nil {
			return nil, err
		}
		parsed, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("serializer: expected int, got %s", n.String())
		}
		return int(parsed), nil
	case avroruntime.Long:
		n, err := asNumber(value)
		if err != nil {
			return nil, err
		}
		parsed, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("serializer: expected long, got %s", n.String())
		}
		if logical := s.Logical(); logical != nil && logical.Type() == avroruntime.TimestampMillis {
			return time.UnixMilli(parsed).UTC(), nil
		}
		return parsed, nil
	case avroruntime.Float:
		n, err := asNumber(value)
		if err != nil {
			return nil, err
		}
		parsed, err := n.Float64()
		if err != nil {
			return nil, fmt.Errorf("serializer: expected float, got %s", n.String())
		}
		return float32(parsed), nil
	case avroruntime.Double:
		n, err := asNumber(value)
		if err != nil {
			return nil, err
		}
		parsed, err := n.Float64()
		if err != nil {
			return nil, fmt.Errorf("serializer: expected double, got %s", n.String())
		}
		return parsed, nil
	default:
		return nil, fmt.Errorf("serializer: unsupported primitive %s", s.Type())
	}
}

func asNumber(value any) (json.Number, error) {
	n, ok := value.(json.Number)
	if !ok {
		return "", fmt.Errorf("serializer: expected number, got %T", value)
	}
	return n, nil
}

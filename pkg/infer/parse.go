package infer

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is the parsed form of a JSON object. Key order is preserved so the
// inferred record fields come out in document order.
type Object = orderedmap.OrderedMap[string, any]

// Parse decodes a JSON document into a generic value tree:
//
//	null    -> nil
//	boolean -> bool
//	number  -> json.Number (textual form preserved)
//	string  -> string
//	array   -> []any
//	object  -> *Object
//
// Token-level decoding keeps object key order, which map-based unmarshalling
// would lose.
func Parse(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	value, err := parseValue(dec)
	if err != nil {
		return nil, fmt.Errorf("infer: parse document: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("infer: trailing content after JSON document")
	}
	return value, nil
}

func parseValue(dec *json.Decoder) (any, error) {
	token, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch tok := token.(type) {
	case json.Delim:
		switch tok {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", tok)
		}
	case string, bool, json.Number:
		return tok, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

func parseObject(dec *json.Decoder) (*Object, error) {
	obj := orderedmap.New[string, any]()
	for dec.More() {
		keyToken, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyToken.(string)
		if !ok {
			return nil, fmt.Errorf("object key is %T, not string", keyToken)
		}
		value, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		obj.Set(key, value)
	}
	// consume the closing brace
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func parseArray(dec *json.Decoder) ([]any, error) {
	values := []any{}
	for dec.More() {
		value, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return values, nil
}

// Package serializer bridges rendered schema text to the Avro runtime: it
// loads single and unified schema documents, generates Avro-JSON sample
// values, and encodes values into Avro object container files. The
// conversion core only produces schema text; everything here consumes it.
package serializer

import (
	"fmt"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	avroruntime "github.com/hamba/avro/v2"

	"github.com/goliatone/go-avrogen/pkg/render"
)

// Load reads a schema document from disk. A JSON array is treated as a
// unified document: its definitions are parsed in order against a shared
// name cache so later definitions can reference earlier ones. A JSON object
// is parsed as a single self-contained schema.
//
// typeName selects the wanted definition from a unified document, by
// qualified name or bare name (tried against the default namespace). With an
// empty typeName the last definition wins, which for generated documents is
// the root record.
func Load(path, typeName string) (avroruntime.Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("serializer: read schema %s: %w", path, err)
	}
	return Parse(raw, typeName)
}

// Parse is Load for in-memory schema text.
func Parse(raw []byte, typeName string) (avroruntime.Schema, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return nil, fmt.Errorf("serializer: schema document is empty")
	}
	if strings.HasPrefix(trimmed, "[") {
		return parseUnified(raw, typeName)
	}

	schema, err := avroruntime.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("serializer: parse schema: %w", err)
	}
	return schema, nil
}

func parseUnified(raw []byte, typeName string) (avroruntime.Schema, error) {
	var definitions []json.RawMessage
	if err := json.Unmarshal(raw, &definitions); err != nil {
		return nil, fmt.Errorf("serializer: unified document is not a JSON array: %w", err)
	}
	if len(definitions) == 0 {
		return nil, fmt.Errorf("serializer: unified document contains no definitions")
	}

	cache := &avroruntime.SchemaCache{}
	var last avroruntime.Schema
	for i, definition := range definitions {
		schema, err := avroruntime.ParseWithCache(string(definition), "", cache)
		if err != nil {
			return nil, fmt.Errorf("serializer: parse unified definition %d: %w", i, err)
		}
		last = schema
	}

	if typeName == "" {
		return last, nil
	}
	if found := cache.Get(typeName); found != nil {
		return found, nil
	}
	if !strings.Contains(typeName, ".") {
		if found := cache.Get(render.DefaultNamespace + "." + typeName); found != nil {
			return found, nil
		}
	}
	return nil, fmt.Errorf("serializer: schema %q not found in unified document", typeName)
}

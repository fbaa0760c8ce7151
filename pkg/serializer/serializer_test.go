package serializer

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	avroruntime "github.com/hamba/avro/v2"
	"github.com/hamba/avro/v2/ocf"
)

const userSchema = `{
  "type": "record",
  "name": "User",
  "namespace": "com.example",
  "fields": [
    {"name": "id", "type": {"type": "string", "logicalType": "uuid"}},
    {"name": "age", "type": ["null", "int"], "default": null},
    {"name": "status", "type": {"type": "enum", "name": "Status", "namespace": "com.example", "symbols": ["ACTIVE", "DONE"]}},
    {"name": "createdAt", "type": {"type": "long", "logicalType": "timestamp-millis"}}
  ]
}`

const unifiedDocument = `[
  {"type": "enum", "name": "Status", "namespace": "com.example", "symbols": ["ACTIVE", "DONE"]},
  {"type": "record", "name": "User", "namespace": "com.example", "fields": [
    {"name": "status", "type": "com.example.Status"}
  ]}
]`

func TestParse_SingleObject(t *testing.T) {
	t.Parallel()

	schema, err := Parse([]byte(userSchema), "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	record, ok := schema.(*avroruntime.RecordSchema)
	if !ok {
		t.Fatalf("expected a record schema, got %T", schema)
	}
	if record.FullName() != "com.example.User" || len(record.Fields()) != 4 {
		t.Fatalf("unexpected schema: %s", record.String())
	}
}

func TestParse_UnifiedResolvesReferences(t *testing.T) {
	t.Parallel()

	schema, err := Parse([]byte(unifiedDocument), "com.example.User")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	record, ok := schema.(*avroruntime.RecordSchema)
	if !ok {
		t.Fatalf("expected a record schema, got %T", schema)
	}
	if record.FullName() != "com.example.User" {
		t.Fatalf("unexpected record %s", record.FullName())
	}
}

func TestParse_UnifiedLastDefinitionWinsWithoutTypeName(t *testing.T) {
	t.Parallel()

	schema, err := Parse([]byte(unifiedDocument), "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	record, ok := schema.(*avroruntime.RecordSchema)
	if !ok || record.Name() != "User" {
		t.Fatalf("expected the trailing record definition, got %v", schema)
	}
}

func TestParse_UnifiedMissingTypeFails(t *testing.T) {
	t.Parallel()

	if _, err := Parse([]byte(unifiedDocument), "com.example.Nope"); err == nil {
		t.Fatal("expected an error for an unknown type name")
	}
}

func TestParse_RejectsEmptyDocuments(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "   ", "[]"} {
		if _, err := Parse([]byte(input), ""); err == nil {
			t.Fatalf("expected an error for %q", input)
		}
	}
}

func TestLoad_ReadsFromDisk(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "user.avsc")
	if err := os.WriteFile(path, []byte(userSchema), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	schema, err := Load(path, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if schema.Type() != avroruntime.Record {
		t.Fatalf("expected a record, got %s", schema.Type())
	}
}

func TestSample_ConformsToSchema(t *testing.T) {
	t.Parallel()

	schema, err := Parse([]byte(userSchema), "")
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	out, err := Sample(schema)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var sample map[string]any
	if err := json.Unmarshal(out, &sample); err != nil {
		t.Fatalf("sample is not JSON: %v\n%s", err, out)
	}

	id, ok := sample["id"].(string)
	if !ok {
		t.Fatalf("expected a uuid string for id, got %T", sample["id"])
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("id is not a valid uuid: %q", id)
	}
	if sample["age"] != nil {
		t.Fatalf("expected null for the nullable union, got %v", sample["age"])
	}
	if sample["status"] != "ACTIVE" {
		t.Fatalf("expected the first enum symbol, got %v", sample["status"])
	}
	if _, ok := sample["createdAt"].(float64); !ok {
		t.Fatalf("expected an epoch-millis number, got %T", sample["createdAt"])
	}
}

func TestSample_WrapsNonNullUnionBranches(t *testing.T) {
	t.Parallel()

	schema, err := Parse([]byte(`{
	  "type": "record",
	  "name": "Wrapper",
	  "namespace": "com.example",
	  "fields": [{"name": "value", "type": ["string", "int"]}]
	}`), "")
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	out, err := Sample(schema)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var sample map[string]any
	if err := json.Unmarshal(out, &sample); err != nil {
		t.Fatalf("sample is not JSON: %v", err)
	}
	wrapped, ok := sample["value"].(map[string]any)
	if !ok || len(wrapped) != 1 {
		t.Fatalf("expected a single-key wrapper object, got %v", sample["value"])
	}
	if _, ok := wrapped["string"]; !ok {
		t.Fatalf("expected the first non-null branch chosen, got %v", wrapped)
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	t.Parallel()

	schema, err := Parse([]byte(userSchema), "")
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}

	value := []byte(`{
	  "id": "550e8400-e29b-41d4-a716-446655440000",
	  "age": {"int": 42},
	  "status": "DONE",
	  "createdAt": 1700000000000
	}`)

	var container bytes.Buffer
	if err := Encode(schema, value, &container); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	decoder, err := ocf.NewDecoder(&container)
	if err != nil {
		t.Fatalf("open container: %v", err)
	}
	if !decoder.HasNext() {
		t.Fatal("expected one value in the container")
	}
	var decoded map[string]any
	if err := decoder.Decode(&decoded); err != nil {
		t.Fatalf("decode value: %v", err)
	}

	if decoded["id"] != "550e8400-e29b-41d4-a716-446655440000" {
		t.Fatalf("unexpected id: %v", decoded["id"])
	}
	if decoded["status"] != "DONE" {
		t.Fatalf("unexpected status: %v", decoded["status"])
	}
	createdAt, ok := decoded["createdAt"].(time.Time)
	if !ok || createdAt.UnixMilli() != 1700000000000 {
		t.Fatalf("unexpected createdAt: %v", decoded["createdAt"])
	}
	if decoder.HasNext() {
		t.Fatal("expected exactly one value")
	}
}

func TestEncode_SampleOutputIsEncodable(t *testing.T) {
	t.Parallel()

	schema, err := Parse([]byte(userSchema), "")
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	sample, err := Sample(schema)
	if err != nil {
		t.Fatalf("generate sample: %v", err)
	}
	var container bytes.Buffer
	if err := Encode(schema, sample, &container); err != nil {
		t.Fatalf("expected the generated sample to encode, got %v", err)
	}
}

func TestEncode_RejectsWrongShapes(t *testing.T) {
	t.Parallel()

	schema, err := Parse([]byte(userSchema), "")
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	cases := map[string]string{
		"missing field":     `{"id": "550e8400-e29b-41d4-a716-446655440000"}`,
		"bare union branch": `{"id": "550e8400-e29b-41d4-a716-446655440000", "age": 42, "status": "DONE", "createdAt": 1}`,
		"unknown branch":    `{"id": "550e8400-e29b-41d4-a716-446655440000", "age": {"long": 42}, "status": "DONE", "createdAt": 1}`,
		"non-record":        `[1, 2, 3]`,
	}
	for name, input := range cases {
		var container bytes.Buffer
		if err := Encode(schema, []byte(input), &container); err == nil {
			t.Fatalf("%s: expected an error", name)
		}
	}
}

func TestEncodeToFile_WritesContainer(t *testing.T) {
	t.Parallel()

	schema, err := Parse([]byte(unifiedDocument), "com.example.User")
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	path := filepath.Join(t.TempDir(), "user.ocf")
	if err := EncodeToFile(schema, []byte(`{"status": "ACTIVE"}`), path); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		t.Fatalf("expected a non-empty container file, got %v %v", info, err)
	}
}

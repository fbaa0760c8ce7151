package avrogen

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-avrogen/internal/openapi/loader"
	"github.com/goliatone/go-avrogen/pkg/openapi"
	"github.com/goliatone/go-avrogen/pkg/serializer"
)

const cardsSpec = `
openapi: 3.0.3
info:
  title: Cards API
  version: 1.0.0
paths: {}
components:
  schemas:
    CardType:
      type: string
      enum: [DEBIT, CREDIT, PREPAID]
    Card:
      type: object
      required: [id, cardType]
      properties:
        id:
          type: string
          format: uuid
        cardType:
          $ref: '#/components/schemas/CardType'
        phoneNumber:
          type: string
          pattern: '^\+?[1-9]\d{1,14}$'
        limit:
          type: integer
`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestConvertJSON_EndToEnd(t *testing.T) {
	t.Parallel()

	input := []byte(`{
		"id": "12345",
		"userId": "550e8400-e29b-41d4-a716-446655440000",
		"tags": ["TAG_PREMIUM", "TAG_VERIFIED"],
		"optionalField": null
	}`)

	out, err := ConvertJSON(input)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if doc["type"] != "record" || doc["name"] != "Root" {
		t.Fatalf("expected record Root, got %v", doc)
	}

	fields := doc["fields"].([]any)
	if len(fields) != 4 {
		t.Fatalf("expected 4 fields, got %d", len(fields))
	}
	optional := fields[3].(map[string]any)
	if value, present := optional["default"]; !present || value != nil {
		t.Fatalf("expected null default on the optional field, got %v", optional)
	}
}

func TestConvertJSON_OutputParsesAsAvro(t *testing.T) {
	t.Parallel()

	out, err := ConvertJSON([]byte(`{
		"userId": "550e8400-e29b-41d4-a716-446655440000",
		"name": "Ada",
		"tags": ["TAG_A", "TAG_B"]
	}`))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := serializer.Parse(out, ""); err != nil {
		t.Fatalf("rendered schema does not parse as Avro: %v\n%s", err, out)
	}
}

func TestConvertJSON_CustomRootNameAndNamespace(t *testing.T) {
	t.Parallel()

	out, err := ConvertJSON([]byte(`{"a": "b"}`),
		WithTypeName("Payload"), WithNamespace("com.example.custom"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if doc["name"] != "Payload" || doc["namespace"] != "com.example.custom" {
		t.Fatalf("unexpected head: %v", doc)
	}
}

func TestConvertJSONFile_MissingInput(t *testing.T) {
	t.Parallel()

	_, err := ConvertJSONFile(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, ErrInputNotFound) {
		t.Fatalf("expected ErrInputNotFound, got %v", err)
	}
}

func TestConvertOpenAPIFile_StandardMode(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "cards.yaml", cardsSpec)
	out, err := ConvertOpenAPIFile(context.Background(), path, "Card")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	text := string(out)
	if !strings.Contains(text, `"CardRecord"`) {
		t.Fatalf("expected the record named after the component:\n%s", text)
	}
	if !strings.Contains(text, `^\\+?[1-9]\\d{1,14}$`) {
		t.Fatalf("expected the escaped pattern in the output:\n%s", text)
	}
	// The referenced enum is inlined at the field site in standard mode.
	if !strings.Contains(text, `"CardTypeEnum"`) || !strings.Contains(text, `"symbols"`) {
		t.Fatalf("expected the enum inlined with its symbols:\n%s", text)
	}

	var doc map[string]any
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	fields := doc["fields"].([]any)
	// Optional integer property: UNION[null, int] with null default.
	for _, raw := range fields {
		field := raw.(map[string]any)
		if field["name"] != "limit" {
			continue
		}
		union, ok := field["type"].([]any)
		if !ok || union[0] != "null" || union[1] != "int" {
			t.Fatalf("expected [null, int] for limit, got %v", field["type"])
		}
		if value, present := field["default"]; !present || value != nil {
			t.Fatalf("expected null default for limit, got %v", field)
		}
		return
	}
	t.Fatalf("limit field not found in:\n%s", text)
}

func TestConvertOpenAPIFile_UnifiedMode(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "cards.yaml", cardsSpec)
	out, err := ConvertOpenAPIFile(context.Background(), path, "Card", WithUnified(true))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var definitions []map[string]any
	if err := json.Unmarshal(out, &definitions); err != nil {
		t.Fatalf("unified output is not a JSON array: %v\n%s", err, out)
	}
	if len(definitions) != 2 {
		t.Fatalf("expected enum + record, got %d definitions", len(definitions))
	}
	if definitions[0]["name"] != "CardTypeEnum" || definitions[1]["name"] != "CardRecord" {
		t.Fatalf("unexpected definition order: %v, %v", definitions[0]["name"], definitions[1]["name"])
	}

	// The unified document must load back through the Avro runtime.
	schema, err := serializer.Parse(out, "CardRecord")
	if err != nil {
		t.Fatalf("unified output does not parse: %v\n%s", err, out)
	}
	if schema == nil {
		t.Fatal("expected a schema from the unified document")
	}
}

func TestConvertOpenAPIFile_MissingInput(t *testing.T) {
	t.Parallel()

	_, err := ConvertOpenAPIFile(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"), "Card")
	if !errors.Is(err, ErrInputNotFound) {
		t.Fatalf("expected ErrInputNotFound, got %v", err)
	}
}

func TestConvertOpenAPISource_EmbeddedFilesystem(t *testing.T) {
	t.Parallel()

	files := fstest.MapFS{
		"specs/cards.yaml": &fstest.MapFile{Data: []byte(cardsSpec)},
	}
	converter := New(WithLoader(loader.New(
		openapi.NewLoaderOptions(openapi.WithFileSystem(files)))))

	out, err := converter.ConvertOpenAPISource(context.Background(),
		openapi.SourceFromFS("specs/cards.yaml"), "Card")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(string(out), `"CardRecord"`) {
		t.Fatalf("expected the Card record in the output:\n%s", out)
	}
}

func TestConvertOpenAPIAllFromSource_URL(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(cardsSpec))
	}))
	defer server.Close()

	documents, err := New().ConvertOpenAPIAllFromSource(context.Background(),
		openapi.SourceFromURL(server.URL+"/cards.yaml"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := documents["Card"]; !ok {
		t.Fatalf("expected a document for Card, got %v", documents)
	}
}

func TestConvertOpenAPI_MissingComponent(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "cards.yaml", cardsSpec)
	_, err := ConvertOpenAPIFile(context.Background(), path, "Nope")
	if err == nil || !strings.Contains(err.Error(), `"Nope"`) {
		t.Fatalf("expected a named missing-component error, got %v", err)
	}
}

func TestConvertOpenAPIAll_EmitsRecordComponentsOnly(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "cards.yaml", cardsSpec)
	documents, err := New().ConvertOpenAPIAllFromFile(context.Background(), path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(documents) != 1 {
		t.Fatalf("expected only the record component, got %d documents", len(documents))
	}
	if _, ok := documents["Card"]; !ok {
		t.Fatalf("expected a document for Card, got %v", documents)
	}
}

package avro

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Kind enumerates the type kinds a TypeInfo node can hold. The string values
// match the Avro schema grammar so renderers can emit them directly.
type Kind string

const (
	KindNull    Kind = "null"
	KindBoolean Kind = "boolean"
	KindInt     Kind = "int"
	KindLong    Kind = "long"
	KindFloat   Kind = "float"
	KindDouble  Kind = "double"
	KindString  Kind = "string"
	KindArray   Kind = "array"
	KindEnum    Kind = "enum"
	KindRecord  Kind = "record"
	KindUnion   Kind = "union"
)

// Field pairs a sanitized field name with its type inside a record. Field
// order is significant and preserved from the source document.
type Field struct {
	Name string
	Type *TypeInfo
}

// TypeInfo is one node of the type model tree. All fields are unexported;
// a node is assembled through the constructors below and is immutable once
// returned. Accessors that return slices expose internal state and must be
// treated as read-only by callers.
type TypeInfo struct {
	kind         Kind
	logicalType  string
	pattern      string
	doc          string
	name         string
	fields       []Field
	item         *TypeInfo
	symbols      []string
	alternatives []*TypeInfo
}

// Kind returns the node's type kind.
func (t *TypeInfo) Kind() Kind { return t.kind }

// LogicalType returns the optional semantic refinement tag ("uuid",
// "timestamp-millis"), or "" when the node carries none.
func (t *TypeInfo) LogicalType() string { return t.logicalType }

// Pattern returns the validation regular expression attached to a string
// node, or "".
func (t *TypeInfo) Pattern() string { return t.pattern }

// Doc returns the human-readable description propagated from the source.
func (t *TypeInfo) Doc() string { return t.doc }

// Name returns the type name. It is always set for enum and record nodes and
// may be set on logical string nodes.
func (t *TypeInfo) Name() string { return t.name }

// Fields returns the ordered field list of a record node.
func (t *TypeInfo) Fields() []Field { return t.fields }

// Item returns the element type of an array node.
func (t *TypeInfo) Item() *TypeInfo { return t.item }

// Symbols returns the ordered, de-duplicated symbol list of an enum node.
func (t *TypeInfo) Symbols() []string { return t.symbols }

// Alternatives returns the ordered member list of a union node.
func (t *TypeInfo) Alternatives() []*TypeInfo { return t.alternatives }

// IsNullable reports whether the node is a union whose first alternative is
// null. That shape is the model's encoding for "optional field" and decides
// whether renderers emit a null default.
func (t *TypeInfo) IsNullable() bool {
	return t.kind == KindUnion && len(t.alternatives) > 0 && t.alternatives[0].kind == KindNull
}

var primitiveKinds = map[Kind]bool{
	KindNull:    true,
	KindBoolean: true,
	KindInt:     true,
	KindLong:    true,
	KindFloat:   true,
	KindDouble:  true,
	KindString:  true,
}

// Option mutates a node during construction only.
type Option func(*TypeInfo)

// WithLogicalType attaches a logical type tag.
func WithLogicalType(logical string) Option {
	return func(t *TypeInfo) { t.logicalType = logical }
}

// WithPattern attaches a validation pattern. Only meaningful on string nodes.
func WithPattern(pattern string) Option {
	return func(t *TypeInfo) { t.pattern = pattern }
}

// WithDoc attaches a description.
func WithDoc(doc string) Option {
	return func(t *TypeInfo) { t.doc = doc }
}

// WithName attaches a type name to a string node so that logical types can be
// emitted as named definitions.
func WithName(name string) Option {
	return func(t *TypeInfo) { t.name = name }
}

// New constructs a primitive node. It returns an error for non-primitive
// kinds; arrays, enums, records and unions have dedicated constructors that
// enforce their required parts.
func New(kind Kind, options ...Option) (*TypeInfo, error) {
	if !primitiveKinds[kind] {
		return nil, fmt.Errorf("avro: kind %q requires a dedicated constructor", kind)
	}
	t := &TypeInfo{kind: kind}
	for _, opt := range options {
		opt(t)
	}
	if t.pattern != "" && kind != KindString {
		return nil, fmt.Errorf("avro: pattern is only valid on string nodes, got %q", kind)
	}
	return t, nil
}

// Primitive constructs a primitive node and panics on misuse. It exists for
// the front ends, which only ever pass the Kind constants above.
func Primitive(kind Kind, options ...Option) *TypeInfo {
	t, err := New(kind, options...)
	if err != nil {
		panic(err)
	}
	return t
}

// NewArray constructs an array node around the given element type.
func NewArray(item *TypeInfo, options ...Option) (*TypeInfo, error) {
	if item == nil {
		return nil, errors.New("avro: array requires an item type")
	}
	t := &TypeInfo{kind: KindArray, item: item}
	for _, opt := range options {
		opt(t)
	}
	return t, nil
}

// NewEnum constructs an enum node. Symbols are de-duplicated preserving first
// appearance. The name is mandatory: it is the node's identity during
// deduplication and referencing.
func NewEnum(name string, symbols []string, options ...Option) (*TypeInfo, error) {
	if name == "" {
		return nil, errors.New("avro: enum requires a name")
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("avro: enum %q requires at least one symbol", name)
	}
	seen := make(map[string]struct{}, len(symbols))
	deduped := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		if _, ok := seen[symbol]; ok {
			continue
		}
		seen[symbol] = struct{}{}
		deduped = append(deduped, symbol)
	}
	t := &TypeInfo{kind: KindEnum, name: name, symbols: deduped}
	for _, opt := range options {
		opt(t)
	}
	return t, nil
}

// NewRecord constructs a record node. Field names must already be sanitized;
// a duplicate field name replaces the earlier entry's type while keeping its
// position, mirroring ordered-map put semantics.
func NewRecord(name string, fields []Field, options ...Option) (*TypeInfo, error) {
	if name == "" {
		return nil, errors.New("avro: record requires a name")
	}
	out := make([]Field, 0, len(fields))
	index := make(map[string]int, len(fields))
	for _, field := range fields {
		if field.Type == nil {
			return nil, fmt.Errorf("avro: record %q field %q has no type", name, field.Name)
		}
		if field.Name != SanitizeName(field.Name) {
			return nil, fmt.Errorf("avro: record %q field %q is not sanitized", name, field.Name)
		}
		if at, ok := index[field.Name]; ok {
			out[at] = field
			continue
		}
		index[field.Name] = len(out)
		out = append(out, field)
	}
	t := &TypeInfo{kind: KindRecord, name: name, fields: out}
	for _, opt := range options {
		opt(t)
	}
	return t, nil
}

// NewUnion constructs a union node from ordered alternatives.
func NewUnion(alternatives []*TypeInfo, options ...Option) (*TypeInfo, error) {
	if len(alternatives) == 0 {
		return nil, errors.New("avro: union requires at least one alternative")
	}
	for _, alt := range alternatives {
		if alt == nil {
			return nil, errors.New("avro: union alternative is nil")
		}
	}
	t := &TypeInfo{kind: KindUnion, alternatives: alternatives}
	for _, opt := range options {
		opt(t)
	}
	return t, nil
}

// Nullable wraps a type as UNION[null, t]. The wrapped type's doc is lifted
// onto the union so record fields keep their description after the optional
// wrap.
func Nullable(t *TypeInfo) *TypeInfo {
	union, err := NewUnion([]*TypeInfo{Primitive(KindNull), t}, WithDoc(t.doc))
	if err != nil {
		panic(err)
	}
	return union
}

// Equal reports structural equality of two trees. Two named types with equal
// structure are interchangeable; renderers use this to distinguish harmless
// re-registrations from genuine name conflicts.
func Equal(a, b *TypeInfo) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.kind != b.kind || a.logicalType != b.logicalType || a.pattern != b.pattern ||
		a.name != b.name || a.doc != b.doc {
		return false
	}
	if len(a.fields) != len(b.fields) || len(a.symbols) != len(b.symbols) ||
		len(a.alternatives) != len(b.alternatives) {
		return false
	}
	for i := range a.fields {
		if a.fields[i].Name != b.fields[i].Name || !Equal(a.fields[i].Type, b.fields[i].Type) {
			return false
		}
	}
	for i := range a.symbols {
		if a.symbols[i] != b.symbols[i] {
			return false
		}
	}
	for i := range a.alternatives {
		if !Equal(a.alternatives[i], b.alternatives[i]) {
			return false
		}
	}
	if (a.item == nil) != (b.item == nil) {
		return false
	}
	if a.item != nil && !Equal(a.item, b.item) {
		return false
	}
	return true
}

var invalidNameChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// SanitizeName replaces every character outside [A-Za-z0-9_] with an
// underscore. Both front ends apply it to field names before building
// records.
func SanitizeName(name string) string {
	return invalidNameChars.ReplaceAllString(name, "_")
}

// Capitalize sanitizes a field name and upper-cases its first rune, yielding
// the conventional type-name form ("userId" -> "UserId").
func Capitalize(name string) string {
	sanitized := SanitizeName(name)
	if sanitized == "" {
		return sanitized
	}
	runes := []rune(sanitized)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// QualifiedName joins a namespace and a type name into the identity key used
// for deduplication and references.
func QualifiedName(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}

// String renders a short diagnostic form, useful in error messages and logs.
func (t *TypeInfo) String() string {
	if t == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(string(t.kind))
	if t.name != "" {
		fmt.Fprintf(&b, " name=%s", t.name)
	}
	if t.logicalType != "" {
		fmt.Fprintf(&b, " logicalType=%s", t.logicalType)
	}
	if t.pattern != "" {
		fmt.Fprintf(&b, " pattern=%s", t.pattern)
	}
	return b.String()
}

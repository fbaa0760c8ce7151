// Package avro defines the intermediate type model shared by both front ends
// (JSON sample inference, OpenAPI mapping) and both renderers (standard,
// unified). A TypeInfo tree is built once per conversion, validated at
// construction, and never mutated afterwards; renderers treat it as a
// read-only contract.
package avro

// Package openapi defines the neutral wrappers through which the rest of the
// module consumes OpenAPI documents. By exposing these types instead of
// kin-openapi structs the public API stays decoupled from the parsing
// library; the only implementation lives under internal/openapi/parser.
package openapi

package openapi

import (
	"fmt"
	"net/url"
	"path/filepath"
)

// source is the single Source implementation; the kind selects the loader
// strategy that resolves it.
type source struct {
	kind     SourceKind
	location string
}

func (s source) Kind() SourceKind { return s.kind }

func (s source) Location() string { return s.location }

// SourceFromFile identifies an on-disk document by path.
func SourceFromFile(path string) Source {
	return source{kind: SourceKindFile, location: filepath.Clean(path)}
}

// SourceFromFS identifies a document inside a caller-supplied fs.FS; the
// filesystem itself is configured on the loader.
func SourceFromFS(name string) Source {
	return source{kind: SourceKindFS, location: name}
}

// SourceFromURL identifies a document behind an HTTP(S) endpoint. An invalid
// URL panics to surface configuration mistakes at construction time.
func SourceFromURL(raw string) Source {
	if raw == "" {
		panic("openapi: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		panic(fmt.Sprintf("openapi: invalid URL %q: %v", raw, err))
	}
	return source{kind: SourceKindURL, location: raw}
}

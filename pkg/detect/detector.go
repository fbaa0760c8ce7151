// Package detect holds the pluggable string classifiers consulted by the
// JSON inference engine. New detectors are added by registering an
// implementation into a Set; the engine never needs to change.
package detect

import "sort"

// Detector classifies a string value (or a uniformly-typed array of strings)
// as carrying a special meaning. Implementations must be stateless and safe
// for concurrent use.
type Detector interface {
	// Matches reports whether a single string value fits this detector.
	Matches(value string) bool

	// MatchesArray reports whether every non-null element of the array
	// individually matches. Arrays with no non-null elements never match.
	MatchesArray(values []any) bool

	// LogicalType returns the logical type tag to attach ("uuid"), or ""
	// when the detector only signals a closed symbol set.
	LogicalType() string

	// Priority orders detectors; higher values are consulted first.
	Priority() int
}

// Set is a priority-ordered detector collection. The zero value is usable
// and matches nothing.
type Set struct {
	detectors []Detector
}

// NewSet builds a Set sorted by descending priority. The sort is stable so
// same-priority detectors keep registration order.
func NewSet(detectors ...Detector) *Set {
	ordered := make([]Detector, len(detectors))
	copy(ordered, detectors)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority() > ordered[j].Priority()
	})
	return &Set{detectors: ordered}
}

// DefaultSet returns the two detectors that ship with the module: UUID
// identifiers and the upper-case enumeration heuristic.
func DefaultSet() *Set {
	return NewSet(UUID{}, Enum{})
}

// Detectors returns the detectors in evaluation order.
func (s *Set) Detectors() []Detector {
	if s == nil {
		return nil
	}
	return s.detectors
}

// Match returns the first detector whose Matches accepts the value, or nil.
func (s *Set) Match(value string) Detector {
	for _, d := range s.Detectors() {
		if d.Matches(value) {
			return d
		}
	}
	return nil
}

// MatchArray returns the first detector whose MatchesArray accepts the
// array, or nil.
func (s *Set) MatchArray(values []any) Detector {
	for _, d := range s.Detectors() {
		if d.MatchesArray(values) {
			return d
		}
	}
	return nil
}

// allStringsMatch is the shared MatchesArray body: every non-null element
// must be a string accepted by match, and at least one such element must
// exist.
func allStringsMatch(values []any, match func(string) bool) bool {
	nonNull := 0
	for _, value := range values {
		if value == nil {
			continue
		}
		nonNull++
		str, ok := value.(string)
		if !ok || !match(str) {
			return false
		}
	}
	return nonNull > 0
}

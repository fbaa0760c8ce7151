package detect

import "regexp"

// enumPattern accepts UPPER_CASE identifiers: a leading capital, then
// capitals and digits, with optional underscore-separated groups. Leading or
// trailing underscores do not match.
var enumPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]*(_[A-Z0-9]+)*$`)

const enumMinLength = 2

// Enum is the enumeration heuristic: strings like STATUS_ACTIVE or PENDING
// signal a closed symbol set. It carries no logical type; the symbol set
// itself is derived from the observed values by the inference engine.
type Enum struct{}

func (Enum) Matches(value string) bool {
	if len(value) < enumMinLength {
		return false
	}
	return enumPattern.MatchString(value)
}

func (e Enum) MatchesArray(values []any) bool {
	return allStringsMatch(values, e.Matches)
}

func (Enum) LogicalType() string { return "" }

func (Enum) Priority() int { return 50 }

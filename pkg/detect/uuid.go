package detect

import "regexp"

// uuidPattern matches the canonical 8-4-4-4-12 hexadecimal form, case
// insensitive on the hex digits, anchored on both ends.
var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// UUID detects canonical UUID strings and tags them with the "uuid" logical
// type.
type UUID struct{}

func (UUID) Matches(value string) bool {
	if value == "" {
		return false
	}
	return uuidPattern.MatchString(value)
}

func (u UUID) MatchesArray(values []any) bool {
	return allStringsMatch(values, u.Matches)
}

func (UUID) LogicalType() string { return "uuid" }

func (UUID) Priority() int { return 100 }

package detect

import "testing"

func TestUUID_Matches(t *testing.T) {
	t.Parallel()

	valid := []string{
		"123e4567-e89b-12d3-a456-426614174000",
		"123E4567-E89B-12D3-A456-426614174000",
		"00000000-0000-0000-0000-000000000000",
	}
	for _, value := range valid {
		if !(UUID{}).Matches(value) {
			t.Fatalf("expected %q to match", value)
		}
	}

	invalid := []string{
		"",
		"123e4567e89b12d3a456426614174000",
		"123e4567-e89b-12d3-a456-42661417400",
		"123e4567-e89b-12d3-a456-4266141740000",
		"g23e4567-e89b-12d3-a456-426614174000",
		" 123e4567-e89b-12d3-a456-426614174000",
	}
	for _, value := range invalid {
		if (UUID{}).Matches(value) {
			t.Fatalf("expected %q not to match", value)
		}
	}
}

func TestEnum_Matches(t *testing.T) {
	t.Parallel()

	valid := []string{"ACTIVE", "STATUS_ACTIVE", "A1", "V2_FINAL", "OK"}
	for _, value := range valid {
		if !(Enum{}).Matches(value) {
			t.Fatalf("expected %q to match", value)
		}
	}

	invalid := []string{"", "A", "active", "Active", "_ACTIVE", "ACTIVE_", "STATUS__ACTIVE", "1ACTIVE", "STATUS ACTIVE"}
	for _, value := range invalid {
		if (Enum{}).Matches(value) {
			t.Fatalf("expected %q not to match", value)
		}
	}
}

func TestMatchesArray_IgnoresNullsButNeedsOneValue(t *testing.T) {
	t.Parallel()

	if !(UUID{}).MatchesArray([]any{nil, "123e4567-e89b-12d3-a456-426614174000", nil}) {
		t.Fatal("expected nulls to be skipped")
	}
	if (UUID{}).MatchesArray([]any{nil, nil}) {
		t.Fatal("expected all-null array not to match")
	}
	if (UUID{}).MatchesArray(nil) {
		t.Fatal("expected empty array not to match")
	}
	if (Enum{}).MatchesArray([]any{"ACTIVE", 42}) {
		t.Fatal("expected non-string element to fail the array")
	}
	if (Enum{}).MatchesArray([]any{"ACTIVE", "lower"}) {
		t.Fatal("expected one mismatching element to fail the array")
	}
}

type stubDetector struct {
	priority int
	logical  string
	accepts  string
}

func (d stubDetector) Matches(value string) bool { return value == d.accepts }
func (d stubDetector) MatchesArray(values []any) bool {
	return allStringsMatch(values, d.Matches)
}
func (d stubDetector) LogicalType() string { return d.logical }
func (d stubDetector) Priority() int       { return d.priority }

func TestSet_OrdersByDescendingPriority(t *testing.T) {
	t.Parallel()

	low := stubDetector{priority: 1, logical: "low", accepts: "x"}
	high := stubDetector{priority: 9, logical: "high", accepts: "x"}
	set := NewSet(low, high)

	matched := set.Match("x")
	if matched == nil || matched.LogicalType() != "high" {
		t.Fatalf("expected the high-priority detector to win, got %v", matched)
	}
}

func TestSet_StableForEqualPriority(t *testing.T) {
	t.Parallel()

	first := stubDetector{priority: 5, logical: "first", accepts: "x"}
	second := stubDetector{priority: 5, logical: "second", accepts: "x"}
	set := NewSet(first, second)

	matched := set.Match("x")
	if matched == nil || matched.LogicalType() != "first" {
		t.Fatalf("expected registration order to break the tie, got %v", matched)
	}
}

func TestDefaultSet_UUIDBeforeEnum(t *testing.T) {
	t.Parallel()

	value := "ABCDEF12-1234-ABCD-1234-ABCDEF123456"
	matched := DefaultSet().Match(value)
	if matched == nil || matched.LogicalType() != "uuid" {
		t.Fatalf("expected the UUID detector to win for %q, got %v", value, matched)
	}
	if DefaultSet().Match("STATUS_ACTIVE").LogicalType() != "" {
		t.Fatal("expected the enum heuristic for upper-case symbols")
	}
}

func TestSet_NoMatchReturnsNil(t *testing.T) {
	t.Parallel()

	if DefaultSet().Match("plain text") != nil {
		t.Fatal("expected no detector to match free text")
	}
	if DefaultSet().MatchArray([]any{"plain", "text"}) != nil {
		t.Fatal("expected no detector to match a free-text array")
	}
}

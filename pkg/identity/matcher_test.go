package identity

import "testing"

func TestMatcherFindsClosestUnderThreshold(t *testing.T) {
	matcher := NewMatcher(0.6)
	candidates := []Candidate{
		{UserID: "user-a", Descriptor: []float64{0.1, 0.2, 0.3}},
		{UserID: "user-b", Descriptor: []float64{0.9, 0.8, 0.7}},
	}

	result, ok := matcher.Match(candidates, []float64{0.1, 0.2, 0.35})
	if !ok {
		t.Fatal("expected a match")
	}
	if result.UserID != "user-a" {
		t.Fatalf("expected user-a, got %s", result.UserID)
	}
	if result.Distance >= 0.6 {
		t.Fatalf("distance %v not under threshold", result.Distance)
	}
}

func TestMatcherRejectsBeyondThreshold(t *testing.T) {
	matcher := NewMatcher(0.6)
	candidates := []Candidate{
		{UserID: "user-a", Descriptor: []float64{5, 5, 5}},
	}

	if _, ok := matcher.Match(candidates, []float64{0, 0, 0}); ok {
		t.Fatal("expected no match beyond the threshold")
	}
}

func TestMatcherRejectsEmptyRoster(t *testing.T) {
	matcher := NewMatcher(0.6)
	if _, ok := matcher.Match(nil, []float64{0.1}); ok {
		t.Fatal("expected no match against an empty roster")
	}
}

func TestMatcherIgnoresMismatchedDimensions(t *testing.T) {
	matcher := NewMatcher(0.6)
	candidates := []Candidate{
		{UserID: "user-a", Descriptor: []float64{0.1, 0.2}},
	}

	if _, ok := matcher.Match(candidates, []float64{0.1, 0.2, 0.3}); ok {
		t.Fatal("expected mismatched descriptor lengths to never match")
	}
}

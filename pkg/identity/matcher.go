package identity

import "math"

type MatchResult struct {
	UserID   string
	Distance float64
}

// Matcher compares a probe descriptor against enrolled candidates with a
// linear scan and a fixed distance threshold.
type Matcher struct {
	threshold float64
}

func NewMatcher(threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = 0.6
	}
	return &Matcher{threshold: threshold}
}

func (m *Matcher) Match(candidates []Candidate, descriptor []float64) (MatchResult, bool) {
	best := MatchResult{Distance: math.Inf(1)}
	for _, candidate := range candidates {
		distance := euclidean(candidate.Descriptor, descriptor)
		if distance < best.Distance {
			best = MatchResult{UserID: candidate.UserID, Distance: distance}
		}
	}

	if best.UserID == "" || best.Distance >= m.threshold {
		return MatchResult{}, false
	}
	return best, true
}

func euclidean(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return math.Inf(1)
	}
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

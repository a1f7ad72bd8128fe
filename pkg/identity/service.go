package identity

import (
	"context"
	"errors"
)

var ErrNoFace = errors.New("no matching face profile")

// Verifier is the identity boundary: it turns an opaque face descriptor
// into a stable user id, or reports that nobody matched. The core never
// computes descriptors itself.
type Verifier struct {
	repo    *Repository
	matcher *Matcher
}

func NewVerifier(repo *Repository, matcher *Matcher) *Verifier {
	return &Verifier{repo: repo, matcher: matcher}
}

func (v *Verifier) Verify(ctx context.Context, descriptor []float64) (string, error) {
	candidates, err := v.repo.Candidates(ctx)
	if err != nil {
		return "", err
	}

	match, ok := v.matcher.Match(candidates, descriptor)
	if !ok {
		return "", ErrNoFace
	}
	return match.UserID, nil
}

func (v *Verifier) Enroll(ctx context.Context, userID string, descriptor []float64) error {
	return v.repo.Enroll(ctx, userID, descriptor)
}

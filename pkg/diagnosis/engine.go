package diagnosis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/elderwell/platform/pkg/common/kafka"
	"github.com/elderwell/platform/pkg/common/logger"
	"github.com/elderwell/platform/pkg/common/models"
	"github.com/google/uuid"
)

var (
	// ErrNoMatch is a valid terminal outcome, not a store failure.
	ErrNoMatch   = errors.New("no matching disease")
	ErrStoreRead = errors.New("knowledge store read failed")
)

const (
	primaryMultiplier = 1.5
	confidenceCeiling = 95.0
	companionLimit    = 3
)

type Engine struct {
	repo     *Repository
	cache    *LinkCache
	producer *kafka.Producer
	timeout  time.Duration
}

// NewEngine wires the inference engine. cache and producer may be nil; the
// engine then reads the store directly and skips event publication.
func NewEngine(repo *Repository, cache *LinkCache, producer *kafka.Producer, timeout time.Duration) *Engine {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Engine{repo: repo, cache: cache, producer: producer, timeout: timeout}
}

// Score runs the weighted aggregation over the link set. Only diseases with
// at least one selected symptom acquire state; their total counts every
// known link. Ties keep first-seen order (stable sort over link order).
func Score(links []DiseaseLink, selected map[uuid.UUID]struct{}) []models.DiagnosisResult {
	type accumulator struct {
		disease models.Disease
		score   float64
		matched int
		total   int
	}

	scores := make(map[uuid.UUID]*accumulator)
	var order []uuid.UUID

	for _, link := range links {
		if _, ok := selected[link.SymptomID]; !ok {
			continue
		}
		acc, ok := scores[link.DiseaseID]
		if !ok {
			acc = &accumulator{disease: link.Disease}
			scores[link.DiseaseID] = acc
			order = append(order, link.DiseaseID)
		}
		multiplier := 1.0
		if link.IsPrimary {
			multiplier = primaryMultiplier
		}
		acc.score += link.Weight * multiplier
		acc.matched++
	}

	for _, link := range links {
		if acc, ok := scores[link.DiseaseID]; ok {
			acc.total++
		}
	}

	results := make([]models.DiagnosisResult, 0, len(order))
	for _, diseaseID := range order {
		acc := scores[diseaseID]
		total := acc.total
		if total < 1 {
			total = 1
		}
		confidence := float64(acc.matched)/float64(total)*100 + acc.score*10
		if confidence > confidenceCeiling {
			confidence = confidenceCeiling
		}
		results = append(results, models.DiagnosisResult{
			Disease:      acc.disease,
			Score:        acc.score,
			MatchedCount: acc.matched,
			TotalCount:   acc.total,
			Confidence:   confidence,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})
	return results
}

// Infer ranks candidate diseases for the selected symptoms and returns the
// top match with its companion medications and providers. The diagnosis is
// recorded as an append-only event scoped to userID.
func (e *Engine) Infer(ctx context.Context, userID string, symptomIDs []uuid.UUID) (*models.DiagnosisResult, error) {
	if len(symptomIDs) == 0 {
		return nil, ErrNoMatch
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	links, err := e.fetchLinks(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreRead, err)
	}

	selected := make(map[uuid.UUID]struct{}, len(symptomIDs))
	for _, id := range symptomIDs {
		selected[id] = struct{}{}
	}

	ranked := Score(links, selected)
	if len(ranked) == 0 {
		return nil, ErrNoMatch
	}
	top := ranked[0]

	if err := e.repo.RecordDiagnosis(ctx, userID, symptomIDs, top.Disease.ID, top.Confidence, top.Disease.Recommendation); err != nil {
		return nil, fmt.Errorf("recording diagnosis: %w", err)
	}

	// Companion lookups are best effort; a missing roster never blocks
	// the diagnosis itself.
	medications, err := e.repo.MedicationsForDisease(ctx, top.Disease.ID, companionLimit)
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to fetch recommended medications")
	} else {
		top.Medications = medications
	}

	doctors, err := e.repo.AvailableDoctors(ctx, companionLimit)
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to fetch available doctors")
	} else {
		top.Doctors = doctors
	}

	if e.producer != nil {
		payload := map[string]interface{}{
			"user_id":    userID,
			"disease_id": top.Disease.ID.String(),
			"confidence": top.Confidence,
		}
		if err := e.producer.PublishEvent(ctx, "diagnosis", "diagnosis-service", payload); err != nil {
			logger.Log.WithError(err).Error("Failed to publish diagnosis event")
		}
	}

	return &top, nil
}

func (e *Engine) fetchLinks(ctx context.Context) ([]DiseaseLink, error) {
	if e.cache != nil {
		if links, ok := e.cache.Get(ctx); ok {
			return links, nil
		}
	}

	links, err := e.repo.FetchLinks(ctx)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		e.cache.Set(ctx, links)
	}
	return links, nil
}

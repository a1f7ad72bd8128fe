package diagnosis

import (
	"math"
	"testing"

	"github.com/elderwell/platform/pkg/common/models"
	"github.com/google/uuid"
)

func selectedSet(ids ...uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func TestScoreFungalInfectionScenario(t *testing.T) {
	diseaseID := uuid.New()
	itching := uuid.New()
	skinRash := uuid.New()
	disease := models.Disease{ID: diseaseID, Name: "Fungal infection"}

	links := []DiseaseLink{
		{DiseaseID: diseaseID, SymptomID: itching, Weight: 0.3, IsPrimary: true, Disease: disease},
		{DiseaseID: diseaseID, SymptomID: skinRash, Weight: 0.2, IsPrimary: false, Disease: disease},
	}

	results := Score(links, selectedSet(itching, skinRash))
	if len(results) != 1 {
		t.Fatalf("expected 1 scored disease, got %d", len(results))
	}

	top := results[0]
	if math.Abs(top.Score-0.65) > 1e-9 {
		t.Fatalf("expected score 0.65, got %v", top.Score)
	}
	if top.MatchedCount != 2 || top.TotalCount != 2 {
		t.Fatalf("expected matched=2 total=2, got %d/%d", top.MatchedCount, top.TotalCount)
	}
	if top.Confidence != 95 {
		t.Fatalf("expected clamped confidence 95, got %v", top.Confidence)
	}
}

func TestScoreConfidenceWithinBounds(t *testing.T) {
	selectedID := uuid.New()
	var links []DiseaseLink
	for i := 0; i < 10; i++ {
		diseaseID := uuid.New()
		links = append(links, DiseaseLink{
			DiseaseID: diseaseID,
			SymptomID: selectedID,
			Weight:    1.0,
			IsPrimary: true,
			Disease:   models.Disease{ID: diseaseID},
		})
		// an extra unmatched link so denominators vary
		if i%2 == 0 {
			links = append(links, DiseaseLink{
				DiseaseID: diseaseID,
				SymptomID: uuid.New(),
				Weight:    0.5,
				Disease:   models.Disease{ID: diseaseID},
			})
		}
	}

	results := Score(links, selectedSet(selectedID))
	if len(results) != 10 {
		t.Fatalf("expected 10 scored diseases, got %d", len(results))
	}
	for _, result := range results {
		if result.Confidence < 0 || result.Confidence > 95 {
			t.Fatalf("confidence %v outside [0,95]", result.Confidence)
		}
	}
}

func TestScoreTotalCountsAllLinksOfScoredDisease(t *testing.T) {
	diseaseID := uuid.New()
	matched := uuid.New()
	disease := models.Disease{ID: diseaseID}

	links := []DiseaseLink{
		{DiseaseID: diseaseID, SymptomID: matched, Weight: 0.2, IsPrimary: true, Disease: disease},
		{DiseaseID: diseaseID, SymptomID: uuid.New(), Weight: 0.4, Disease: disease},
		{DiseaseID: diseaseID, SymptomID: uuid.New(), Weight: 0.1, Disease: disease},
	}

	results := Score(links, selectedSet(matched))
	if len(results) != 1 {
		t.Fatalf("expected 1 scored disease, got %d", len(results))
	}
	if results[0].MatchedCount != 1 || results[0].TotalCount != 3 {
		t.Fatalf("expected matched=1 total=3, got %d/%d", results[0].MatchedCount, results[0].TotalCount)
	}
}

func TestScoreExcludesDiseasesWithoutMatches(t *testing.T) {
	matchedDisease := uuid.New()
	otherDisease := uuid.New()
	selected := uuid.New()

	links := []DiseaseLink{
		{DiseaseID: matchedDisease, SymptomID: selected, Weight: 0.5, IsPrimary: true, Disease: models.Disease{ID: matchedDisease}},
		{DiseaseID: otherDisease, SymptomID: uuid.New(), Weight: 0.9, IsPrimary: true, Disease: models.Disease{ID: otherDisease}},
	}

	results := Score(links, selectedSet(selected))
	if len(results) != 1 {
		t.Fatalf("expected only the matched disease, got %d results", len(results))
	}
	if results[0].Disease.ID != matchedDisease {
		t.Fatal("scored the wrong disease")
	}
}

func TestScoreEmptySelection(t *testing.T) {
	diseaseID := uuid.New()
	links := []DiseaseLink{
		{DiseaseID: diseaseID, SymptomID: uuid.New(), Weight: 0.5, Disease: models.Disease{ID: diseaseID}},
	}

	if results := Score(links, selectedSet()); len(results) != 0 {
		t.Fatalf("expected no results for empty selection, got %d", len(results))
	}
}

func TestScoreUnlinkedSelectedSymptom(t *testing.T) {
	diseaseID := uuid.New()
	links := []DiseaseLink{
		{DiseaseID: diseaseID, SymptomID: uuid.New(), Weight: 0.5, Disease: models.Disease{ID: diseaseID}},
	}

	if results := Score(links, selectedSet(uuid.New())); len(results) != 0 {
		t.Fatalf("expected no results for an unlinked symptom, got %d", len(results))
	}
}

func TestScoreTiesKeepFirstSeenOrder(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	selected := uuid.New()

	links := []DiseaseLink{
		{DiseaseID: first, SymptomID: selected, Weight: 0.4, IsPrimary: true, Disease: models.Disease{ID: first, Name: "first"}},
		{DiseaseID: second, SymptomID: selected, Weight: 0.4, IsPrimary: true, Disease: models.Disease{ID: second, Name: "second"}},
	}

	results := Score(links, selectedSet(selected))
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Disease.Name != "first" || results[1].Disease.Name != "second" {
		t.Fatalf("tie order not stable: %s before %s", results[0].Disease.Name, results[1].Disease.Name)
	}
}

func TestScoreRanksByConfidence(t *testing.T) {
	weak := uuid.New()
	strong := uuid.New()
	selected := uuid.New()

	links := []DiseaseLink{
		// weak: 1 of 3 links matched
		{DiseaseID: weak, SymptomID: selected, Weight: 0.1, Disease: models.Disease{ID: weak, Name: "weak"}},
		{DiseaseID: weak, SymptomID: uuid.New(), Weight: 0.1, Disease: models.Disease{ID: weak, Name: "weak"}},
		{DiseaseID: weak, SymptomID: uuid.New(), Weight: 0.1, Disease: models.Disease{ID: weak, Name: "weak"}},
		// strong: its only link matched, primary weighted
		{DiseaseID: strong, SymptomID: selected, Weight: 0.3, IsPrimary: true, Disease: models.Disease{ID: strong, Name: "strong"}},
	}

	results := Score(links, selectedSet(selected))
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Disease.Name != "strong" {
		t.Fatalf("expected strong first, got %s", results[0].Disease.Name)
	}
	if results[0].Confidence <= results[1].Confidence {
		t.Fatalf("expected descending confidence, got %v then %v", results[0].Confidence, results[1].Confidence)
	}
}

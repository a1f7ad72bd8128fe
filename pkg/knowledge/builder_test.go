package knowledge

import (
	"testing"

	"github.com/elderwell/platform/pkg/source"
	"github.com/google/uuid"
)

func TestCollapseSymptomsLastRowWins(t *testing.T) {
	rows := []source.SeverityRow{
		{Symptom: "skin_rash", Weight: "3"},
		{Symptom: "itching", Weight: "1"},
		{Symptom: "skin_rash", Weight: "5"},
	}

	symptoms := CollapseSymptoms(rows)
	if len(symptoms) != 2 {
		t.Fatalf("expected 2 symptoms, got %d", len(symptoms))
	}
	if symptoms[0].Name != "skin rash" {
		t.Fatalf("expected first-occurrence order, got %q first", symptoms[0].Name)
	}
	if symptoms[0].Description != "Severity weight: 5" {
		t.Fatalf("expected the last row's description, got %q", symptoms[0].Description)
	}
}

func TestBuildDiseasesJoinsPrecautions(t *testing.T) {
	descriptions := []source.DescriptionRow{
		{Disease: "Fungal infection", Description: "A common fungal condition."},
		{Disease: "Migraine", Description: "Recurrent headaches."},
	}
	precautions := []source.PrecautionRow{
		{Disease: "Fungal infection", Precautions: []string{"bath twice", "", "keep area dry", ""}},
	}

	diseases := BuildDiseases(descriptions, precautions)
	if len(diseases) != 2 {
		t.Fatalf("expected 2 diseases, got %d", len(diseases))
	}
	if diseases[0].Recommendation != "bath twice, keep area dry" {
		t.Fatalf("unexpected recommendation %q", diseases[0].Recommendation)
	}
	if diseases[1].Recommendation != "" {
		t.Fatalf("expected empty recommendation without a precaution row, got %q", diseases[1].Recommendation)
	}
	if diseases[0].Severity != "moderate" {
		t.Fatalf("expected default moderate severity, got %q", diseases[0].Severity)
	}
}

func TestBuildSeverityIndexDefaults(t *testing.T) {
	index := BuildSeverityIndex([]source.SeverityRow{
		{Symptom: "itching", Weight: "2.1"},
		{Symptom: "skin_rash", Weight: "not-a-number"},
	})

	if index["itching"] != 2.1 {
		t.Fatalf("expected parsed weight 2.1, got %v", index["itching"])
	}
	if index["skin rash"] != 1.0 {
		t.Fatalf("expected default weight 1.0, got %v", index["skin rash"])
	}
}

func TestBuildLinksWeightAndPrimary(t *testing.T) {
	diseaseID := uuid.New()
	symptomIDs := map[string]uuid.UUID{
		"itching":   uuid.New(),
		"skin rash": uuid.New(),
		"fatigue":   uuid.New(),
		"chills":    uuid.New(),
	}
	occurrences := []source.OccurrenceRow{{
		Disease:  "Fungal infection",
		Symptoms: []string{"itching", "skin_rash", "fatigue", "chills"},
	}}
	severity := map[string]float64{
		"itching":   2,
		"skin rash": 9, // above the raw maximum, must clamp
		"fatigue":   4,
		"chills":    3,
	}

	links := BuildLinks(occurrences, severity, symptomIDs, map[string]uuid.UUID{"fungal infection": diseaseID})
	if len(links) != 4 {
		t.Fatalf("expected 4 links, got %d", len(links))
	}

	for i, link := range links {
		if link.Weight < 0 || link.Weight > 1 {
			t.Fatalf("link %d weight %v outside unit interval", i, link.Weight)
		}
		wantPrimary := i < 3
		if link.IsPrimary != wantPrimary {
			t.Fatalf("link %d primary = %v, want %v", i, link.IsPrimary, wantPrimary)
		}
	}
	if links[0].Weight != 2.0/7.0 {
		t.Fatalf("expected weight 2/7, got %v", links[0].Weight)
	}
	if links[1].Weight != 1.0 {
		t.Fatalf("expected clamped weight 1.0, got %v", links[1].Weight)
	}
}

func TestBuildLinksSkipsUnresolvedNames(t *testing.T) {
	diseaseID := uuid.New()
	symptomIDs := map[string]uuid.UUID{"itching": uuid.New()}

	occurrences := []source.OccurrenceRow{
		{Disease: "Unknown disease", Symptoms: []string{"itching"}},
		{Disease: "Fungal Infection", Symptoms: []string{"itching", "not_in_store"}},
	}

	links := BuildLinks(occurrences, map[string]float64{}, symptomIDs, map[string]uuid.UUID{"fungal infection": diseaseID})
	if len(links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(links))
	}
	if links[0].DiseaseID != diseaseID {
		t.Fatalf("link resolved to the wrong disease")
	}
	if links[0].Weight != 1.0/7.0 {
		t.Fatalf("expected default severity weight 1/7, got %v", links[0].Weight)
	}
}

func TestBuildLinksLastCandidateWins(t *testing.T) {
	diseaseID := uuid.New()
	symptomID := uuid.New()
	symptomIDs := map[string]uuid.UUID{"itching": symptomID}
	severity := map[string]float64{"itching": 2}

	occurrences := []source.OccurrenceRow{
		{Disease: "Fungal infection", Symptoms: []string{"itching"}},
		{Disease: "Fungal infection", Symptoms: []string{"", "", "", "itching"}},
	}

	links := BuildLinks(occurrences, severity, symptomIDs, map[string]uuid.UUID{"fungal infection": diseaseID})
	if len(links) != 1 {
		t.Fatalf("expected the pair to dedup to 1 link, got %d", len(links))
	}
	if links[0].IsPrimary {
		t.Fatal("expected the later secondary candidate to overwrite the primary one")
	}
}

func TestCollapseMedicationsFirstRowWinsAndCaps(t *testing.T) {
	rows := []source.DrugRow{
		{Name: "Valsartan", Condition: "Hypertension"},
		{Name: "Valsartan", Condition: "Heart Failure"},
		{Name: "Guaifenesin", Condition: ""},
	}

	medications := CollapseMedications(rows, 500)
	if len(medications) != 2 {
		t.Fatalf("expected 2 medications, got %d", len(medications))
	}
	if medications[0].Category != "Hypertension" {
		t.Fatalf("expected the first row's category, got %q", medications[0].Category)
	}
	if medications[1].Category != "General" {
		t.Fatalf("expected blank condition to default to General, got %q", medications[1].Category)
	}
	if medications[0].Dosage != "As prescribed" {
		t.Fatalf("expected placeholder dosage, got %q", medications[0].Dosage)
	}
}

func TestCollapseMedicationsTruncates(t *testing.T) {
	rows := make([]source.DrugRow, 0, 600)
	for i := 0; i < 600; i++ {
		rows = append(rows, source.DrugRow{Name: uuid.NewString(), Condition: "General"})
	}

	medications := CollapseMedications(rows, 500)
	if len(medications) != 500 {
		t.Fatalf("expected cap at 500, got %d", len(medications))
	}
}

func TestNormalizeSymptomName(t *testing.T) {
	if got := NormalizeSymptomName(" dischromic _patches "); got != "dischromic  patches" {
		t.Fatalf("unexpected normalization %q", got)
	}
	if got := NormalizeSymptomName("skin_rash"); got != "skin rash" {
		t.Fatalf("unexpected normalization %q", got)
	}
}

func TestSeedRosterCoversSpecializations(t *testing.T) {
	doctors := SeedRoster()
	if len(doctors) != 30 {
		t.Fatalf("expected 30 doctors, got %d", len(doctors))
	}

	seen := make(map[string]struct{})
	for _, doctor := range doctors {
		seen[doctor.Specialization] = struct{}{}
		if doctor.Rating < 3.5 || doctor.Rating > 5.0 {
			t.Fatalf("rating %v out of range for %s", doctor.Rating, doctor.Name)
		}
		if len(doctor.Availability) == 0 {
			t.Fatalf("doctor %s has no availability", doctor.Name)
		}
	}
	if len(seen) != len(specializations) {
		t.Fatalf("expected all %d specializations covered, got %d", len(specializations), len(seen))
	}
}

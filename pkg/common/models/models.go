package models

import (
	"time"

	"github.com/google/uuid"
)

// Knowledge base entities
type Symptom struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	NameID      string    `json:"name_id"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
}

type Disease struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	NameID         string    `json:"name_id"`
	Description    string    `json:"description"`
	Severity       string    `json:"severity"` // mild, moderate, serious
	Recommendation string    `json:"recommendation"`
}

type DiseaseSymptom struct {
	DiseaseID uuid.UUID `json:"disease_id"`
	SymptomID uuid.UUID `json:"symptom_id"`
	Weight    float64   `json:"weight"`
	IsPrimary bool      `json:"is_primary"`
}

type Medication struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	GenericName  string    `json:"generic_name"`
	Category     string    `json:"category"`
	Dosage       string    `json:"dosage"`
	Frequency    string    `json:"frequency"`
	Instructions string    `json:"instructions"`
	SideEffects  string    `json:"side_effects"`
	PriceRange   string    `json:"price_range"`
}

type Doctor struct {
	ID              uuid.UUID           `json:"id"`
	Name            string              `json:"name"`
	Specialization  string              `json:"specialization"`
	Hospital        string              `json:"hospital"`
	Location        string              `json:"location"`
	ExperienceYears int                 `json:"experience_years"`
	Rating          float64             `json:"rating"`
	ConsultationFee int                 `json:"consultation_fee"`
	Availability    map[string][]string `json:"availability,omitempty"`
	Phone           string              `json:"phone"`
	Email           string              `json:"email"`
}

// Inference
type DiagnosisRequest struct {
	UserID     string      `json:"user_id"`
	SymptomIDs []uuid.UUID `json:"symptom_ids"`
}

type DiagnosisResult struct {
	Disease      Disease      `json:"disease"`
	Score        float64      `json:"score"`
	MatchedCount int          `json:"matched_count"`
	TotalCount   int          `json:"total_count"`
	Confidence   float64      `json:"confidence"`
	Medications  []Medication `json:"medications,omitempty"`
	Doctors      []Doctor     `json:"doctors,omitempty"`
}

// Ingestion reporting
type ProcedureResult struct {
	Name     string `json:"name"`
	Imported int    `json:"imported"`
	Failed   int    `json:"failed"`
	Skipped  bool   `json:"skipped,omitempty"`
	Error    string `json:"error,omitempty"`
}

type ImportReport struct {
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Procedures []ProcedureResult `json:"procedures"`
}

func (r ImportReport) TotalImported() int {
	total := 0
	for _, p := range r.Procedures {
		total += p.Imported
	}
	return total
}

func (r ImportReport) TotalFailed() int {
	total := 0
	for _, p := range r.Procedures {
		total += p.Failed
	}
	return total
}

// Event Bus models
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // knowledge-refresh, diagnosis
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

package diagnosis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/elderwell/platform/pkg/common/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DiseaseLink is one disease-symptom association denormalized with its
// parent disease, the unit the scoring pass consumes.
type DiseaseLink struct {
	DiseaseID uuid.UUID      `json:"disease_id"`
	SymptomID uuid.UUID      `json:"symptom_id"`
	Weight    float64        `json:"weight"`
	IsPrimary bool           `json:"is_primary"`
	Disease   models.Disease `json:"disease"`
}

type DiagnosisModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID           string    `gorm:"index"`
	SymptomsSelected datatypes.JSON
	DiseaseID        uuid.UUID `gorm:"type:uuid;index"`
	ConfidenceScore  float64
	AIRecommendation string
	CreatedAt        time.Time
}

func (DiagnosisModel) TableName() string {
	return "diagnoses"
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&DiagnosisModel{})
}

type linkRow struct {
	DiseaseID      uuid.UUID
	SymptomID      uuid.UUID
	Weight         float64
	IsPrimary      bool
	Name           string
	NameID         string
	Description    string
	Severity       string
	Recommendation string
}

// FetchLinks performs the full-table read of the link set joined with
// disease attributes.
func (r *Repository) FetchLinks(ctx context.Context) ([]DiseaseLink, error) {
	var rows []linkRow
	err := r.db.WithContext(ctx).
		Table("disease_symptoms").
		Select("disease_symptoms.disease_id, disease_symptoms.symptom_id, disease_symptoms.weight, disease_symptoms.is_primary, diseases.name, diseases.name_id, diseases.description, diseases.severity, diseases.recommendation").
		Joins("JOIN diseases ON diseases.id = disease_symptoms.disease_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	links := make([]DiseaseLink, 0, len(rows))
	for _, row := range rows {
		links = append(links, DiseaseLink{
			DiseaseID: row.DiseaseID,
			SymptomID: row.SymptomID,
			Weight:    row.Weight,
			IsPrimary: row.IsPrimary,
			Disease: models.Disease{
				ID:             row.DiseaseID,
				Name:           row.Name,
				NameID:         row.NameID,
				Description:    row.Description,
				Severity:       row.Severity,
				Recommendation: row.Recommendation,
			},
		})
	}
	return links, nil
}

func (r *Repository) ListSymptoms(ctx context.Context) ([]models.Symptom, error) {
	var symptoms []models.Symptom
	err := r.db.WithContext(ctx).
		Table("symptoms").
		Select("id", "name", "name_id", "category", "description").
		Order("name").
		Scan(&symptoms).Error
	return symptoms, err
}

func (r *Repository) MedicationsForDisease(ctx context.Context, diseaseID uuid.UUID, limit int) ([]models.Medication, error) {
	if limit <= 0 {
		limit = 3
	}
	var medications []models.Medication
	err := r.db.WithContext(ctx).
		Table("medications").
		Select("medications.id, medications.name, medications.generic_name, medications.category, medications.dosage, medications.frequency, medications.instructions, medications.side_effects, medications.price_range").
		Joins("JOIN disease_medications ON disease_medications.medication_id = medications.id").
		Where("disease_medications.disease_id = ?", diseaseID).
		Limit(limit).
		Scan(&medications).Error
	return medications, err
}

type doctorRow struct {
	ID              uuid.UUID
	Name            string
	Specialization  string
	Hospital        string
	Location        string
	ExperienceYears int
	Rating          float64
	ConsultationFee int
	Availability    datatypes.JSONMap
	Phone           string
	Email           string
}

// AvailableDoctors lists care providers without specialty filtering.
func (r *Repository) AvailableDoctors(ctx context.Context, limit int) ([]models.Doctor, error) {
	if limit <= 0 {
		limit = 3
	}
	var rows []doctorRow
	err := r.db.WithContext(ctx).
		Table("doctors").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	doctors := make([]models.Doctor, 0, len(rows))
	for _, row := range rows {
		availability := make(map[string][]string, len(row.Availability))
		for day, value := range row.Availability {
			if slots, ok := value.([]interface{}); ok {
				parsed := make([]string, 0, len(slots))
				for _, slot := range slots {
					if s, ok := slot.(string); ok {
						parsed = append(parsed, s)
					}
				}
				availability[day] = parsed
			}
		}
		doctors = append(doctors, models.Doctor{
			ID:              row.ID,
			Name:            row.Name,
			Specialization:  row.Specialization,
			Hospital:        row.Hospital,
			Location:        row.Location,
			ExperienceYears: row.ExperienceYears,
			Rating:          row.Rating,
			ConsultationFee: row.ConsultationFee,
			Availability:    availability,
			Phone:           row.Phone,
			Email:           row.Email,
		})
	}
	return doctors, nil
}

// RecordDiagnosis appends an immutable diagnosis event for the user.
func (r *Repository) RecordDiagnosis(ctx context.Context, userID string, symptomIDs []uuid.UUID, diseaseID uuid.UUID, confidence float64, recommendation string) error {
	selected, err := json.Marshal(symptomIDs)
	if err != nil {
		return err
	}
	record := DiagnosisModel{
		ID:               uuid.New(),
		UserID:           userID,
		SymptomsSelected: datatypes.JSON(selected),
		DiseaseID:        diseaseID,
		ConfidenceScore:  confidence,
		AIRecommendation: recommendation,
		CreatedAt:        time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Create(&record).Error
}

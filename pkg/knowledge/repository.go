package knowledge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/elderwell/platform/pkg/common/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrStoreWrite = errors.New("knowledge store write failed")

type SymptomModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"uniqueIndex"`
	NameID      string    `gorm:"column:name_id"`
	Category    string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (SymptomModel) TableName() string {
	return "symptoms"
}

type DiseaseModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string    `gorm:"uniqueIndex"`
	NameID         string    `gorm:"column:name_id"`
	Description    string
	Severity       string
	Recommendation string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (DiseaseModel) TableName() string {
	return "diseases"
}

type DiseaseSymptomModel struct {
	DiseaseID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_disease_symptom"`
	SymptomID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_disease_symptom"`
	Weight    float64
	IsPrimary bool
	CreatedAt time.Time
}

func (DiseaseSymptomModel) TableName() string {
	return "disease_symptoms"
}

type MedicationModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"uniqueIndex"`
	GenericName  string
	Category     string
	Dosage       string
	Frequency    string
	Instructions string
	SideEffects  string
	PriceRange   string
	CreatedAt    time.Time
}

func (MedicationModel) TableName() string {
	return "medications"
}

type DiseaseMedicationModel struct {
	DiseaseID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_disease_medication"`
	MedicationID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_disease_medication"`
	CreatedAt    time.Time
}

func (DiseaseMedicationModel) TableName() string {
	return "disease_medications"
}

type DoctorModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name            string
	Specialization  string `gorm:"index"`
	Hospital        string
	Location        string
	ExperienceYears int
	Rating          float64
	ConsultationFee int
	Availability    datatypes.JSONMap `gorm:"type:jsonb"`
	Phone           string
	Email           string
	CreatedAt       time.Time
}

func (DoctorModel) TableName() string {
	return "doctors"
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&SymptomModel{},
		&DiseaseModel{},
		&DiseaseSymptomModel{},
		&MedicationModel{},
		&DiseaseMedicationModel{},
		&DoctorModel{},
	)
}

// UpsertSymptoms inserts or updates by natural name; existing rows keep
// their id so links stay valid across re-runs.
func (r *Repository) UpsertSymptoms(ctx context.Context, symptoms []models.Symptom) error {
	if len(symptoms) == 0 {
		return nil
	}
	rows := make([]SymptomModel, 0, len(symptoms))
	now := time.Now().UTC()
	for _, s := range symptoms {
		rows = append(rows, SymptomModel{
			ID:          uuid.New(),
			Name:        s.Name,
			NameID:      s.NameID,
			Category:    s.Category,
			Description: s.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"name_id", "category", "description", "updated_at"}),
	}).Create(&rows).Error
	if err != nil {
		return wrapWrite(err)
	}
	return nil
}

func (r *Repository) UpsertDiseases(ctx context.Context, diseases []models.Disease) error {
	if len(diseases) == 0 {
		return nil
	}
	rows := make([]DiseaseModel, 0, len(diseases))
	now := time.Now().UTC()
	for _, d := range diseases {
		rows = append(rows, DiseaseModel{
			ID:             uuid.New(),
			Name:           d.Name,
			NameID:         d.NameID,
			Description:    d.Description,
			Severity:       d.Severity,
			Recommendation: d.Recommendation,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"name_id", "description", "severity", "recommendation", "updated_at"}),
	}).Create(&rows).Error
	if err != nil {
		return wrapWrite(err)
	}
	return nil
}

// SymptomIDsByName returns the store's current name→id mapping, keyed on
// the lowercased name for case-insensitive resolution.
func (r *Repository) SymptomIDsByName(ctx context.Context) (map[string]uuid.UUID, error) {
	var rows []SymptomModel
	if err := r.db.WithContext(ctx).Select("id", "name").Find(&rows).Error; err != nil {
		return nil, err
	}
	ids := make(map[string]uuid.UUID, len(rows))
	for _, row := range rows {
		ids[strings.ToLower(row.Name)] = row.ID
	}
	return ids, nil
}

func (r *Repository) DiseaseIDsByName(ctx context.Context) (map[string]uuid.UUID, error) {
	var rows []DiseaseModel
	if err := r.db.WithContext(ctx).Select("id", "name").Find(&rows).Error; err != nil {
		return nil, err
	}
	ids := make(map[string]uuid.UUID, len(rows))
	for _, row := range rows {
		ids[strings.ToLower(row.Name)] = row.ID
	}
	return ids, nil
}

func (r *Repository) InsertLinkBatch(ctx context.Context, links []models.DiseaseSymptom) error {
	if len(links) == 0 {
		return nil
	}
	rows := make([]DiseaseSymptomModel, 0, len(links))
	now := time.Now().UTC()
	for _, l := range links {
		rows = append(rows, DiseaseSymptomModel{
			DiseaseID: l.DiseaseID,
			SymptomID: l.SymptomID,
			Weight:    l.Weight,
			IsPrimary: l.IsPrimary,
			CreatedAt: now,
		})
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return wrapWrite(err)
	}
	return nil
}

func (r *Repository) InsertMedicationBatch(ctx context.Context, medications []models.Medication) error {
	if len(medications) == 0 {
		return nil
	}
	rows := make([]MedicationModel, 0, len(medications))
	now := time.Now().UTC()
	for _, m := range medications {
		rows = append(rows, MedicationModel{
			ID:           uuid.New(),
			Name:         m.Name,
			GenericName:  m.GenericName,
			Category:     m.Category,
			Dosage:       m.Dosage,
			Frequency:    m.Frequency,
			Instructions: m.Instructions,
			SideEffects:  m.SideEffects,
			PriceRange:   m.PriceRange,
			CreatedAt:    now,
		})
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return wrapWrite(err)
	}
	return nil
}

func (r *Repository) CountDoctors(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DoctorModel{}).Count(&count).Error
	return count, err
}

func (r *Repository) InsertDoctors(ctx context.Context, doctors []models.Doctor) error {
	if len(doctors) == 0 {
		return nil
	}
	rows := make([]DoctorModel, 0, len(doctors))
	now := time.Now().UTC()
	for _, d := range doctors {
		availability := make(datatypes.JSONMap, len(d.Availability))
		for day, slots := range d.Availability {
			availability[day] = slots
		}
		rows = append(rows, DoctorModel{
			ID:              uuid.New(),
			Name:            d.Name,
			Specialization:  d.Specialization,
			Hospital:        d.Hospital,
			Location:        d.Location,
			ExperienceYears: d.ExperienceYears,
			Rating:          d.Rating,
			ConsultationFee: d.ConsultationFee,
			Availability:    availability,
			Phone:           d.Phone,
			Email:           d.Email,
			CreatedAt:       now,
		})
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return wrapWrite(err)
	}
	return nil
}

func wrapWrite(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrStoreWrite, err)
}

package identity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type FaceProfileModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID     string    `gorm:"index"`
	Descriptor datatypes.JSON
	CreatedAt  time.Time
}

func (FaceProfileModel) TableName() string {
	return "face_profiles"
}

type Candidate struct {
	UserID     string
	Descriptor []float64
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&FaceProfileModel{})
}

func (r *Repository) Enroll(ctx context.Context, userID string, descriptor []float64) error {
	data, err := json.Marshal(descriptor)
	if err != nil {
		return err
	}
	profile := FaceProfileModel{
		ID:         uuid.New(),
		UserID:     userID,
		Descriptor: datatypes.JSON(data),
		CreatedAt:  time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Create(&profile).Error
}

func (r *Repository) Candidates(ctx context.Context) ([]Candidate, error) {
	var profiles []FaceProfileModel
	if err := r.db.WithContext(ctx).Find(&profiles).Error; err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(profiles))
	for _, profile := range profiles {
		var descriptor []float64
		if err := json.Unmarshal(profile.Descriptor, &descriptor); err != nil {
			continue
		}
		candidates = append(candidates, Candidate{
			UserID:     profile.UserID,
			Descriptor: descriptor,
		})
	}
	return candidates, nil
}

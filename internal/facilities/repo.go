package facilities

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Marshal-AM/cumadmin/pkg/db/models"
)

// Repository exposes persistence operations for facility rows.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Facility, error)
	// ReplaceIfVersion writes the whole snapshot back, conditioned on the row
	// still carrying expectedVersion. Returns false without error when another
	// writer got there first.
	ReplaceIfVersion(ctx context.Context, facility *models.Facility, expectedVersion int) (bool, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a facilities repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Facility, error) {
	var facility models.Facility
	if err := r.db.WithContext(ctx).First(&facility, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &facility, nil
}

func (r *repositoryImpl) ReplaceIfVersion(ctx context.Context, facility *models.Facility, expectedVersion int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Facility{}).
		Where("id = ? AND version = ?", facility.ID, expectedVersion).
		Select("*").
		Omit("id", "created_at").
		Updates(facility)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

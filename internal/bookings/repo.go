package bookings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Marshal-AM/cumadmin/pkg/db/models"
)

// Repository exposes persistence operations for booking rows.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	// ReplaceIfVersion writes the whole snapshot back, conditioned on the row
	// still carrying expectedVersion. Returns false without error when another
	// writer got there first.
	ReplaceIfVersion(ctx context.Context, booking *models.Booking, expectedVersion int) (bool, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a bookings repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repositoryImpl) ReplaceIfVersion(ctx context.Context, booking *models.Booking, expectedVersion int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND version = ?", booking.ID, expectedVersion).
		Select("*").
		Omit("id", "created_at").
		Updates(booking)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

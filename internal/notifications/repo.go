package notifications

import (
	"context"

	"gorm.io/gorm"

	"github.com/Marshal-AM/cumadmin/pkg/db/models"
)

// Repository exposes persistence for in-app notification records.
type Repository interface {
	Create(ctx context.Context, notification *models.Notification) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a notifications repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

package startups

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Marshal-AM/cumadmin/pkg/db/models"
)

// Repository exposes read access to startup records.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Startup, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a startups repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Startup, error) {
	var startup models.Startup
	if err := r.db.WithContext(ctx).First(&startup, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &startup, nil
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Startup is the booking counterpart entity. Read-only in this service.
type Startup struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	StartupName string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"type:timestamptz;default:now()"`
}

func (Startup) TableName() string { return "startups" }

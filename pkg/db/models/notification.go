package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/Marshal-AM/cumadmin/pkg/enums"
)

// Notification stores in-app notification records. Insert-only from this
// service; Metadata is a snapshot of entity details at notification time and
// may diverge from current entity state.
type Notification struct {
	ID          uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      string                 `gorm:"type:text;not null"`
	Type        enums.NotificationType `gorm:"type:text;not null"`
	Title       string                 `gorm:"type:text;not null"`
	Message     string                 `gorm:"type:text;not null"`
	RelatedID   string                 `gorm:"type:text;not null"`
	RelatedType enums.RelatedType      `gorm:"type:text;not null"`
	IsRead      bool                   `gorm:"not null;default:false"`
	Metadata    json.RawMessage        `gorm:"type:jsonb"`
	CreatedAt   time.Time              `gorm:"type:timestamptz;default:now()"`
}

func (Notification) TableName() string { return "notifications" }

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/Marshal-AM/cumadmin/pkg/enums"
)

// WebhookDeliveryLog is an append-only record of every outbound webhook
// attempt, successful or not. Payload is the exact body sent over the wire.
type WebhookDeliveryLog struct {
	ID           uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	EventType    enums.WebhookEventType `gorm:"type:text;not null"`
	Payload      json.RawMessage        `gorm:"type:jsonb;not null"`
	Success      bool                   `gorm:"not null"`
	ErrorMessage *string                `gorm:"type:text"`
	Timestamp    time.Time              `gorm:"type:timestamptz;default:now()"`
}

func (WebhookDeliveryLog) TableName() string { return "webhook_delivery_logs" }

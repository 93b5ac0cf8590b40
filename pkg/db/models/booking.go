package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Marshal-AM/cumadmin/pkg/enums"
)

// Booking is a facility booking raised by a startup. Rows are created by the
// intake flow; this service only mutates status and its bookkeeping timestamps.
// Document holds fields the intake flow writes that this service does not
// model; they ride along untouched on write-back.
type Booking struct {
	ID                uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Status            enums.BookingStatus `gorm:"type:text;not null;default:pending"`
	FacilityID        *uuid.UUID          `gorm:"type:uuid"`
	StartupID         *uuid.UUID          `gorm:"type:uuid"`
	IncubatorID       *uuid.UUID          `gorm:"type:uuid"`
	ServiceProviderID *uuid.UUID          `gorm:"type:uuid"`
	RentalPlan        *string             `gorm:"type:text"`
	StartDate         *time.Time          `gorm:"type:timestamptz"`
	EndDate           *time.Time          `gorm:"type:timestamptz"`
	RequestedAt       *time.Time          `gorm:"type:timestamptz"`
	Amount            decimal.NullDecimal `gorm:"type:numeric"`
	Document          json.RawMessage     `gorm:"type:jsonb"`
	CreatedAt         time.Time           `gorm:"type:timestamptz;default:now()"`
	UpdatedAt         *time.Time          `gorm:"type:timestamptz"`
	ProcessedAt       *time.Time          `gorm:"type:timestamptz"`
	Version           int                 `gorm:"not null;default:0"`
}

func (Booking) TableName() string { return "bookings" }

// ProviderRef returns the webhook-facing service provider reference. Legacy
// rows carry an incubator id instead of a service provider id.
func (b *Booking) ProviderRef() *uuid.UUID {
	if b.IncubatorID != nil {
		return b.IncubatorID
	}
	return b.ServiceProviderID
}

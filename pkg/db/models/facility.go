package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/Marshal-AM/cumadmin/pkg/enums"
)

// Facility is a bookable space owned by a service provider. Details mirrors
// the nested details document from the source data; only the name is read here.
type Facility struct {
	ID                uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Status            enums.FacilityStatus `gorm:"type:text;not null;default:pending"`
	ServiceProviderID *uuid.UUID           `gorm:"type:uuid"`
	FacilityType      string               `gorm:"type:text"`
	Details           json.RawMessage      `gorm:"type:jsonb"`
	Document          json.RawMessage      `gorm:"type:jsonb"`
	CreatedAt         time.Time            `gorm:"type:timestamptz;default:now()"`
	UpdatedAt         *time.Time           `gorm:"type:timestamptz"`
	ProcessedAt       *time.Time           `gorm:"type:timestamptz"`
	Version           int                  `gorm:"not null;default:0"`
}

func (Facility) TableName() string { return "facilities" }

type facilityDetailsDoc struct {
	Name string `json:"name"`
}

// DetailsName extracts the display name from the nested details document.
// Returns empty when the document is absent or malformed.
func (f *Facility) DetailsName() string {
	if len(f.Details) == 0 {
		return ""
	}
	var doc facilityDetailsDoc
	if err := json.Unmarshal(f.Details, &doc); err != nil {
		return ""
	}
	return doc.Name
}

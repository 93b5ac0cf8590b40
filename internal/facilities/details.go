package facilities

import (
	"context"

	"github.com/google/uuid"

	"github.com/Marshal-AM/cumadmin/pkg/db/models"
	pkgerrors "github.com/Marshal-AM/cumadmin/pkg/errors"
)

const (
	unknownFacilityName = "Unknown Facility"
	unknownFacilityType = "unknown"
)

// FacilityDetails is the resolved view of a facility used for webhook payloads
// and notification metadata.
type FacilityDetails struct {
	FacilityName string
	FacilityType string
}

// Enricher resolves facility display details with placeholder fallbacks.
type Enricher struct {
	facilities Repository
}

// NewEnricher wires the facility details resolver.
func NewEnricher(facilities Repository) *Enricher {
	return &Enricher{facilities: facilities}
}

// FetchFacilityDetails loads the facility and resolves its display details.
func (e *Enricher) FetchFacilityDetails(ctx context.Context, id uuid.UUID) (*FacilityDetails, error) {
	facility, err := e.facilities.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Facility not found")
	}
	if facility == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Facility not found")
	}
	details := DetailsFor(facility)
	return &details, nil
}

// DetailsFor resolves display details for an already loaded facility.
func DetailsFor(facility *models.Facility) FacilityDetails {
	details := FacilityDetails{
		FacilityName: unknownFacilityName,
		FacilityType: unknownFacilityType,
	}
	if facility == nil {
		return details
	}
	if name := facility.DetailsName(); name != "" {
		details.FacilityName = name
	}
	if facility.FacilityType != "" {
		details.FacilityType = facility.FacilityType
	}
	return details
}

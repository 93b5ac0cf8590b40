package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Marshal-AM/cumadmin/pkg/db/models"
	"github.com/Marshal-AM/cumadmin/pkg/enums"
	pkgerrors "github.com/Marshal-AM/cumadmin/pkg/errors"
	"github.com/Marshal-AM/cumadmin/pkg/logger"
)

// Fallbacks for references that cannot be resolved. Bookings are created by an
// intake flow outside this service, so dangling facility or startup references
// are expected in older data.
const (
	unknownFacilityName = "Unknown Facility"
	unknownStartupName  = "Unknown Startup"
	unknownFacilityType = "unknown"
)

// BookingDetails is the resolved view of a booking used for webhook payloads
// and notification metadata.
type BookingDetails struct {
	FacilityName string
	FacilityType string
	StartupName  string
	StartDate    *time.Time
	EndDate      *time.Time
}

type facilityLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Facility, error)
}

type startupLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Startup, error)
}

// Enricher resolves a booking's facility and startup references. Reference
// resolution is best-effort: a missing or unreadable reference falls back to a
// placeholder instead of failing the caller.
type Enricher struct {
	bookings   Repository
	facilities facilityLookup
	startups   startupLookup
	logg       *logger.Logger
}

// NewEnricher wires the booking details resolver.
func NewEnricher(bookings Repository, facilities facilityLookup, startups startupLookup, logg *logger.Logger) *Enricher {
	return &Enricher{
		bookings:   bookings,
		facilities: facilities,
		startups:   startups,
		logg:       logg,
	}
}

// FetchBookingDetails loads the booking and resolves its references. Only the
// root booking is required to exist.
func (e *Enricher) FetchBookingDetails(ctx context.Context, id uuid.UUID) (*BookingDetails, error) {
	booking, err := e.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Booking not found")
	}
	if booking == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Booking not found")
	}
	details := e.DetailsFor(ctx, booking)
	return &details, nil
}

// DetailsFor resolves references for an already loaded booking.
func (e *Enricher) DetailsFor(ctx context.Context, booking *models.Booking) BookingDetails {
	details := BookingDetails{
		FacilityName: unknownFacilityName,
		FacilityType: unknownFacilityType,
		StartupName:  unknownStartupName,
	}
	if booking == nil {
		return details
	}

	if booking.FacilityID != nil {
		facility, err := e.facilities.FindByID(ctx, *booking.FacilityID)
		switch {
		case err != nil:
			e.warn(ctx, booking, "could not resolve booking facility", err)
		case facility != nil:
			if name := facility.DetailsName(); name != "" {
				details.FacilityName = name
			}
			if facility.FacilityType != "" {
				details.FacilityType = facility.FacilityType
			}
		}
	}

	if booking.StartupID != nil {
		startup, err := e.startups.FindByID(ctx, *booking.StartupID)
		switch {
		case err != nil:
			e.warn(ctx, booking, "could not resolve booking startup", err)
		case startup != nil:
			if startup.StartupName != "" {
				details.StartupName = startup.StartupName
			}
		}
	}

	details.StartDate = booking.StartDate
	if details.StartDate == nil {
		details.StartDate = booking.RequestedAt
	}

	details.EndDate = booking.EndDate
	if details.EndDate == nil && details.StartDate != nil {
		plan := enums.RentalPlanMonthly
		if booking.RentalPlan != nil && *booking.RentalPlan != "" {
			plan = enums.RentalPlan(*booking.RentalPlan)
		}
		if end, ok := plan.EndDateFrom(*details.StartDate); ok {
			details.EndDate = &end
		}
	}

	return details
}

func (e *Enricher) warn(ctx context.Context, booking *models.Booking, msg string, err error) {
	if e.logg == nil {
		return
	}
	ctx = e.logg.WithEntityID(ctx, booking.ID.String())
	e.logg.Warn(ctx, msg+": "+err.Error())
}

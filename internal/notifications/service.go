package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Marshal-AM/cumadmin/pkg/db/models"
	"github.com/Marshal-AM/cumadmin/pkg/enums"
	pkgerrors "github.com/Marshal-AM/cumadmin/pkg/errors"
)

// unknownUser keeps notification rows insertable when the source record has no
// owner reference. Receivers treat it as an orphan bucket.
const unknownUser = "unknown"

const metadataDateLayout = "2006-01-02"

// Service creates in-app notification records for approval events.
type Service interface {
	CreateBookingApproved(ctx context.Context, params BookingApprovedParams) error
	CreateFacilityApproved(ctx context.Context, params FacilityApprovedParams) error
}

type service struct {
	repo Repository
}

// NewService wires notifications dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &service{repo: repo}, nil
}

// BookingApprovedParams carries the enriched booking details a notification
// record snapshots.
type BookingApprovedParams struct {
	BookingID    uuid.UUID
	StartupID    *uuid.UUID
	FacilityName string
	StartupName  string
	FacilityType string
	StartDate    *time.Time
	EndDate      *time.Time
}

// FacilityApprovedParams carries the enriched facility details a notification
// record snapshots.
type FacilityApprovedParams struct {
	FacilityID        uuid.UUID
	ServiceProviderID *uuid.UUID
	FacilityName      string
	FacilityType      string
}

type bookingMetadata struct {
	FacilityName string `json:"facilityName"`
	StartupName  string `json:"startupName"`
	StartDate    string `json:"startDate,omitempty"`
	EndDate      string `json:"endDate,omitempty"`
	FacilityType string `json:"facilityType,omitempty"`
}

type facilityMetadata struct {
	FacilityName string `json:"facilityName"`
	FacilityType string `json:"facilityType,omitempty"`
}

func (s *service) CreateBookingApproved(ctx context.Context, params BookingApprovedParams) error {
	meta := bookingMetadata{
		FacilityName: params.FacilityName,
		StartupName:  params.StartupName,
		FacilityType: params.FacilityType,
	}
	if params.StartDate != nil {
		meta.StartDate = params.StartDate.Format(metadataDateLayout)
	}
	if params.EndDate != nil {
		meta.EndDate = params.EndDate.Format(metadataDateLayout)
	}

	record := &models.Notification{
		UserID:      userIDOrUnknown(params.StartupID),
		Type:        enums.NotificationTypeBookingApproved,
		Title:       "Booking Approved",
		Message:     fmt.Sprintf("Your booking for %q has been approved.", params.FacilityName),
		RelatedID:   params.BookingID.String(),
		RelatedType: enums.RelatedTypeBooking,
	}
	return s.insert(ctx, record, meta)
}

func (s *service) CreateFacilityApproved(ctx context.Context, params FacilityApprovedParams) error {
	meta := facilityMetadata{
		FacilityName: params.FacilityName,
		FacilityType: params.FacilityType,
	}

	record := &models.Notification{
		UserID:      userIDOrUnknown(params.ServiceProviderID),
		Type:        enums.NotificationTypeFacilityApproved,
		Title:       "Facility Approved",
		Message:     fmt.Sprintf("Your facility %q has been approved.", params.FacilityName),
		RelatedID:   params.FacilityID.String(),
		RelatedType: enums.RelatedTypeFacility,
	}
	return s.insert(ctx, record, meta)
}

func (s *service) insert(ctx context.Context, record *models.Notification, meta any) error {
	encoded, err := json.Marshal(meta)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode notification metadata")
	}
	record.Metadata = encoded

	if err := s.repo.Create(ctx, record); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create notification")
	}
	return nil
}

func userIDOrUnknown(id *uuid.UUID) string {
	if id == nil {
		return unknownUser
	}
	return id.String()
}

package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Marshal-AM/cumadmin/pkg/db/models"
	"github.com/Marshal-AM/cumadmin/pkg/enums"
	pkgerrors "github.com/Marshal-AM/cumadmin/pkg/errors"
)

type fakeRepository struct {
	created  []*models.Notification
	createFn func(ctx context.Context, notification *models.Notification) error
}

func (f *fakeRepository) Create(ctx context.Context, notification *models.Notification) error {
	if f.createFn != nil {
		return f.createFn(ctx, notification)
	}
	f.created = append(f.created, notification)
	return nil
}

func newServiceWithRepo(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}
	return svc
}

func TestService_CreateBookingApproved(t *testing.T) {
	repo := &fakeRepository{}
	svc := newServiceWithRepo(t, repo)

	bookingID := uuid.New()
	startupID := uuid.New()
	start := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	err := svc.CreateBookingApproved(context.Background(), BookingApprovedParams{
		BookingID:    bookingID,
		StartupID:    &startupID,
		FacilityName: "Wet Lab A",
		StartupName:  "Acme Bio",
		FacilityType: "lab",
		StartDate:    &start,
		EndDate:      &end,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(repo.created))
	}

	record := repo.created[0]
	if record.UserID != startupID.String() {
		t.Fatalf("unexpected user id %q", record.UserID)
	}
	if record.Type != enums.NotificationTypeBookingApproved {
		t.Fatalf("unexpected type %q", record.Type)
	}
	if record.Title != "Booking Approved" {
		t.Fatalf("unexpected title %q", record.Title)
	}
	if record.Message != `Your booking for "Wet Lab A" has been approved.` {
		t.Fatalf("unexpected message %q", record.Message)
	}
	if record.RelatedID != bookingID.String() || record.RelatedType != enums.RelatedTypeBooking {
		t.Fatalf("unexpected related reference %q/%q", record.RelatedID, record.RelatedType)
	}

	var meta map[string]string
	if err := json.Unmarshal(record.Metadata, &meta); err != nil {
		t.Fatalf("metadata is not valid JSON: %v", err)
	}
	if meta["facilityName"] != "Wet Lab A" || meta["startupName"] != "Acme Bio" {
		t.Fatalf("unexpected metadata %v", meta)
	}
	if meta["startDate"] != "2025-06-01" {
		t.Fatalf("expected date-only start date, got %q", meta["startDate"])
	}
	if meta["endDate"] != "2025-07-01" {
		t.Fatalf("expected date-only end date, got %q", meta["endDate"])
	}
}

func TestService_CreateBookingApprovedWithoutOwner(t *testing.T) {
	repo := &fakeRepository{}
	svc := newServiceWithRepo(t, repo)

	err := svc.CreateBookingApproved(context.Background(), BookingApprovedParams{
		BookingID:    uuid.New(),
		FacilityName: "Unknown Facility",
		StartupName:  "Unknown Startup",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	record := repo.created[0]
	if record.UserID != "unknown" {
		t.Fatalf("expected unknown user fallback, got %q", record.UserID)
	}

	var meta map[string]string
	if err := json.Unmarshal(record.Metadata, &meta); err != nil {
		t.Fatalf("metadata is not valid JSON: %v", err)
	}
	if _, ok := meta["startDate"]; ok {
		t.Fatal("expected absent start date to be omitted from metadata")
	}
	if _, ok := meta["endDate"]; ok {
		t.Fatal("expected absent end date to be omitted from metadata")
	}
}

func TestService_CreateFacilityApproved(t *testing.T) {
	repo := &fakeRepository{}
	svc := newServiceWithRepo(t, repo)

	facilityID := uuid.New()
	providerID := uuid.New()

	err := svc.CreateFacilityApproved(context.Background(), FacilityApprovedParams{
		FacilityID:        facilityID,
		ServiceProviderID: &providerID,
		FacilityName:      "Maker Space",
		FacilityType:      "workshop",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	record := repo.created[0]
	if record.UserID != providerID.String() {
		t.Fatalf("unexpected user id %q", record.UserID)
	}
	if record.Type != enums.NotificationTypeFacilityApproved {
		t.Fatalf("unexpected type %q", record.Type)
	}
	if record.Message != `Your facility "Maker Space" has been approved.` {
		t.Fatalf("unexpected message %q", record.Message)
	}
	if record.RelatedID != facilityID.String() || record.RelatedType != enums.RelatedTypeFacility {
		t.Fatalf("unexpected related reference %q/%q", record.RelatedID, record.RelatedType)
	}
}

func TestService_CreateWrapsRepositoryFailure(t *testing.T) {
	repo := &fakeRepository{
		createFn: func(ctx context.Context, notification *models.Notification) error {
			return errors.New("insert failed")
		},
	}
	svc := newServiceWithRepo(t, repo)

	err := svc.CreateFacilityApproved(context.Background(), FacilityApprovedParams{
		FacilityID:   uuid.New(),
		FacilityName: "Maker Space",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestNewServiceRequiresRepository(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected constructor error for nil repository")
	}
}

package bookings

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/Marshal-AM/cumadmin/internal/notifications"
	"github.com/Marshal-AM/cumadmin/pkg/config"
	"github.com/Marshal-AM/cumadmin/pkg/db/models"
	"github.com/Marshal-AM/cumadmin/pkg/enums"
	pkgerrors "github.com/Marshal-AM/cumadmin/pkg/errors"
	"github.com/Marshal-AM/cumadmin/pkg/logger"
)

// replaceAttempts bounds the reload-and-retry loop when a concurrent writer
// wins the version race.
const replaceAttempts = 3

// Caller-facing result messages. The wording is part of the admin UI contract.
const (
	msgNoChanges         = "No changes were necessary"
	msgUpdated           = "Booking status updated"
	msgUpdatedNotified   = "Booking status updated and notification sent"
	msgUpdatedNotifyFail = "Booking status updated but failed to send notification"
	msgUpdatedNoSecret   = "Booking status updated but webhook not sent - missing secret"
)

// Service drives booking status transitions and their side effects.
type Service interface {
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*TransitionResult, error)
}

// UpdateStatusInput is the raw transition request. PreviousStatusHint is the
// caller's claim about the stored status; it is checked, never trusted.
type UpdateStatusInput struct {
	BookingID          uuid.UUID
	NewStatus          string
	PreviousStatusHint string
}

// SideEffects reports what happened after the status write. Side effects are
// best-effort and never fail the transition.
type SideEffects struct {
	NotificationCreated bool
	WebhookSent         bool
	DeliveryLogged      bool
}

// TransitionResult is the caller-facing outcome of a transition.
type TransitionResult struct {
	Message     string
	WebhookSent bool
	SideEffects SideEffects
}

type notificationCreator interface {
	CreateBookingApproved(ctx context.Context, params notifications.BookingApprovedParams) error
}

type webhookSender interface {
	Send(ctx context.Context, event enums.WebhookEventType, url string, payload any, secret string) (bool, []byte)
	Skip(ctx context.Context, event enums.WebhookEventType)
}

type deliveryRecorder interface {
	Record(ctx context.Context, event enums.WebhookEventType, payload json.RawMessage, success bool, errMsg string) bool
}

type service struct {
	repo       Repository
	enricher   *Enricher
	notifier   notificationCreator
	dispatcher webhookSender
	delivery   deliveryRecorder
	webhook    config.WebhookConfig
	logg       *logger.Logger
}

// NewService wires the booking transition engine.
func NewService(
	repo Repository,
	enricher *Enricher,
	notifier notificationCreator,
	dispatcher webhookSender,
	delivery deliveryRecorder,
	webhook config.WebhookConfig,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "bookings repository required")
	}
	if enricher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "bookings enricher required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notification writer required")
	}
	if dispatcher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "webhook dispatcher required")
	}
	if delivery == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "delivery log required")
	}
	return &service{
		repo:       repo,
		enricher:   enricher,
		notifier:   notifier,
		dispatcher: dispatcher,
		delivery:   delivery,
		webhook:    webhook,
		logg:       logg,
	}, nil
}

// bookingStatusPayload is the outbound webhook body. Field names are the wire
// contract with the main application.
type bookingStatusPayload struct {
	BookingID         string     `json:"bookingId"`
	Status            string     `json:"status"`
	PreviousStatus    string     `json:"previousStatus"`
	ServiceProviderID *uuid.UUID `json:"serviceProviderId"`
	FacilityName      string     `json:"facilityName"`
	StartupName       string     `json:"startupName"`
	StartDate         *time.Time `json:"startDate"`
	EndDate           *time.Time `json:"endDate"`
	FacilityType      string     `json:"facilityType"`
}

func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*TransitionResult, error) {
	newStatus, err := enums.ParseBookingStatus(input.NewStatus)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid booking status")
	}

	if s.logg != nil {
		ctx = s.logg.WithEntityID(ctx, input.BookingID.String())
	}

	var booking *models.Booking
	var previous enums.BookingStatus
	for attempt := 0; ; attempt++ {
		booking, err = s.repo.FindByID(ctx, input.BookingID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Booking not found")
		}
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
		}

		previous = booking.Status
		if attempt == 0 {
			s.checkHint(ctx, input.PreviousStatusHint, previous)
		}

		if previous == newStatus {
			return &TransitionResult{Message: msgNoChanges}, nil
		}

		now := time.Now().UTC()
		expectedVersion := booking.Version
		booking.Status = newStatus
		booking.UpdatedAt = &now
		booking.ProcessedAt = &now
		booking.Version = expectedVersion + 1

		replaced, err := s.repo.ReplaceIfVersion(ctx, booking, expectedVersion)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update booking status")
		}
		if replaced {
			break
		}
		if attempt+1 >= replaceAttempts {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "booking was modified concurrently")
		}
	}

	if !notificationWorthy(previous, newStatus) {
		return &TransitionResult{Message: msgUpdated}, nil
	}
	return s.runSideEffects(ctx, booking, previous), nil
}

// notificationWorthy recognizes the single transition that triggers side
// effects: a pending booking becoming approved.
func notificationWorthy(previous, next enums.BookingStatus) bool {
	return previous == enums.BookingStatusPending && next == enums.BookingStatusApproved
}

func (s *service) checkHint(ctx context.Context, hint string, derived enums.BookingStatus) {
	if hint == "" || strings.EqualFold(strings.TrimSpace(hint), string(derived)) {
		return
	}
	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"claimed_previous_status": hint,
			"stored_previous_status":  string(derived),
		})
		s.logg.Warn(ctx, "caller-supplied previous status does not match stored status")
	}
}

func (s *service) runSideEffects(ctx context.Context, booking *models.Booking, previous enums.BookingStatus) *TransitionResult {
	details := s.enricher.DetailsFor(ctx, booking)

	var effects SideEffects
	var failures error

	if err := s.notifier.CreateBookingApproved(ctx, notifications.BookingApprovedParams{
		BookingID:    booking.ID,
		StartupID:    booking.StartupID,
		FacilityName: details.FacilityName,
		StartupName:  details.StartupName,
		FacilityType: details.FacilityType,
		StartDate:    details.StartDate,
		EndDate:      details.EndDate,
	}); err != nil {
		failures = multierr.Append(failures, err)
	} else {
		effects.NotificationCreated = true
	}

	result := &TransitionResult{Message: msgUpdatedNotified}

	if s.webhook.Secret == "" {
		s.dispatcher.Skip(ctx, enums.WebhookEventBookingStatusChange)
		result.Message = msgUpdatedNoSecret
	} else {
		payload := bookingStatusPayload{
			BookingID:         booking.ID.String(),
			Status:            string(booking.Status),
			PreviousStatus:    string(previous),
			ServiceProviderID: booking.ProviderRef(),
			FacilityName:      details.FacilityName,
			StartupName:       details.StartupName,
			StartDate:         details.StartDate,
			EndDate:           details.EndDate,
			FacilityType:      details.FacilityType,
		}

		sent, body := s.dispatcher.Send(ctx, enums.WebhookEventBookingStatusChange, s.webhook.BookingURL, payload, s.webhook.Secret)
		effects.WebhookSent = sent
		result.WebhookSent = sent
		if !sent {
			result.Message = msgUpdatedNotifyFail
		}

		errMsg := ""
		if !sent {
			errMsg = "webhook delivery failed"
		}
		if body != nil {
			effects.DeliveryLogged = s.delivery.Record(ctx, enums.WebhookEventBookingStatusChange, body, sent, errMsg)
		}
	}

	result.SideEffects = effects

	if failures != nil && s.logg != nil {
		s.logg.Warn(ctx, "booking approval side effects partially failed: "+failures.Error())
	}
	return result
}

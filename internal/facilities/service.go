package facilities

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

const replaceAttempts = 3

// Caller-facing result messages. The wording is part of the admin UI contract.
const (
	msgNoChanges         = "No changes were necessary"
	msgUpdated           = "Facility status updated"
	msgUpdatedNotified   = "Facility status updated and notification sent"
	msgUpdatedNotifyFail = "Facility status updated but failed to send notification"
	msgUpdatedNoSecret   = "Facility status updated but webhook not sent - missing secret"
)

// Service drives facility status transitions and their side effects.
type Service interface {
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*TransitionResult, error)
}

// UpdateStatusInput is the raw transition request. PreviousStatusHint is the
// caller's claim about the stored status; it is checked, never trusted.
type UpdateStatusInput struct {
	FacilityID         uuid.UUID
	NewStatus          string
	PreviousStatusHint string
}

// SideEffects reports what happened after the status write.
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
	CreateFacilityApproved(ctx context.Context, params notifications.FacilityApprovedParams) error
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
	notifier   notificationCreator
	dispatcher webhookSender
	delivery   deliveryRecorder
	webhook    config.WebhookConfig
	logg       *logger.Logger
}

// NewService wires the facility transition engine.
func NewService(
	repo Repository,
	notifier notificationCreator,
	dispatcher webhookSender,
	delivery deliveryRecorder,
	webhook config.WebhookConfig,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "facilities repository required")
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
		notifier:   notifier,
		dispatcher: dispatcher,
		delivery:   delivery,
		webhook:    webhook,
		logg:       logg,
	}, nil
}

// facilityStatusPayload is the outbound webhook body. Field names are the wire
// contract with the main application.
type facilityStatusPayload struct {
	FacilityID        string     `json:"facilityId"`
	Status            string     `json:"status"`
	PreviousStatus    string     `json:"previousStatus"`
	ServiceProviderID *uuid.UUID `json:"serviceProviderId"`
	FacilityName      string     `json:"facilityName"`
	FacilityType      string     `json:"facilityType"`
}

func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*TransitionResult, error) {
	newStatus, err := enums.ParseFacilityStatus(input.NewStatus)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid facility status")
	}

	if s.logg != nil {
		ctx = s.logg.WithEntityID(ctx, input.FacilityID.String())
	}

	var facility *models.Facility
	var previous enums.FacilityStatus
	for attempt := 0; ; attempt++ {
		facility, err = s.repo.FindByID(ctx, input.FacilityID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Facility not found")
		}
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load facility")
		}

		previous = facility.Status
		if attempt == 0 {
			s.checkHint(ctx, input.PreviousStatusHint, previous)
		}

		if previous == newStatus {
			return &TransitionResult{Message: msgNoChanges}, nil
		}

		now := time.Now().UTC()
		expectedVersion := facility.Version
		facility.Status = newStatus
		facility.UpdatedAt = &now
		facility.ProcessedAt = &now
		facility.Version = expectedVersion + 1

		replaced, err := s.repo.ReplaceIfVersion(ctx, facility, expectedVersion)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update facility status")
		}
		if replaced {
			break
		}
		if attempt+1 >= replaceAttempts {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "facility was modified concurrently")
		}
	}

	if !notificationWorthy(previous, newStatus) {
		return &TransitionResult{Message: msgUpdated}, nil
	}
	return s.runSideEffects(ctx, facility, previous), nil
}

// notificationWorthy recognizes the single transition that triggers side
// effects: a pending facility going active.
func notificationWorthy(previous, next enums.FacilityStatus) bool {
	return previous == enums.FacilityStatusPending && next == enums.FacilityStatusActive
}

func (s *service) checkHint(ctx context.Context, hint string, derived enums.FacilityStatus) {
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

func (s *service) runSideEffects(ctx context.Context, facility *models.Facility, previous enums.FacilityStatus) *TransitionResult {
	details := DetailsFor(facility)

	var effects SideEffects
	var failures error

	if err := s.notifier.CreateFacilityApproved(ctx, notifications.FacilityApprovedParams{
		FacilityID:        facility.ID,
		ServiceProviderID: facility.ServiceProviderID,
		FacilityName:      details.FacilityName,
		FacilityType:      details.FacilityType,
	}); err != nil {
		failures = multierr.Append(failures, err)
	} else {
		effects.NotificationCreated = true
	}

	result := &TransitionResult{Message: msgUpdatedNotified}

	if s.webhook.Secret == "" {
		s.dispatcher.Skip(ctx, enums.WebhookEventFacilityStatusChange)
		result.Message = msgUpdatedNoSecret
	} else {
		payload := facilityStatusPayload{
			FacilityID:        facility.ID.String(),
			Status:            string(facility.Status),
			PreviousStatus:    string(previous),
			ServiceProviderID: facility.ServiceProviderID,
			FacilityName:      details.FacilityName,
			FacilityType:      details.FacilityType,
		}

		sent, body := s.dispatcher.Send(ctx, enums.WebhookEventFacilityStatusChange, s.webhook.FacilityURL, payload, s.webhook.Secret)
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
			effects.DeliveryLogged = s.delivery.Record(ctx, enums.WebhookEventFacilityStatusChange, body, sent, errMsg)
		}
	}

	result.SideEffects = effects

	if failures != nil && s.logg != nil {
		s.logg.Warn(ctx, "facility activation side effects partially failed: "+failures.Error())
	}
	return result
}

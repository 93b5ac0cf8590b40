package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Marshal-AM/cumadmin/api/responses"
	"github.com/Marshal-AM/cumadmin/api/validators"
	"github.com/Marshal-AM/cumadmin/internal/bookings"
	pkgerrors "github.com/Marshal-AM/cumadmin/pkg/errors"
	"github.com/Marshal-AM/cumadmin/pkg/logger"
)

type updateBookingStatusRequest struct {
	BookingID      string `json:"bookingId" validate:"required"`
	Status         string `json:"status" validate:"required"`
	PreviousStatus string `json:"previousStatus"`
}

type updateStatusResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	WebhookSent bool   `json:"webhookSent"`
}

func UpdateBookingStatus(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req updateBookingStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		bookingID, err := uuid.Parse(req.BookingID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid booking id"))
			return
		}

		result, err := svc.UpdateStatus(ctx, bookings.UpdateStatusInput{
			BookingID:          bookingID,
			NewStatus:          req.Status,
			PreviousStatusHint: req.PreviousStatus,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, updateStatusResponse{
			Success:     true,
			Message:     result.Message,
			WebhookSent: result.WebhookSent,
		})
	}
}

package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Marshal-AM/cumadmin/api/responses"
	"github.com/Marshal-AM/cumadmin/api/validators"
	"github.com/Marshal-AM/cumadmin/internal/facilities"
	pkgerrors "github.com/Marshal-AM/cumadmin/pkg/errors"
	"github.com/Marshal-AM/cumadmin/pkg/logger"
)

type updateFacilityStatusRequest struct {
	FacilityID     string `json:"facilityId" validate:"required"`
	Status         string `json:"status" validate:"required"`
	PreviousStatus string `json:"previousStatus"`
}

func UpdateFacilityStatus(svc facilities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req updateFacilityStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		facilityID, err := uuid.Parse(req.FacilityID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid facility id"))
			return
		}

		result, err := svc.UpdateStatus(ctx, facilities.UpdateStatusInput{
			FacilityID:         facilityID,
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

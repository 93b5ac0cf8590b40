package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/Marshal-AM/cumadmin/internal/facilities"
	pkgerrors "github.com/Marshal-AM/cumadmin/pkg/errors"
	"github.com/Marshal-AM/cumadmin/pkg/types"
)

type fakeFacilityService struct {
	input  *facilities.UpdateStatusInput
	result *facilities.TransitionResult
	err    error
}

func (f *fakeFacilityService) UpdateStatus(_ context.Context, input facilities.UpdateStatusInput) (*facilities.TransitionResult, error) {
	f.input = &input
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func postFacilityJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/facilities/update-status", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

func TestUpdateFacilityStatusSuccess(t *testing.T) {
	facilityID := uuid.New()
	svc := &fakeFacilityService{
		result: &facilities.TransitionResult{Message: "Facility status updated and notification sent", WebhookSent: true},
	}
	handler := UpdateFacilityStatus(svc, nil)

	body := `{"facilityId":"` + facilityID.String() + `","status":"active","previousStatus":"pending"}`
	resp := postFacilityJSON(t, handler, body)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.input == nil || svc.input.FacilityID != facilityID || svc.input.NewStatus != "active" {
		t.Fatalf("unexpected service input %+v", svc.input)
	}

	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	data := envelope.Data.(map[string]any)
	if data["message"] != "Facility status updated and notification sent" {
		t.Fatalf("unexpected message %v", data["message"])
	}
	if data["webhookSent"] != true {
		t.Fatalf("unexpected webhookSent %v", data["webhookSent"])
	}
}

func TestUpdateFacilityStatusRejectsMissingFields(t *testing.T) {
	svc := &fakeFacilityService{}
	handler := UpdateFacilityStatus(svc, nil)

	resp := postFacilityJSON(t, handler, `{"facilityId":"`+uuid.NewString()+`"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.input != nil {
		t.Fatal("expected service to remain untouched")
	}
}

func TestUpdateFacilityStatusMapsNotFound(t *testing.T) {
	svc := &fakeFacilityService{err: pkgerrors.New(pkgerrors.CodeNotFound, "Facility not found")}
	handler := UpdateFacilityStatus(svc, nil)

	resp := postFacilityJSON(t, handler, `{"facilityId":"`+uuid.NewString()+`","status":"active"}`)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}

	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if envelope.Error.Message != "Facility not found" {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
}

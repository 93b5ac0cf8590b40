package webhooks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Marshal-AM/cumadmin/pkg/db/models"
	"github.com/Marshal-AM/cumadmin/pkg/enums"
)

type fakeDeliveryLogRepo struct {
	inserted []*models.WebhookDeliveryLog
	err      error
}

func (f *fakeDeliveryLogRepo) Insert(_ context.Context, entry *models.WebhookDeliveryLog) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, entry)
	return nil
}

func TestRecordSuccessOmitsErrorMessage(t *testing.T) {
	repo := &fakeDeliveryLogRepo{}
	log := NewDeliveryLog(repo, nil)

	payload := json.RawMessage(`{"bookingId":"B1"}`)
	if ok := log.Record(context.Background(), enums.WebhookEventBookingStatusChange, payload, true, ""); !ok {
		t.Fatal("expected record to succeed")
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.inserted))
	}
	entry := repo.inserted[0]
	if entry.EventType != enums.WebhookEventBookingStatusChange {
		t.Fatalf("unexpected event type %q", entry.EventType)
	}
	if !entry.Success {
		t.Fatal("expected success flag")
	}
	if entry.ErrorMessage != nil {
		t.Fatalf("expected no error message, got %q", *entry.ErrorMessage)
	}
	if string(entry.Payload) != string(payload) {
		t.Fatalf("payload mismatch: %s", entry.Payload)
	}
}

func TestRecordFailureKeepsErrorMessage(t *testing.T) {
	repo := &fakeDeliveryLogRepo{}
	log := NewDeliveryLog(repo, nil)

	log.Record(context.Background(), enums.WebhookEventFacilityStatusChange, json.RawMessage(`{}`), false, "receiver returned status 500")

	entry := repo.inserted[0]
	if entry.Success {
		t.Fatal("expected failure flag")
	}
	if entry.ErrorMessage == nil || *entry.ErrorMessage != "receiver returned status 500" {
		t.Fatalf("unexpected error message %v", entry.ErrorMessage)
	}
}

func TestRecordNeverFailsCaller(t *testing.T) {
	repo := &fakeDeliveryLogRepo{err: errors.New("connection refused")}
	log := NewDeliveryLog(repo, nil)

	if ok := log.Record(context.Background(), enums.WebhookEventBookingStatusChange, json.RawMessage(`{}`), true, ""); ok {
		t.Fatal("expected insert failure to be reported")
	}
}

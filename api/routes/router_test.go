package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/Marshal-AM/cumadmin/internal/bookings"
	"github.com/Marshal-AM/cumadmin/internal/facilities"
	"github.com/Marshal-AM/cumadmin/pkg/config"
)

type stubBookingService struct {
	calls int
}

func (s *stubBookingService) UpdateStatus(_ context.Context, _ bookings.UpdateStatusInput) (*bookings.TransitionResult, error) {
	s.calls++
	return &bookings.TransitionResult{Message: "Booking status updated"}, nil
}

type memoryStore struct {
	data map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string]string)}
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (m *memoryStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	str, _ := value.(string)
	m.data[key] = str
	return nil
}

func (m *memoryStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	m.data[key] = str
	return true, nil
}

func (m *memoryStore) IdempotencyKey(scope, id string) string {
	return "test:" + scope + ":" + id
}

func (m *memoryStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

type stubFacilityService struct{}

func (stubFacilityService) UpdateStatus(_ context.Context, _ facilities.UpdateStatusInput) (*facilities.TransitionResult, error) {
	return &facilities.TransitionResult{Message: "Facility status updated"}, nil
}

type stubPinger struct{}

func (stubPinger) Ping(_ context.Context) error { return nil }

func newTestRouter() http.Handler {
	return NewRouter(RouterParams{
		Config:          &config.Config{App: config.AppConfig{Env: "test"}},
		DBPinger:        stubPinger{},
		BookingService:  &stubBookingService{},
		FacilityService: stubFacilityService{},
		Gatherer:        prometheus.NewRegistry(),
	})
}

func TestRouterRoutes(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"health live", http.MethodGet, "/health/live", "", http.StatusOK},
		{"health ready", http.MethodGet, "/health/ready", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK},
		{"booking update", http.MethodPost, "/api/v1/bookings/update-status", `{"bookingId":"` + uuid.NewString() + `","status":"approved"}`, http.StatusOK},
		{"facility update", http.MethodPost, "/api/v1/facilities/update-status", `{"facilityId":"` + uuid.NewString() + `","status":"active"}`, http.StatusOK},
		{"unknown route", http.MethodGet, "/api/v1/bookings", "", http.StatusNotFound},
		{"wrong method", http.MethodGet, "/api/v1/bookings/update-status", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			if resp.Code != tt.want {
				t.Fatalf("expected %d got %d: %s", tt.want, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestRouterReplaysIdempotentBookingUpdate(t *testing.T) {
	svc := &stubBookingService{}
	store := newMemoryStore()
	router := NewRouter(RouterParams{
		Config:           &config.Config{App: config.AppConfig{Env: "test"}},
		DBPinger:         stubPinger{},
		IdempotencyStore: store,
		BookingService:   svc,
		FacilityService:  stubFacilityService{},
		Gatherer:         prometheus.NewRegistry(),
	})

	body := `{"bookingId":"` + uuid.NewString() + `","status":"approved"}`
	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/update-status", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", "replay-key-1")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		return resp
	}

	first := send()
	if first.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", first.Code, first.Body.String())
	}
	second := send()
	if second.Code != http.StatusOK {
		t.Fatalf("unexpected replay status %d: %s", second.Code, second.Body.String())
	}

	if svc.calls != 1 {
		t.Fatalf("expected a single service invocation, got %d", svc.calls)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("replayed body differs: %q vs %q", first.Body.String(), second.Body.String())
	}
	if len(store.data) == 0 {
		t.Fatal("expected a stored idempotency record")
	}

	conflicting := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/update-status",
		strings.NewReader(`{"bookingId":"`+uuid.NewString()+`","status":"approved"}`))
	conflicting.Header.Set("Content-Type", "application/json")
	conflicting.Header.Set("Idempotency-Key", "replay-key-1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, conflicting)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected conflict for reused key with new body, got %d", resp.Code)
	}
}

func TestRouterSetsRequestID(t *testing.T) {
	router := newTestRouter()

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if resp.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected generated request id header")
	}
}

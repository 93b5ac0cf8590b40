package webhooks

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Marshal-AM/cumadmin/pkg/enums"
	"github.com/Marshal-AM/cumadmin/pkg/logger"
	"github.com/Marshal-AM/cumadmin/pkg/metrics"
)

// SignatureHeader carries the hex-encoded HMAC-SHA256 of the request body so
// the receiver can verify the payload originated from a holder of the shared
// secret.
const SignatureHeader = "X-Webhook-Signature"

const defaultTimeout = 10 * time.Second

// Dispatcher performs single-attempt, best-effort delivery of signed webhooks.
// Delivery is fire-and-forget: every failure mode collapses into a false
// return so callers always get a definite answer and never an error.
type Dispatcher struct {
	httpClient *http.Client
	logg       *logger.Logger
	metrics    *metrics.WebhookMetrics
}

// NewDispatcher builds a dispatcher with the given transport timeout.
func NewDispatcher(timeout time.Duration, logg *logger.Logger, m *metrics.WebhookMetrics) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Dispatcher{
		httpClient: &http.Client{Timeout: timeout},
		logg:       logg,
		metrics:    m,
	}
}

// Send serializes payload, signs the body with HMAC-SHA256 over the shared
// secret and POSTs it to url exactly once. Returns true only for a 2xx
// response. The serialized body is also returned so callers can log the exact
// bytes that went over the wire.
func (d *Dispatcher) Send(ctx context.Context, event enums.WebhookEventType, url string, payload any, secret string) (bool, []byte) {
	body, err := json.Marshal(payload)
	if err != nil {
		d.fail(ctx, event, url, "failed to serialize webhook payload", err)
		return false, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		d.fail(ctx, event, url, "failed to build webhook request", err)
		return false, body
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, Sign(body, secret))

	start := time.Now()
	resp, err := d.httpClient.Do(req)
	if err != nil {
		d.fail(ctx, event, url, "webhook request failed", err)
		return false, body
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	d.metrics.ObserveDuration(string(event), time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		d.fail(ctx, event, url, "webhook rejected by receiver", fmt.Errorf("unexpected status %d", resp.StatusCode))
		return false, body
	}
	d.metrics.IncSuccess(string(event))
	return true, body
}

// Skip records a dispatch that never left the process because no signing
// secret is configured.
func (d *Dispatcher) Skip(ctx context.Context, event enums.WebhookEventType) {
	d.metrics.IncSkipped(string(event))
	if d.logg != nil {
		ctx = d.logg.WithEventType(ctx, string(event))
		d.logg.Warn(ctx, "webhook secret is not configured, dispatch skipped")
	}
}

// Sign computes the hex-encoded HMAC-SHA256 of body under secret.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func (d *Dispatcher) fail(ctx context.Context, event enums.WebhookEventType, url, msg string, err error) {
	d.metrics.IncFailure(string(event))
	if d.logg == nil {
		return
	}
	ctx = d.logg.WithFields(ctx, map[string]any{
		"event_type":  string(event),
		"webhook_url": url,
	})
	d.logg.Error(ctx, msg, err)
}

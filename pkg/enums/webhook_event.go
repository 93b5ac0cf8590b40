package enums

// WebhookEventType tags outbound webhook events in the delivery log.
type WebhookEventType string

const (
	WebhookEventBookingStatusChange  WebhookEventType = "booking-status-change"
	WebhookEventFacilityStatusChange WebhookEventType = "facility-status-change"
)

var validWebhookEventTypes = []WebhookEventType{
	WebhookEventBookingStatusChange,
	WebhookEventFacilityStatusChange,
}

// IsValid reports whether the value matches the canonical event tags.
func (e WebhookEventType) IsValid() bool {
	for _, candidate := range validWebhookEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

package enums

import "fmt"

// NotificationType tags in-app notification records.
type NotificationType string

const (
	NotificationTypeBookingApproved  NotificationType = "booking-approved"
	NotificationTypeFacilityApproved NotificationType = "facility-approved"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeBookingApproved,
	NotificationTypeFacilityApproved,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}

// RelatedType tags what entity a notification points back to.
type RelatedType string

const (
	RelatedTypeBooking  RelatedType = "booking"
	RelatedTypeFacility RelatedType = "facility"
)

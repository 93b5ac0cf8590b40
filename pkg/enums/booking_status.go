package enums

import (
	"fmt"
	"strings"
)

// BookingStatus maps to the status field on booking documents.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusApproved  BookingStatus = "approved"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

var validBookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusApproved,
	BookingStatusRejected,
	BookingStatusCancelled,
	BookingStatusCompleted,
}

// IsValid checks whether the given status matches the canonical enum.
func (s BookingStatus) IsValid() bool {
	for _, candidate := range validBookingStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseBookingStatus converts raw strings into BookingStatus. Matching is
// case-insensitive because status values arrive from admin UI payloads.
func ParseBookingStatus(value string) (BookingStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validBookingStatuses {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid booking status %q", value)
}

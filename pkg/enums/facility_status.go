package enums

import (
	"fmt"
	"strings"
)

// FacilityStatus maps to the status field on facility documents.
type FacilityStatus string

const (
	FacilityStatusPending  FacilityStatus = "pending"
	FacilityStatusActive   FacilityStatus = "active"
	FacilityStatusRejected FacilityStatus = "rejected"
)

var validFacilityStatuses = []FacilityStatus{
	FacilityStatusPending,
	FacilityStatusActive,
	FacilityStatusRejected,
}

// IsValid checks whether the given status matches the canonical enum.
func (s FacilityStatus) IsValid() bool {
	for _, candidate := range validFacilityStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseFacilityStatus converts raw strings into FacilityStatus.
func ParseFacilityStatus(value string) (FacilityStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validFacilityStatuses {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid facility status %q", value)
}

package enums

import (
	"strings"
	"time"
)

// RentalPlan is the booking rental cadence as stored on booking documents.
// Plans are free text in the source data; only the enumerated set below has a
// known duration.
type RentalPlan string

const (
	RentalPlanAnnual  RentalPlan = "Annual"
	RentalPlanMonthly RentalPlan = "Monthly"
	RentalPlanWeekly  RentalPlan = "Weekly"
)

// EndDateFrom derives a booking end date from its start date. Unrecognized plan
// names have no duration; the second return value reports whether one applied.
// Any plan name containing "Day" counts as a single-day rental.
func (p RentalPlan) EndDateFrom(start time.Time) (time.Time, bool) {
	switch p {
	case RentalPlanAnnual:
		return start.AddDate(1, 0, 0), true
	case RentalPlanMonthly:
		return start.AddDate(0, 1, 0), true
	case RentalPlanWeekly:
		return start.AddDate(0, 0, 7), true
	}
	if strings.Contains(string(p), "Day") {
		return start.AddDate(0, 0, 1), true
	}
	return time.Time{}, false
}

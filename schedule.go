package scheduler

import (
	"fmt"
	"time"
)

const (
	// DD-MM-YYYY. time.Parse requires both digits of the zero-padded day and month and all four year digits.
	dateLayout = "02-01-2006"
	// Zoom reads a start time without an offset as local to the request's timezone field.
	wireLayout = "2006-01-02T15:04:05"
)

// Schedule is a validated meeting start in its timezone.
type Schedule struct {
	Start    time.Time
	Timezone string
}

// WireStart formats the start as the local wall-clock time Zoom expects alongside the timezone.
func (s Schedule) WireStart() string {
	return s.Start.Format(wireLayout)
}

// NormalizeSchedule parses a DD-MM-YYYY date and an HH:mm time in the named zone and checks the result is after now.
func NormalizeSchedule(date, clock, tzName string, now time.Time) (Schedule, error) {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return Schedule{}, &ValidationError{
			Field:   "MEETING_DATE",
			Message: fmt.Sprintf("%q does not match the format DD-MM-YYYY (example: 16-05-2025)", date),
		}
	}

	if tzName == "" {
		tzName = DefaultTimezone
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return Schedule{}, &ValidationError{
			Field:   "MEETING_TIMEZONE",
			Message: fmt.Sprintf("unknown timezone %q", tzName),
		}
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", d.Format("2006-01-02")+" "+clock, loc)
	if err != nil {
		return Schedule{}, &ValidationError{
			Field:   "MEETING_TIME",
			Message: fmt.Sprintf("invalid meeting time format %q, expected HH:mm (example: 14:30)", clock),
		}
	}

	if !start.After(now) {
		return Schedule{}, &ValidationError{
			Field:   "MEETING_TIME",
			Message: fmt.Sprintf("meeting time must be in the future, got %s", start.Format(time.RFC1123)),
		}
	}

	return Schedule{Start: start, Timezone: tzName}, nil
}

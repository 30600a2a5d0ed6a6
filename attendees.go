package scheduler

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// ParseAttendees splits a comma separated list of emails, dropping blanks.
// Order is kept and duplicates are allowed. Any malformed address fails the whole list.
func ParseAttendees(raw string) ([]string, error) {
	emails := lo.Compact(lo.Map(strings.Split(raw, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))

	invalid := lo.Filter(emails, func(email string, _ int) bool {
		return validate.Var(email, "email") != nil
	})
	if len(invalid) > 0 {
		return nil, &ValidationError{
			Field:   "MEETING_ATTENDEES",
			Message: fmt.Sprintf("invalid email address(es): %s", strings.Join(invalid, ", ")),
		}
	}
	return emails, nil
}

// firstName derives a registrant first name from the local-part of an email.
func firstName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

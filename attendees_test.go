package scheduler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAttendees(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", []string{}},
		{"only separators", " , ,", []string{}},
		{"trims and keeps order", " b@example.com,a@example.com ", []string{"b@example.com", "a@example.com"}},
		{"drops blanks", "a@example.com,,b@example.com,", []string{"a@example.com", "b@example.com"}},
		{"keeps duplicates", "a@example.com,a@example.com", []string{"a@example.com", "a@example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAttendees(tt.raw)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	t.Run("rejects malformed addresses", func(t *testing.T) {
		_, err := ParseAttendees("a@example.com, not-an-email, also bad")

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Equal(t, "MEETING_ATTENDEES", vErr.Field)
		require.Contains(t, vErr.Message, "not-an-email, also bad")
	})
}

func TestFirstName(t *testing.T) {
	assertEqual(t, firstName("ada.lovelace@example.com"), "ada.lovelace")
	assertEqual(t, firstName("no-at-sign"), "no-at-sign")
}

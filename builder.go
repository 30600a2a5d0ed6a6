package scheduler

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/operationspark/meeting-scheduler/zoom/meeting"
)

// defaultSettings are the meeting settings used unless a settings file overrides them.
// Registration is switched on only when there are attendees to register.
func defaultSettings(hasAttendees bool) meeting.Settings {
	s := meeting.Settings{
		HostVideo:        true,
		ParticipantVideo: true,
		JoinBeforeHost:   true,
		MuteUponEntry:    false,
		WaitingRoom:      false,
		ApprovalType:     meeting.ApprovalNoRegistration,
	}
	if hasAttendees {
		s.ApprovalType = meeting.ApprovalAutomatic
		s.RegistrationType = 1
		s.RegistrantsConfirmationEmail = true
		s.RegistrantsEmailNotification = true
	}
	return s
}

// loadSettings applies a TOML settings file on top of the defaults. Keys missing from the file keep their default.
func loadSettings(path string, hasAttendees bool) (meeting.Settings, error) {
	s := defaultSettings(hasAttendees)
	if path == "" {
		return s, nil
	}
	md, err := toml.DecodeFile(path, &s)
	if err != nil {
		return s, &ValidationError{Field: "MEETING_SETTINGS_FILE", Message: err.Error()}
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return s, &ValidationError{
			Field:   "MEETING_SETTINGS_FILE",
			Message: "unknown settings: " + strings.Join(keys, ", "),
		}
	}
	return s, nil
}

func buildMeetingRequest(c Config, sched Schedule, attendees []string, settings meeting.Settings) meeting.CreateRequest {
	agenda := c.Agenda
	if len(attendees) > 0 {
		line := fmt.Sprintf("Attendees: %s", strings.Join(attendees, ", "))
		if agenda == "" {
			agenda = line
		} else {
			agenda = agenda + "\n\n" + line
		}
	}

	return meeting.CreateRequest{
		Topic:     c.Topic,
		Type:      meeting.TypeScheduled,
		StartTime: sched.WireStart(),
		Duration:  c.Duration,
		Timezone:  sched.Timezone,
		Agenda:    agenda,
		Settings:  settings,
	}
}

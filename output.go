package scheduler

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/operationspark/meeting-scheduler/zoom/meeting"
)

// Result is what the pipeline needs to know about the created meeting.
type Result struct {
	MeetingID int64     `json:"meetingId"`
	JoinURL   string    `json:"meetingUrl"`
	Password  string    `json:"password,omitempty"`
	Start     time.Time `json:"startTime"`
	Timezone  string    `json:"timezone"`
	// Invitation text, when it was fetched for calendar invites.
	Invitation string `json:"-"`
}

func newResult(m meeting.Meeting, sched Schedule) Result {
	return Result{
		MeetingID: m.ID,
		JoinURL:   m.JoinURL,
		Password:  m.Password,
		Start:     sched.Start,
		Timezone:  sched.Timezone,
	}
}

// writeResult writes the step outputs as key=value lines, meeting_url first.
func writeResult(w io.Writer, r Result) error {
	_, err := fmt.Fprintf(w, "meeting_url=%s\nmeeting_id=%s\n", r.JoinURL, strconv.FormatInt(r.MeetingID, 10))
	return err
}

// EmitResult appends the step outputs to the file at path, or writes them to stdout when path is empty.
func EmitResult(path string, r Result) error {
	if path == "" {
		return writeResult(os.Stdout, r)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	if err := writeResult(f, r); err != nil {
		f.Close()
		return fmt.Errorf("write output file: %w", err)
	}
	return f.Close()
}

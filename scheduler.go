// Package scheduler creates a scheduled Zoom meeting, invites its attendees, and reports the join URL
// to the calling CI pipeline.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/operationspark/meeting-scheduler/zoom/meeting"
)

type (
	// notifier announces a created meeting on a side channel. Notifier failures do not fail the run.
	notifier interface {
		run(context.Context, Result) error
		name() string
	}

	Scheduler struct {
		cfg       Config
		zoom      *zoomService
		attendees []string
		notifiers []notifier
		now       func() time.Time
		logger    *slog.Logger
	}

	Options struct {
		// HTTP client for Zoom requests. Default: a client with a 30 second timeout.
		Client *http.Client
		Logger *slog.Logger
		// Clock used for the "in the future" check. Default: time.Now.
		Now func() time.Time
	}
)

// NewScheduler wires the Zoom client and the optional notifiers for c.
func NewScheduler(c Config, o Options) (*Scheduler, error) {
	if c.Scheme == "" {
		c.Scheme = c.DetectScheme()
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	client := o.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	now := o.Now
	if now == nil {
		now = time.Now
	}

	attendees, err := ParseAttendees(c.Attendees)
	if err != nil {
		return nil, err
	}

	var notifiers []notifier
	if c.SlackWebhookURL != "" {
		notifiers = append(notifiers, NewSlackService(c.SlackWebhookURL))
	}
	if c.MailDomain != "" && c.MailgunAPIKey != "" {
		notifiers = append(notifiers, NewMailgunService(c.MailDomain, c.MailgunAPIKey, "", attendees, c.AppEnv == "staging"))
	}

	return &Scheduler{
		cfg: c,
		zoom: NewZoomService(ZoomOptions{
			BaseAPIOverride: c.apiBase(),
			Client:          client,
			Tokens:          newTokenProvider(c, client),
			Logger:          logger,
		}),
		attendees: attendees,
		notifiers: notifiers,
		now:       now,
		logger:    logger,
	}, nil
}

// Plan validates the configuration and builds the meeting request without calling Zoom.
func (s *Scheduler) Plan() (meeting.CreateRequest, Schedule, []string, error) {
	if err := s.cfg.Validate(); err != nil {
		return meeting.CreateRequest{}, Schedule{}, nil, err
	}

	attendees := s.attendees
	sched, err := NormalizeSchedule(s.cfg.Date, s.cfg.Time, s.cfg.Timezone, s.now())
	if err != nil {
		return meeting.CreateRequest{}, Schedule{}, nil, err
	}

	settings, err := loadSettings(s.cfg.SettingsFile, len(attendees) > 0)
	if err != nil {
		return meeting.CreateRequest{}, Schedule{}, nil, err
	}

	return buildMeetingRequest(s.cfg, sched, attendees, settings), sched, attendees, nil
}

// Schedule runs the whole flow: validate, authenticate, resolve the host, create the meeting, and invite attendees.
// A failed invitation leaves the created meeting in place.
func (s *Scheduler) Schedule(ctx context.Context) (Result, error) {
	s.cfg.LogDiagnostics(s.logger)
	req, sched, attendees, err := s.Plan()
	if err != nil {
		return Result{}, err
	}

	if err := s.zoom.authenticate(ctx); err != nil {
		return Result{}, fmt.Errorf("authenticate: %w", err)
	}

	userID := s.cfg.UserID
	if userID == "" {
		userID, err = s.zoom.resolveUserID(ctx, s.cfg.UserEmail)
		if err != nil {
			return Result{}, fmt.Errorf("resolve user: %w", err)
		}
	}

	m, err := s.zoom.createMeeting(ctx, userID, req)
	if err != nil {
		return Result{}, err
	}
	result := newResult(m, sched)

	s.logger.InfoContext(ctx, "meeting created",
		slog.String("joinUrl", m.JoinURL),
		slog.Int64("meetingId", m.ID),
		slog.String("password", m.Password),
		slog.String("startTime", sched.Start.Format(time.RFC1123)),
	)

	hostEmail := s.cfg.UserEmail
	if hostEmail == "" {
		hostEmail = m.HostEmail
	}
	result.Invitation, err = s.zoom.inviteAttendees(ctx, s.cfg.InviteMode, m, hostEmail, attendees)
	if err != nil {
		return result, fmt.Errorf("invite attendees to meeting %d: %w", m.ID, err)
	}

	return result, nil
}

// Notify runs every configured notifier. Failures are logged and skipped.
func (s *Scheduler) Notify(ctx context.Context, r Result) {
	for _, n := range s.notifiers {
		if err := n.run(ctx, r); err != nil {
			s.logger.ErrorContext(ctx, "notification failed",
				slog.String("notifier", n.name()),
				slog.String("error", err.Error()),
			)
		}
	}
}

package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/operationspark/meeting-scheduler/zoom/meeting"
	"github.com/stretchr/testify/require"
)

// mockZoom is a fake Zoom API serving the token, user, meeting and registrant endpoints.
type mockZoom struct {
	t   *testing.T
	srv *httptest.Server

	mu         sync.Mutex
	requests   []string
	created    meeting.CreateRequest
	registered []string
	// Status returned by the registrant endpoint. Default: 201.
	registrantStatus int
}

func newMockZoom(t *testing.T) *mockZoom {
	mz := &mockZoom{t: t, registrantStatus: http.StatusCreated}
	mz.srv = httptest.NewServer(http.HandlerFunc(mz.handle))
	t.Cleanup(mz.srv.Close)
	return mz
}

func (mz *mockZoom) handle(w http.ResponseWriter, r *http.Request) {
	t := mz.t
	mz.mu.Lock()
	mz.requests = append(mz.requests, r.Method+" "+r.URL.Path)
	mz.mu.Unlock()

	switch {
	case r.URL.Path == "/oauth/token":
		writeJSON(t, w, tokenResponse{AccessToken: fakeAccessToken, TokenType: "bearer", ExpiresIn: 3599})

	case r.URL.Path == "/v2/users/host@example.com":
		writeJSON(t, w, meeting.User{ID: "KDcuGIm1QgePTO8WbOqwIQ", Email: "host@example.com"})

	case strings.HasSuffix(r.URL.Path, "/meetings") && r.Method == http.MethodPost:
		require.Equal(t, "Bearer "+fakeAccessToken, r.Header.Get("Authorization"))
		mz.mu.Lock()
		err := json.NewDecoder(r.Body).Decode(&mz.created)
		mz.mu.Unlock()
		require.NoError(t, err)
		w.WriteHeader(http.StatusCreated)
		writeJSON(t, w, meeting.Meeting{
			ID:        85746065432,
			HostEmail: "host@example.com",
			JoinURL:   "https://us06web.zoom.us/j/85746065432?pwd=abc",
			Password:  "123456",
		})

	case r.URL.Path == "/v2/meetings/85746065432/registrants":
		var body meeting.RegistrantRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		mz.mu.Lock()
		mz.registered = append(mz.registered, body.Email)
		status := mz.registrantStatus
		mz.mu.Unlock()
		if status >= 300 {
			JSONError(w, meeting.ErrorResponse{Code: 3001, Message: "Meeting does not exist."}, status)
			return
		}
		w.WriteHeader(status)
		writeJSON(t, w, meeting.RegistrationResponse{RegistrantID: "r-" + body.Email})

	default:
		t.Errorf("unexpected request: %s %s", r.Method, r.URL)
		w.WriteHeader(http.StatusNotFound)
	}
}

func (mz *mockZoom) config() Config {
	c := validOAuthConfig()
	c.AccountID = fakeAccountID
	c.ClientID = fakeClientID
	c.ClientSecret = fakeClientSecret
	c.APIBase = mz.srv.URL + "/v2"
	c.OAuthBase = mz.srv.URL + "/oauth"
	return c
}

func newTestScheduler(t *testing.T, c Config, logs *bytes.Buffer) *Scheduler {
	t.Helper()
	s, err := NewScheduler(c, Options{
		Logger: NewLogger(logs, "debug", false),
		Now:    func() time.Time { return time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return s
}

func TestSchedule(t *testing.T) {
	t.Run("creates the meeting and registers the attendees", func(t *testing.T) {
		mz := newMockZoom(t)
		c := mz.config()
		c.Attendees = "ada@example.com, grace@example.com"

		var logs bytes.Buffer
		got, err := newTestScheduler(t, c, &logs).Schedule(context.Background())
		require.NoError(t, err)

		require.Equal(t, int64(85746065432), got.MeetingID)
		require.Equal(t, "https://us06web.zoom.us/j/85746065432?pwd=abc", got.JoinURL)
		require.Equal(t, "Europe/London", got.Timezone)

		require.Equal(t, []string{
			"POST /oauth/token",
			"GET /v2/users/host@example.com",
			"POST /v2/users/KDcuGIm1QgePTO8WbOqwIQ/meetings",
		}, mz.requests[:3])
		require.ElementsMatch(t, []string{"ada@example.com", "grace@example.com"}, mz.registered)

		require.Equal(t, "2025-05-16T14:30:00", mz.created.StartTime)
		require.Equal(t, meeting.ApprovalAutomatic, mz.created.Settings.ApprovalType)

		require.Contains(t, logs.String(), "meeting created")
		require.NotContains(t, logs.String(), fakeClientSecret)
	})

	t.Run("needs no registrant calls without attendees", func(t *testing.T) {
		mz := newMockZoom(t)

		_, err := newTestScheduler(t, mz.config(), &bytes.Buffer{}).Schedule(context.Background())
		require.NoError(t, err)

		require.Len(t, mz.requests, 3)
		require.Empty(t, mz.registered)
		require.Equal(t, meeting.ApprovalNoRegistration, mz.created.Settings.ApprovalType)
	})

	t.Run("skips the user lookup when the user ID is set", func(t *testing.T) {
		mz := newMockZoom(t)
		c := mz.config()
		c.UserEmail = ""
		c.UserID = "preset-user"

		_, err := newTestScheduler(t, c, &bytes.Buffer{}).Schedule(context.Background())
		require.NoError(t, err)

		require.Equal(t, []string{
			"POST /oauth/token",
			"POST /v2/users/preset-user/meetings",
		}, mz.requests)
	})

	t.Run("rejects a past start before calling Zoom", func(t *testing.T) {
		mz := newMockZoom(t)
		c := mz.config()
		c.Date = "01-01-2020"

		_, err := newTestScheduler(t, c, &bytes.Buffer{}).Schedule(context.Background())

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Equal(t, "MEETING_TIME", vErr.Field)
		require.Empty(t, mz.requests)
	})

	t.Run("reports missing configuration before calling Zoom", func(t *testing.T) {
		mz := newMockZoom(t)
		c := mz.config()
		c.ClientSecret = ""
		c.Topic = ""

		_, err := newTestScheduler(t, c, &bytes.Buffer{}).Schedule(context.Background())

		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		require.ElementsMatch(t, []string{"ZOOM_CLIENT_SECRET", "MEETING_TOPIC"}, cfgErr.Missing)
		require.Empty(t, mz.requests)
	})

	t.Run("keeps the meeting when an attendee cannot be registered", func(t *testing.T) {
		mz := newMockZoom(t)
		mz.registrantStatus = http.StatusNotFound
		c := mz.config()
		c.Attendees = "ada@example.com"

		got, err := newTestScheduler(t, c, &bytes.Buffer{}).Schedule(context.Background())

		var pErr *ProviderError
		require.True(t, errors.As(err, &pErr))
		require.Contains(t, err.Error(), "invite attendees to meeting 85746065432")
		require.Equal(t, int64(85746065432), got.MeetingID)
	})
}

func TestNewScheduler(t *testing.T) {
	t.Run("rejects malformed attendees", func(t *testing.T) {
		c := validOAuthConfig()
		c.Attendees = "ada@example.com, ada"

		_, err := NewScheduler(c, Options{})

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Equal(t, "MEETING_ATTENDEES", vErr.Field)
	})

	t.Run("adds the configured notifiers", func(t *testing.T) {
		c := validOAuthConfig()
		c.SlackWebhookURL = "https://hooks.slack.com/services/T000/B000/XXXX"
		c.MailDomain = "mail.example.com"
		c.MailgunAPIKey = "key"

		s, err := NewScheduler(c, Options{})
		require.NoError(t, err)
		require.Len(t, s.notifiers, 2)
		require.Equal(t, "slack service", s.notifiers[0].name())
		require.Equal(t, "mailgun service", s.notifiers[1].name())
	})
}

func TestPlan(t *testing.T) {
	c := validOAuthConfig()
	c.Attendees = "ada@example.com"

	req, sched, attendees, err := newTestScheduler(t, c, &bytes.Buffer{}).Plan()
	require.NoError(t, err)

	require.Equal(t, "Weekly sync", req.Topic)
	require.Equal(t, meeting.TypeScheduled, req.Type)
	require.Equal(t, "2025-05-16T14:30:00", req.StartTime)
	require.Equal(t, "Europe/London", sched.Timezone)
	require.Equal(t, []string{"ada@example.com"}, attendees)
}

type stubNotifier struct {
	label string
	err   error
	calls int
}

func (s *stubNotifier) run(context.Context, Result) error {
	s.calls++
	return s.err
}

func (s *stubNotifier) name() string { return s.label }

func TestNotify(t *testing.T) {
	var logs bytes.Buffer
	s := newTestScheduler(t, validOAuthConfig(), &logs)
	failing := &stubNotifier{label: "failing", err: errors.New("webhook down")}
	ok := &stubNotifier{label: "ok"}
	s.notifiers = []notifier{failing, ok}

	s.Notify(context.Background(), testResult(t))

	require.Equal(t, 1, failing.calls)
	require.Equal(t, 1, ok.calls)
	require.Contains(t, logs.String(), "notifier=failing")
	require.Contains(t, logs.String(), "webhook down")
}

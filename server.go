package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"

	"github.com/gorilla/schema"
	"github.com/operationspark/meeting-scheduler/signing"
)

const maxRequestBody = 1 << 20

type (
	// scheduleRequest holds the meeting fields a trigger request may override.
	scheduleRequest struct {
		Topic     string `json:"topic" schema:"topic"`
		Date      string `json:"date" schema:"date"`
		Time      string `json:"time" schema:"time"`
		Duration  int    `json:"duration" schema:"duration"`
		Timezone  string `json:"timezone" schema:"timezone"`
		Agenda    string `json:"agenda" schema:"agenda"`
		Attendees string `json:"attendees" schema:"attendees"`
	}

	scheduleResponse struct {
		MeetingURL string `json:"meetingUrl"`
		MeetingID  int64  `json:"meetingId"`
	}

	errResp struct {
		Message string `json:"message"`
		Field   string `json:"field,omitempty"`
	}

	// scheduleRunner runs one meeting schedule for a request's config.
	scheduleRunner func(ctx context.Context, c Config) (Result, error)

	triggerServer struct {
		base          Config
		signingSecret []byte
		run           scheduleRunner
		logger        *slog.Logger
	}
)

// NewTriggerServer returns an HTTP handler that schedules a meeting per POST request.
// Request fields override the matching fields of base. With a signing secret, requests must carry
// an "X-Signature: sha256=<hex hmac of body>" header.
func NewTriggerServer(base Config, signingSecret string, o Options) http.Handler {
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &triggerServer{
		base:          base,
		signingSecret: []byte(signingSecret),
		logger:        logger,
		run: func(ctx context.Context, c Config) (Result, error) {
			s, err := NewScheduler(c, o)
			if err != nil {
				return Result{}, err
			}
			r, err := s.Schedule(ctx)
			if err != nil {
				return r, err
			}
			s.Notify(ctx, r)
			return r, nil
		},
	}
}

func (ts *triggerServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		http.Error(w, "Error reading request body", http.StatusBadRequest)
		return
	}

	if len(ts.signingSecret) > 0 {
		if err := signing.Verify(body, ts.signingSecret, r.Header.Get("X-Signature")); err != nil {
			ts.logger.WarnContext(r.Context(), "rejected unsigned trigger request", slog.String("error", err.Error()))
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
	}

	var req scheduleRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		err = json.Unmarshal(body, &req)
	case "application/x-www-form-urlencoded":
		err = handleForm(&req, body)
	default:
		http.Error(w, "Unacceptable Content-Type", http.StatusUnsupportedMediaType)
		return
	}
	if err != nil {
		ts.writeJSON(w, http.StatusBadRequest, errResp{Message: err.Error()})
		return
	}

	result, err := ts.run(r.Context(), req.apply(ts.base))
	if err != nil {
		ts.logger.ErrorContext(r.Context(), "schedule meeting", slog.String("error", err.Error()))
		CaptureError(err)
		status, resp := errorStatus(err)
		ts.writeJSON(w, status, resp)
		return
	}

	ts.writeJSON(w, http.StatusCreated, scheduleResponse{
		MeetingURL: result.JoinURL,
		MeetingID:  result.MeetingID,
	})
}

// handleForm decodes a URL encoded form body into req.
func handleForm(req *scheduleRequest, body []byte) error {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return fmt.Errorf("parse form: %w", err)
	}
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return decoder.Decode(req, values)
}

// apply overrides the non-empty request fields on c.
func (req scheduleRequest) apply(c Config) Config {
	if req.Topic != "" {
		c.Topic = req.Topic
	}
	if req.Date != "" {
		c.Date = req.Date
	}
	if req.Time != "" {
		c.Time = req.Time
	}
	if req.Duration != 0 {
		c.Duration = req.Duration
	}
	if req.Timezone != "" {
		c.Timezone = req.Timezone
	}
	if req.Agenda != "" {
		c.Agenda = req.Agenda
	}
	if req.Attendees != "" {
		c.Attendees = req.Attendees
	}
	return c
}

// errorStatus maps a scheduling error to an HTTP status and a client-safe body.
func errorStatus(err error) (int, errResp) {
	var (
		cfgErr      *ConfigurationError
		validErr    *ValidationError
		notFoundErr *NotFoundError
		authErr     *AuthenticationError
		providerErr *ProviderError
	)
	switch {
	case errors.As(err, &validErr):
		return http.StatusBadRequest, errResp{Message: validErr.Message, Field: validErr.Field}
	case errors.As(err, &cfgErr):
		return http.StatusBadRequest, errResp{Message: cfgErr.Error()}
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound, errResp{Message: fmt.Sprintf("no Zoom user found for %q", notFoundErr.Email)}
	case errors.As(err, &authErr):
		return http.StatusBadGateway, errResp{Message: "could not authenticate with Zoom"}
	case errors.As(err, &providerErr):
		return http.StatusBadGateway, errResp{Message: fmt.Sprintf("zoom API error: %s", providerErr.Status)}
	}
	return http.StatusInternalServerError, errResp{Message: "problem scheduling meeting"}
}

func (ts *triggerServer) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		ts.logger.Error("problem marshalling response", slog.String("error", err.Error()))
	}
}

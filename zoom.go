package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/operationspark/meeting-scheduler/zoom/meeting"
	"github.com/samber/lo"
	"golang.org/x/oauth2"
)

// Zoom returns at most 300 users per page.
const userListPageSize = 300

type (
	zoomService struct {
		// Base API endpoint. Default: "https://api.zoom.us/v2"
		baseURL string
		// HTTP client for unauthenticated requests (token exchange).
		client *http.Client
		// HTTP client that adds the bearer token. Set by authenticate.
		api    *http.Client
		tokens tokenProvider
		logger *slog.Logger
	}

	ZoomOptions struct {
		// Overrides Zoom API base URL for testing. Default: "https://api.zoom.us/v2"
		BaseAPIOverride string
		Client          *http.Client
		Tokens          tokenProvider
		Logger          *slog.Logger
	}
)

func NewZoomService(o ZoomOptions) *zoomService {
	apiURL := defaultAPIBase
	if len(o.BaseAPIOverride) > 0 {
		apiURL = o.BaseAPIOverride
	}
	client := o.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &zoomService{
		baseURL: apiURL,
		client:  client,
		tokens:  o.Tokens,
		logger:  logger,
	}
}

// Authenticate fetches a bearer token and builds the client used for every API call.
func (z *zoomService) authenticate(ctx context.Context) error {
	token, err := z.tokens.authenticate(ctx)
	if err != nil {
		return err
	}
	base := context.WithValue(ctx, oauth2.HTTPClient, z.client)
	z.api = oauth2.NewClient(base, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
	z.api.Timeout = z.client.Timeout
	return nil
}

// do sends a JSON request to the Zoom API and decodes a JSON response into out, when out is non-nil.
func (z *zoomService) do(ctx context.Context, method, path string, in, out any) error {
	if z.api == nil {
		return errors.New("zoom client is not authenticated")
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshall: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, z.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("newRequestWithContext: %w", err)
	}
	req.Header.Add("Accept", "application/json")
	if in != nil {
		req.Header.Add("Content-Type", "application/json")
	}

	resp, err := z.api.Do(req)
	if err != nil {
		return fmt.Errorf("client.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return HandleHTTPError(resp)
	}
	if out == nil {
		return nil
	}

	d := json.NewDecoder(resp.Body)
	if err := d.Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// ResolveUserID maps the host's email to a Zoom user ID.
// A "user does not exist" answer falls back to searching the first page of active users.
func (z *zoomService) resolveUserID(ctx context.Context, email string) (string, error) {
	var user meeting.User
	err := z.do(ctx, http.MethodGet, "/users/"+url.PathEscape(email), nil, &user)
	if err == nil {
		return user.ID, nil
	}

	var pErr *ProviderError
	if !errors.As(err, &pErr) || !pErr.HasCode(meeting.ErrCodeUserNotExist) {
		return "", fmt.Errorf("get user: %w", err)
	}

	z.logger.WarnContext(ctx, "user lookup by email failed, searching active users", slog.String("email", email))

	var list meeting.UserList
	path := fmt.Sprintf("/users?status=active&page_size=%d", userListPageSize)
	if err := z.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return "", fmt.Errorf("list users: %w", err)
	}

	match, ok := lo.Find(list.Users, func(u meeting.User) bool {
		return strings.EqualFold(u.Email, email)
	})
	if !ok {
		return "", &NotFoundError{
			Email: email,
			Searched: lo.Map(list.Users, func(u meeting.User, _ int) string {
				return u.Email
			}),
		}
	}
	return match.ID, nil
}

// CreateMeeting schedules the meeting for the given user.
func (z *zoomService) createMeeting(ctx context.Context, userID string, req meeting.CreateRequest) (meeting.Meeting, error) {
	var m meeting.Meeting
	path := fmt.Sprintf("/users/%s/meetings", url.PathEscape(userID))
	if err := z.do(ctx, http.MethodPost, path, req, &m); err != nil {
		return meeting.Meeting{}, fmt.Errorf("create meeting: %w", err)
	}
	return m, nil
}

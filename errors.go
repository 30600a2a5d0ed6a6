package scheduler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/operationspark/meeting-scheduler/zoom/meeting"
)

type (
	// ConfigurationError reports every missing or invalid setting found in a single pass.
	ConfigurationError struct {
		Missing []string
		Invalid []string
	}

	AuthenticationError struct {
		Reason string
		Err    error
	}

	ValidationError struct {
		Field   string
		Message string
	}

	// NotFoundError is returned when no Zoom user matches the configured email.
	// Searched holds every email seen in the active-user listing.
	NotFoundError struct {
		Email    string
		Searched []string
	}

	// ProviderError is a non-2xx response from the Zoom API.
	ProviderError struct {
		Method     string
		URL        string
		Status     string
		StatusCode int
		// Zoom error code and message, when the body is a structured error.
		Code    int
		Message string
		Body    string
	}
)

func (e *ConfigurationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required configuration: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid configuration: "+strings.Join(e.Invalid, ", "))
	}
	return strings.Join(parts, "; ")
}

func (e *AuthenticationError) Error() string {
	if e.Err == nil {
		return "authentication failed: " + e.Reason
	}
	return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Err)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value for field '%s': %s", e.Field, e.Message)
}

func (e *NotFoundError) Error() string {
	if len(e.Searched) == 0 {
		return fmt.Sprintf("no Zoom user found for %q (no active users listed)", e.Email)
	}
	return fmt.Sprintf("no Zoom user found for %q\nactive users searched: %s", e.Email, strings.Join(e.Searched, ", "))
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("HTTP Error:\n%s: %s\n\nResponse:\n%s\n%s", e.Method, e.URL, e.Status, e.Body)
}

// HasCode reports whether the provider answered with the given Zoom error code.
func (e *ProviderError) HasCode(code int) bool {
	return e.Code == code
}

// HandleHTTPError reads the response body and returns it as a *ProviderError.
// The caller still owns closing the body.
func HandleHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read error body: %w", err)
	}

	pErr := &ProviderError{
		Status:     resp.Status,
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}
	if resp.Request != nil {
		u := resp.Request.URL
		pErr.Method = resp.Request.Method
		pErr.URL = fmt.Sprintf("%s://%s\n%s", u.Scheme, u.Host, u.RequestURI())
	}

	var zErr meeting.ErrorResponse
	if json.Unmarshal(body, &zErr) == nil {
		pErr.Code = zErr.Code
		pErr.Message = zErr.Message
	}
	return pErr
}

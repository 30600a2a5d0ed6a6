package scheduler

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	env "github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
)

// AuthScheme names how the service obtains its Zoom bearer token.
type AuthScheme string

const (
	// AuthOAuth uses Server-to-Server OAuth account credentials.
	AuthOAuth AuthScheme = "oauth"
	// AuthJWT signs a short-lived token with a legacy JWT app key and secret.
	AuthJWT AuthScheme = "jwt"
)

// InviteMode selects how attendees are added once the meeting exists.
type InviteMode string

const (
	InviteRegister InviteMode = "register"
	InviteCalendar InviteMode = "calendar"
)

const (
	DefaultTimezone = "Europe/London"
	defaultAPIBase  = "https://api.zoom.us/v2"
	defaultOAuth    = "https://zoom.us/oauth"
)

// Config is every setting the scheduler reads. It is built once at process start and passed by value.
type Config struct {
	// Server-to-Server OAuth app credentials.
	AccountID    string `env:"ZOOM_ACCOUNT_ID" validate:"required_if=Scheme oauth"`
	ClientID     string `env:"ZOOM_CLIENT_ID" validate:"required_if=Scheme oauth"`
	ClientSecret string `env:"ZOOM_CLIENT_SECRET" validate:"required_if=Scheme oauth"`
	// Legacy JWT app credentials.
	APIKey    string `env:"ZOOM_API_KEY" validate:"required_if=Scheme jwt"`
	APISecret string `env:"ZOOM_API_SECRET" validate:"required_if=Scheme jwt"`

	// Meeting host. The ID skips the user lookup.
	UserEmail string `env:"ZOOM_USER_EMAIL" validate:"required_without=UserID"`
	UserID    string `env:"ZOOM_USER_ID"`

	Topic        string     `env:"MEETING_TOPIC" validate:"required"`
	Date         string     `env:"MEETING_DATE" validate:"required"`
	Time         string     `env:"MEETING_TIME" validate:"required"`
	Duration     int        `env:"MEETING_DURATION,default=60"`
	Timezone     string     `env:"MEETING_TIMEZONE,default=Europe/London"`
	Agenda       string     `env:"MEETING_AGENDA"`
	Attendees    string     `env:"MEETING_ATTENDEES"`
	InviteMode   InviteMode `env:"MEETING_INVITE_MODE,default=register"`
	SettingsFile string     `env:"MEETING_SETTINGS_FILE"`

	// File the pipeline reads step outputs from. Results go to stdout when empty.
	OutputPath string `env:"GITHUB_OUTPUT"`

	SlackWebhookURL string `env:"SLACK_WEBHOOK_URL"`
	MailDomain      string `env:"MAIL_DOMAIN"`
	MailgunAPIKey   string `env:"MAILGUN_API_KEY"`
	SentryDSN       string `env:"SENTRY_DSN"`
	AppEnv          string `env:"APP_ENV"`
	LogLevel        string `env:"LOG_LEVEL,default=info"`

	// Shared secret for verifying HTTP trigger requests. Unsigned requests are accepted when empty.
	TriggerSigningSecret string `env:"TRIGGER_SIGNING_SECRET"`

	// Overrides for testing.
	APIBase   string `env:"ZOOM_API_BASE"`
	OAuthBase string `env:"ZOOM_OAUTH_BASE"`

	// Derived from which credentials are present. See DetectScheme.
	Scheme AuthScheme
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their environment variable name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("env"), ",")
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// LoadConfig reads the configuration from the process environment.
func LoadConfig() (Config, error) {
	var c Config
	if _, err := env.UnmarshalFromEnviron(&c); err != nil {
		return c, fmt.Errorf("unmarshal environment: %w", err)
	}
	c.Scheme = c.DetectScheme()
	return c, nil
}

// DetectScheme picks the auth scheme from the shape of the configured credentials.
// Any OAuth value wins, then any JWT value, and OAuth is the fallback so its fields get reported as missing.
func (c Config) DetectScheme() AuthScheme {
	if c.AccountID != "" || c.ClientID != "" || c.ClientSecret != "" {
		return AuthOAuth
	}
	if c.APIKey != "" || c.APISecret != "" {
		return AuthJWT
	}
	return AuthOAuth
}

// Validate checks every required setting and returns a *ConfigurationError naming all of the problems.
func (c Config) Validate() error {
	if c.Scheme == "" {
		c.Scheme = c.DetectScheme()
	}

	cfgErr := &ConfigurationError{}
	err := validate.Struct(c)
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		for _, fe := range vErrs {
			cfgErr.Missing = append(cfgErr.Missing, fe.Field())
		}
	} else if err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	if c.UserEmail != "" && validate.Var(c.UserEmail, "email") != nil {
		cfgErr.Invalid = append(cfgErr.Invalid, "ZOOM_USER_EMAIL must be an email address")
	}
	if c.Duration <= 0 {
		cfgErr.Invalid = append(cfgErr.Invalid, fmt.Sprintf("MEETING_DURATION must be a positive number of minutes, got %d", c.Duration))
	}
	if c.InviteMode != InviteRegister && c.InviteMode != InviteCalendar {
		cfgErr.Invalid = append(cfgErr.Invalid, fmt.Sprintf("MEETING_INVITE_MODE must be %q or %q, got %q", InviteRegister, InviteCalendar, c.InviteMode))
	}

	if len(cfgErr.Missing) > 0 || len(cfgErr.Invalid) > 0 {
		return cfgErr
	}
	return nil
}

// LogDiagnostics logs which credentials are in use without leaking them.
func (c Config) LogDiagnostics(logger *slog.Logger) {
	attrs := []any{slog.String("scheme", string(c.Scheme))}
	switch c.Scheme {
	case AuthJWT:
		attrs = append(attrs,
			slog.String("apiKey", redact(c.APIKey)),
			slog.Int("apiSecretLength", len(c.APISecret)),
		)
	default:
		attrs = append(attrs,
			slog.String("accountId", redact(c.AccountID)),
			slog.String("clientId", redact(c.ClientID)),
			slog.Int("clientSecretLength", len(c.ClientSecret)),
		)
	}
	if c.UserID != "" {
		attrs = append(attrs, slog.String("userId", redact(c.UserID)))
	} else {
		attrs = append(attrs, slog.String("userEmail", c.UserEmail))
	}
	logger.Info("zoom credentials loaded", attrs...)
}

func (c Config) apiBase() string {
	if len(c.APIBase) > 0 {
		return c.APIBase
	}
	return defaultAPIBase
}

func (c Config) oauthBase() string {
	if len(c.OAuthBase) > 0 {
		return c.OAuthBase
	}
	return defaultOAuth
}

// redact keeps the first four characters of an identifier.
func redact(s string) string {
	const keep = 4
	if len(s) <= keep {
		return strings.Repeat("*", len(s))
	}
	return s[:keep] + "..."
}

package scheduler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenProvider obtains a bearer token for the Zoom API.
type tokenProvider interface {
	authenticate(ctx context.Context) (string, error)
}

type (
	// oauthProvider exchanges Server-to-Server OAuth account credentials for an access token.
	oauthProvider struct {
		// Base OAuth endpoint. Default: "https://zoom.us/oauth"
		oauthURL     string
		client       *http.Client
		accountID    string
		clientID     string
		clientSecret string
	}

	// jwtProvider signs a legacy JWT app token locally.
	jwtProvider struct {
		apiKey    string
		apiSecret string
		ttl       time.Duration
		now       func() time.Time
	}

	tokenResponse struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
		Scope       string `json:"scope"`
		TokenType   string `json:"token_type"`
	}
)

// newTokenProvider picks the provider matching the configured credentials.
func newTokenProvider(c Config, client *http.Client) tokenProvider {
	if c.Scheme == AuthJWT {
		return &jwtProvider{
			apiKey:    c.APIKey,
			apiSecret: c.APISecret,
			ttl:       time.Hour,
			now:       time.Now,
		}
	}
	return &oauthProvider{
		oauthURL:     c.oauthBase(),
		client:       client,
		accountID:    c.AccountID,
		clientID:     c.ClientID,
		clientSecret: c.ClientSecret,
	}
}

// Authenticate requests an access token with the "account_credentials" grant.
func (o *oauthProvider) authenticate(ctx context.Context) (string, error) {
	u := fmt.Sprintf(
		"%s/token?grant_type=account_credentials&account_id=%s",
		o.oauthURL,
		url.QueryEscape(o.accountID),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return "", fmt.Errorf("NewRequestWithContext: %w", err)
	}

	req.Header.Add("Authorization", "Basic "+o.encodeCredentials())

	resp, err := o.client.Do(req)
	if err != nil {
		return "", &AuthenticationError{Reason: "token request", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", &AuthenticationError{Reason: "token request rejected", Err: HandleHTTPError(resp)}
	}

	var body tokenResponse
	d := json.NewDecoder(resp.Body)
	if err := d.Decode(&body); err != nil {
		return "", &AuthenticationError{Reason: "decode token response", Err: err}
	}
	if body.AccessToken == "" {
		return "", &AuthenticationError{Reason: "no access token received"}
	}
	return body.AccessToken, nil
}

// EncodeCredentials base64 encodes the client ID and secret, separated by a colon.
// ie: Base64Encode([clientID]:[clientSecret])
func (o *oauthProvider) encodeCredentials() string {
	creds := fmt.Sprintf("%s:%s", o.clientID, o.clientSecret)
	return base64.StdEncoding.EncodeToString([]byte(creds))
}

// Authenticate signs an HS256 token with the API key as issuer.
func (j *jwtProvider) authenticate(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	claims := jwt.RegisteredClaims{
		Issuer:    j.apiKey,
		ExpiresAt: jwt.NewNumericDate(j.now().Add(j.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.apiSecret))
	if err != nil {
		return "", &AuthenticationError{Reason: "sign token", Err: err}
	}
	return signed, nil
}

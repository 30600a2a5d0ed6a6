package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type slackService struct {
	// Slack Incoming Webhook URL.
	// https://hooks.slack.com/services/:workspaceID/:botID/:webhookID
	webhookURL string
	client     *http.Client
}

func NewSlackService(webhookURL string) *slackService {
	return &slackService{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (sl *slackService) run(ctx context.Context, r Result) error {
	return sl.sendWebhook(ctx, message{Text: summary(r)})
}

func (sl *slackService) name() string {
	return "slack service"
}

type message struct {
	Text string `json:"text"`
}

// summary describes a scheduled meeting in a few lines. The password is left out.
func summary(r Result) string {
	return strings.Join([]string{
		"A Zoom meeting has been scheduled",
		fmt.Sprintf("When: %s (%s)", r.Start.Format("Monday, Jan 2 2006 3:04 PM MST"), r.Timezone),
		fmt.Sprintf("Join: %s", r.JoinURL),
		fmt.Sprintf("Meeting ID: %d", r.MeetingID),
	}, "\n")
}

// SendWebhook POSTs a message to the Slack incoming webhook.
func (sl *slackService) sendWebhook(ctx context.Context, msg message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshall: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sl.webhookURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Add("Content-Type", "application/json")

	resp, err := sl.client.Do(req)
	if err != nil {
		return fmt.Errorf("post request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return HandleHTTPError(resp)
	}

	return nil
}

package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/operationspark/meeting-scheduler/zoom/meeting"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// inviteAttendees adds the attendees to the meeting using the configured mode.
// It returns the meeting's invitation text when the mode fetches it.
// No request is made for an empty attendee list.
func (z *zoomService) inviteAttendees(ctx context.Context, mode InviteMode, m meeting.Meeting, hostEmail string, attendees []string) (string, error) {
	if len(attendees) == 0 {
		return "", nil
	}
	switch mode {
	case InviteCalendar:
		return z.sendCalendarInvites(ctx, m.ID, hostEmail, attendees)
	default:
		return "", z.registerAttendees(ctx, m.ID, attendees)
	}
}

// RegisterAttendees adds each attendee as an auto-approved registrant. Each registration is sent in its own goroutine.
// All requests run to completion; the first failure is returned.
func (z *zoomService) registerAttendees(ctx context.Context, meetingID int64, attendees []string) error {
	var g errgroup.Group
	for _, email := range attendees {
		g.Go(func() error {
			reqBody := meeting.RegistrantRequest{
				FirstName:   firstName(email),
				Email:       email,
				AutoApprove: true,
			}
			var resp meeting.RegistrationResponse
			path := fmt.Sprintf("/meetings/%d/registrants", meetingID)
			if err := z.do(ctx, http.MethodPost, path, reqBody, &resp); err != nil {
				return fmt.Errorf("register %q: %w", email, err)
			}
			z.logger.InfoContext(ctx, "registered attendee",
				slog.String("email", email),
				slog.String("registrantId", resp.RegistrantID),
			)
			return nil
		})
	}
	return g.Wait()
}

// SendCalendarInvites fetches the meeting invitation and registers the attendees and host in one batch.
// Zoom emails each registrant a confirmation with a calendar attachment.
func (z *zoomService) sendCalendarInvites(ctx context.Context, meetingID int64, hostEmail string, attendees []string) (string, error) {
	var inv meeting.Invitation
	if err := z.do(ctx, http.MethodGet, fmt.Sprintf("/meetings/%d/invitation", meetingID), nil, &inv); err != nil {
		return "", fmt.Errorf("get invitation: %w", err)
	}

	recipients := attendees
	if hostEmail != "" {
		recipients = lo.Union(attendees, []string{hostEmail})
	}

	reqBody := meeting.BatchRegistrantsRequest{
		AutoApprove:                  true,
		RegistrantsConfirmationEmail: true,
		Registrants: lo.Map(recipients, func(email string, _ int) meeting.BatchRegistrant {
			return meeting.BatchRegistrant{Email: email, FirstName: firstName(email)}
		}),
	}
	var resp meeting.BatchRegistrantsResponse
	if err := z.do(ctx, http.MethodPost, fmt.Sprintf("/meetings/%d/batch_registrants", meetingID), reqBody, &resp); err != nil {
		return "", fmt.Errorf("batch registrants: %w", err)
	}

	z.logger.InfoContext(ctx, "calendar invites sent", slog.Int("recipients", len(reqBody.Registrants)))
	return inv.Invitation, nil
}

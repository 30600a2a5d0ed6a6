// Package meeting contains the request and response bodies exchanged with the Zoom API.
package meeting

// TypeScheduled is the Zoom meeting type for a one-off scheduled meeting.
const TypeScheduled = 2

// Approval types. Registration is only enabled for ApprovalAutomatic and ApprovalManual.
const (
	ApprovalAutomatic      = 0
	ApprovalManual         = 1
	ApprovalNoRegistration = 2
)

// ErrCodeUserNotExist is returned by GET /users/{userId} when no user matches the ID or email.
const ErrCodeUserNotExist = 1001

type (
	// Settings is the "settings" block of a meeting create request.
	// See: https://developers.zoom.us/docs/api/meetings/#tag/meetings/POST/users/{userId}/meetings
	Settings struct {
		HostVideo                    bool   `json:"host_video" toml:"host_video"`
		ParticipantVideo             bool   `json:"participant_video" toml:"participant_video"`
		JoinBeforeHost               bool   `json:"join_before_host" toml:"join_before_host"`
		MuteUponEntry                bool   `json:"mute_upon_entry" toml:"mute_upon_entry"`
		WaitingRoom                  bool   `json:"waiting_room" toml:"waiting_room"`
		ApprovalType                 int    `json:"approval_type" toml:"approval_type"`
		RegistrationType             int    `json:"registration_type,omitempty" toml:"registration_type"`
		RegistrantsConfirmationEmail bool   `json:"registrants_confirmation_email" toml:"registrants_confirmation_email"`
		RegistrantsEmailNotification bool   `json:"registrants_email_notification" toml:"registrants_email_notification"`
		Audio                        string `json:"audio,omitempty" toml:"audio"`
		AutoRecording                string `json:"auto_recording,omitempty" toml:"auto_recording"`
	}

	// CreateRequest represents a request to create a meeting for a user.
	CreateRequest struct {
		Topic     string   `json:"topic"`
		Type      int      `json:"type"`
		StartTime string   `json:"start_time"`
		Duration  int      `json:"duration"`
		Timezone  string   `json:"timezone"`
		Agenda    string   `json:"agenda,omitempty"`
		Settings  Settings `json:"settings"`
	}

	// Meeting is the subset of the meeting object this service reads.
	Meeting struct {
		ID        int64  `json:"id"`
		UUID      string `json:"uuid"`
		HostID    string `json:"host_id"`
		HostEmail string `json:"host_email"`
		Topic     string `json:"topic"`
		Type      int    `json:"type"`
		StartTime string `json:"start_time"`
		Duration  int    `json:"duration"`
		Timezone  string `json:"timezone"`
		JoinURL   string `json:"join_url"`
		StartURL  string `json:"start_url"`
		Password  string `json:"password"`
	}

	// RegistrantRequest represents a request to create a registrant for a meeting on the Zoom API.
	// See: https://marketplace.zoom.us/docs/api-reference/zoom-api/methods/#operation/meetingRegistrantCreate
	RegistrantRequest struct {
		FirstName   string `json:"first_name"`
		LastName    string `json:"last_name,omitempty"`
		Email       string `json:"email"`
		AutoApprove bool   `json:"auto_approve"`
	}

	RegistrationResponse struct {
		ID           int64  `json:"id"`
		JoinURL      string `json:"join_url"`
		RegistrantID string `json:"registrant_id"`
		StartTime    string `json:"start_time"`
		Topic        string `json:"topic"`
	}

	BatchRegistrant struct {
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name,omitempty"`
	}

	// BatchRegistrantsRequest registers up to 30 registrants in one call.
	// With RegistrantsConfirmationEmail set, Zoom emails each registrant a calendar invite.
	BatchRegistrantsRequest struct {
		AutoApprove                  bool              `json:"auto_approve"`
		RegistrantsConfirmationEmail bool              `json:"registrants_confirmation_email"`
		Registrants                  []BatchRegistrant `json:"registrants"`
	}

	BatchRegistrantsResponse struct {
		Registrants []struct {
			Email        string `json:"email"`
			JoinURL      string `json:"join_url"`
			RegistrantID string `json:"registrant_id"`
		} `json:"registrants"`
	}

	// Invitation is the body of GET /meetings/{meetingId}/invitation.
	Invitation struct {
		Invitation string `json:"invitation"`
	}

	User struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Status    string `json:"status"`
	}

	UserList struct {
		PageCount    int    `json:"page_count"`
		PageSize     int    `json:"page_size"`
		TotalRecords int    `json:"total_records"`
		Users        []User `json:"users"`
	}

	// ErrorResponse is the structured error body returned by the Zoom API.
	ErrorResponse struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
)

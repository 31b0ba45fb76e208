package models

import "time"

// Action tags recorded in the activity log. One event is emitted per
// terminal branch of every auth flow.
const (
	ActionRegister       = "REGISTER"
	ActionLogin          = "LOGIN"
	ActionOTPSent        = "OTP_SENT"
	ActionVerifyOTP      = "VERIFY_LOGIN_OTP"
	ActionRefreshToken   = "REFRESH_TOKEN"
	ActionLogout         = "LOGOUT"
	ActionChangePassword = "CHANGE_PASSWORD"
	ActionChangeEmail    = "CHANGE_EMAIL"
	ActionVerifyEmailOTP = "VERIFY_EMAIL_OTP"
	ActionUpdateRole     = "UPDATE_ROLE"
)

// Outcomes recorded with each activity entry.
const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFailure = "FAILURE"
)

// ActivityEntry is one append-only audit record of a security-relevant
// event. Entries are written best-effort and never mutated.
type ActivityEntry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Action    string    `json:"action"`
	Outcome   string    `json:"outcome"`
	IPAddress string    `json:"ipAddress"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the ActivityEntry model.
func (e ActivityEntry) TableName() string {
	return "activity_logs"
}

// ActivityFilter narrows an admin activity-log listing. Zero values mean
// "no constraint" and are skipped when the query is built.
type ActivityFilter struct {
	UserID  int64
	Action  string
	Outcome string
	Limit   uint64
}

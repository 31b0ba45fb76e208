package models

import "time"

// GateDecision is the outcome of the login-rate gate consulted before any
// credential check.
type GateDecision struct {
	// Allowed is true when the attempt may proceed to the credential check.
	Allowed bool

	// Banned is true when the source IP carries a manual-clear ban.
	// Takes precedence over Locked.
	Banned bool

	// Locked is true when the (identifier, ip) pair is inside a lock window.
	Locked bool

	// RetryAfter is the remaining lock duration; zero unless Locked.
	RetryAfter time.Duration
}

// IPBan is a durable, operator-cleared block on a source IP. Unlike the
// per-identifier lock it never expires on its own.
type IPBan struct {
	IPAddress string    `json:"ipAddress"`
	IsBanned  bool      `json:"isBanned"`
	Reason    string    `json:"reason"`
	BanCount  int       `json:"banCount"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the IPBan model.
func (b IPBan) TableName() string {
	return "ip_bans"
}

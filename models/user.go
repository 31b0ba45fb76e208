package models

import (
	"database/sql"
	"time"
)

// Roles assignable to an account. The core knows exactly two.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an account entity used for authentication and authorization.
// It contains identity attributes and credential-related data.
// Sensitive fields must never be exposed outside trusted boundaries.
type User struct {
	// UserID is the internal unique identifier of the user.
	UserID int64 `json:"id"`

	// Username is the unique account name, accepted interchangeably with
	// Email as a login identifier.
	Username string `json:"username"`

	// Email is the unique, verified delivery address for OTP codes.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the account password.
	// Never serialized and never logged.
	PasswordHash string `json:"-"`

	// Role is either RoleUser or RoleAdmin.
	Role string `json:"role"`

	// IsPremium gates premium-only features elsewhere in the backend.
	// Carried in token claims so downstream services can check it offline.
	IsPremium bool `json:"isPremium"`

	// PendingEmail holds a requested new address until its OTP is verified.
	PendingEmail sql.NullString `json:"-"`

	// OTP and OTPExpiresAt are both set or both null. A code is valid only
	// while now < OTPExpiresAt and is cleared on first successful use.
	OTP          sql.NullString `json:"-"`
	OTPExpiresAt sql.NullTime   `json:"-"`

	// RefreshToken is the single live refresh token for this account,
	// overwritten on reissue and cleared on logout or password change.
	RefreshToken sql.NullString `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// Profile is the public projection of a User returned by the API.
type Profile struct {
	UserID    int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IsPremium bool   `json:"isPremium"`
}

// Profile strips credential material from the account record.
func (u User) Profile() Profile {
	return Profile{
		UserID:    u.UserID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		IsPremium: u.IsPremium,
	}
}

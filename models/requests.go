package models

// Request bodies accepted by the auth endpoints. Validation rules follow
// the go-playground/validator tags; field-level failures map to 400.

type RegisterRequest struct {
	Username string `json:"username" validate:"required,alphanum,min=3,max=20"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=20"`
}

type LoginRequest struct {
	// Identifier is a username or email, accepted interchangeably.
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type VerifyOTPRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	OTP        string `json:"otp" validate:"required,len=6,numeric"`
}

type UpdatePasswordRequest struct {
	CurrentPassword    string `json:"currentPassword" validate:"required"`
	NewPassword        string `json:"newPassword" validate:"required,min=6,max=20"`
	ConfirmNewPassword string `json:"confirmNewPassword" validate:"required,eqfield=NewPassword"`
}

type UpdateEmailRequest struct {
	NewEmail string `json:"newEmail" validate:"required,email"`
}

type VerifyEmailOTPRequest struct {
	OTP string `json:"otp" validate:"required,len=6,numeric"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

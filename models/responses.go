package models

// Response envelopes returned by the auth endpoints. Every body carries a
// human-readable message; Data holds the payload when there is one.

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Error   any    `json:"error,omitempty"`
}

type DataResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// LoginSuccessResponse is returned by OTP verification: the identity
// payload plus the access token. The refresh token travels only in the
// HTTP-only cookie, never in the body.
type LoginSuccessResponse struct {
	Message     string  `json:"message"`
	Data        Profile `json:"data"`
	AccessToken string  `json:"accessToken"`
}

type AccessTokenResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"accessToken"`
}

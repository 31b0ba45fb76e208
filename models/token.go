package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims is the claim set carried by both access and refresh tokens.
//
// It embeds [jwt.RegisteredClaims] for the standard claim set (sub, exp,
// iat, iss) and adds the identity payload the rest of the backend relies on.
// UserID duplicates the "sub" claim in typed form so handlers never re-parse
// the subject string.
type TokenClaims struct {
	jwt.RegisteredClaims

	UserID    int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IsPremium bool   `json:"isPremium"`
}

// TokenPair bundles the two credentials minted at the end of a successful
// login: a short-lived stateless access token and a long-lived refresh token
// whose value is persisted on the account record.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"-"`
}

// Principal is the authenticated identity produced once by access-token
// verification and threaded through handlers. Role checks read it instead of
// re-deriving claims per middleware.
type Principal struct {
	UserID    int64
	Username  string
	Email     string
	Role      string
	IsPremium bool
}

// Principal converts verified claims into the request-scoped identity value.
func (c TokenClaims) Principal() Principal {
	return Principal{
		UserID:    c.UserID,
		Username:  c.Username,
		Email:     c.Email,
		Role:      c.Role,
		IsPremium: c.IsPremium,
	}
}

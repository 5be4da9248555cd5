// Package auth validates API access tokens for EcoTracker.
package auth

// TokenResponse is returned when a development token is issued.
type TokenResponse struct {
	// AccessToken is the JWT access token for API authentication.
	AccessToken string `json:"accessToken"`

	// TokenType is always "Bearer".
	TokenType string `json:"tokenType"`

	// ExpiresIn is the number of seconds until the access token expires.
	ExpiresIn int64 `json:"expiresIn"`

	// UserID is the subject the token was issued for.
	UserID string `json:"userId"`
}

package auth

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service provides authentication operations.
type Service struct {
	jwtService *JWTService
}

// ServiceConfig holds configuration for the auth service.
type ServiceConfig struct {
	JWTService *JWTService
}

// NewService creates a new auth service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{jwtService: cfg.JWTService}
}

// ValidateAccessToken validates an access token and returns the user ID.
func (s *Service) ValidateAccessToken(tokenString string) (string, error) {
	claims, err := s.jwtService.ValidateAccessToken(tokenString)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// DevAuthenticateRequest is the request for development authentication.
type DevAuthenticateRequest struct {
	// UserID is an optional user ID. If not provided, a new one is generated.
	UserID string `json:"userId,omitempty"`
}

// DevAuthenticate issues an access token for the requested or a fresh user ID.
// This is intended for local development only and should never be enabled in production.
func (s *Service) DevAuthenticate(req *DevAuthenticateRequest) (*TokenResponse, error) {
	userID := req.UserID
	if userID == "" {
		userID = generateUserID()
	}

	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(userID)
	if err != nil {
		return nil, fmt.Errorf("generating access token: %w", err)
	}

	return &TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
		UserID:      userID,
	}, nil
}

// generateUserID generates a unique user ID with prefix.
func generateUserID() string {
	return "usr_" + uuid.New().String()[:22]
}

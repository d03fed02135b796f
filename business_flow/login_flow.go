// Package businessflow contains the core business logic and use cases for authentication workflows
package businessflow

import (
	"context"
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/tagforge/tagforge/app/dto"
	"github.com/tagforge/tagforge/app/services"
	"github.com/tagforge/tagforge/config"
)

// LoginFlow handles the admin authentication business logic
type LoginFlow interface {
	Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
}

// LoginFlowImpl implements the login business flow against the configured
// admin account
type LoginFlowImpl struct {
	adminConfig  config.AdminConfig
	jwtConfig    config.JWTConfig
	tokenService services.TokenService
}

// NewLoginFlow creates a new login flow instance
func NewLoginFlow(adminConfig config.AdminConfig, jwtConfig config.JWTConfig, tokenService services.TokenService) LoginFlow {
	return &LoginFlowImpl{
		adminConfig:  adminConfig,
		jwtConfig:    jwtConfig,
		tokenService: tokenService,
	}
}

// Login verifies admin credentials and issues an access token
func (s *LoginFlowImpl) Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	if s.adminConfig.PasswordHash == "" {
		return nil, NewBusinessError("LOGIN_NOT_CONFIGURED", "Admin account is not configured", ErrAccountInactive)
	}

	usernameMatch := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.adminConfig.Username)) == 1
	passwordErr := bcrypt.CompareHashAndPassword([]byte(s.adminConfig.PasswordHash), []byte(req.Password))
	if !usernameMatch || passwordErr != nil {
		return nil, NewBusinessError("INCORRECT_CREDENTIALS", "Incorrect username or password", ErrIncorrectCredentials)
	}

	token, err := s.tokenService.GenerateAccessToken(req.Username)
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate access token", err)
	}

	return &dto.LoginResponse{
		Message:     "Login successful",
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwtConfig.AccessTokenTTL.Seconds()),
	}, nil
}

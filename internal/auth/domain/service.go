package domain

import (
	"context"
	"errors"

	"github.com/vendora/vendora/internal/authctx"
)

type LoginRequest struct {
	Email    string
	Password string
}

type LoginResponse struct {
	Token     string
	Actor     authctx.Actor
	ExpiresAt string
}

type Service interface {
	Login(context.Context, LoginRequest) (LoginResponse, error)
	// Authenticate resolves a session token to the acting profile.
	Authenticate(ctx context.Context, token string) (authctx.Actor, error)
	Logout(ctx context.Context, token string) error
}

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidSession     = errors.New("invalid_session")
	ErrSessionExpired     = errors.New("session_expired")
	ErrSessionRevoked     = errors.New("session_revoked")
)

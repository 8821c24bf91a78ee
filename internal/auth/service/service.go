// Package service implements authentication for staff accounts.
package service

import (
	"context"
	"errors"
	"time"

	"servicehub_backend/internal/auth/repository"
	"servicehub_backend/platform/apperr"
	"servicehub_backend/platform/config"
	"servicehub_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const opLogin = "auth.Login"

// LoginResult is returned on successful authentication.
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	UserID      string
	FullName    string
	Roles       []string
}

// Service handles staff authentication.
type Service struct {
	repo *repository.Repository
	cfg  config.AuthServiceConfig
	log  *logger.Logger
}

// New creates a new auth service.
func New(repo *repository.Repository, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// Login verifies credentials and issues a signed access token.
// Invalid credentials and unknown accounts produce the same error so the
// endpoint never leaks which emails exist.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.AuthEvent("login", email, false, "unknown account")
			return nil, apperr.Unauthorized("invalid credentials")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "login failed", err).WithOp(opLogin)
	}

	if !user.Active {
		s.log.AuthEvent("login", email, false, "account disabled")
		return nil, apperr.Unauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.AuthEvent("login", email, false, "wrong password")
		return nil, apperr.Unauthorized("invalid credentials")
	}

	expiresAt := time.Now().Add(s.cfg.GetAccessTokenTTL())
	token, err := s.signAccessToken(user, expiresAt)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "token signing failed", err).WithOp(opLogin)
	}

	s.log.AuthEvent("login", email, true, "")

	return &LoginResult{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		UserID:      user.ID.String(),
		FullName:    user.FullName,
		Roles:       user.Roles,
	}, nil
}

func (s *Service) signAccessToken(user *repository.User, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"roles": user.Roles,
		"type":  "access",
		"iat":   time.Now().Unix(),
		"exp":   expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

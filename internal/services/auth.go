package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"foodapp/internal/models"
	"foodapp/internal/repository"
)

// Tokens is the pair handed to a client after login or refresh.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

type AuthConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// AuthService issues HS256 access tokens and opaque refresh tokens. Refresh
// tokens are stored as SHA-256 hashes and rotated on every use.
type AuthService struct {
	users  repository.UserRepository
	tokens repository.RefreshTokenRepository
	blobs  Blobs
	cfg    AuthConfig
	now    clock
}

func NewAuthService(users repository.UserRepository, tokens repository.RefreshTokenRepository, blobs Blobs, cfg AuthConfig) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		blobs:  blobs,
		cfg:    cfg,
		now:    time.Now,
	}
}

func invalidCredentials(message string) error {
	return &Error{Kind: ErrInvalidCredentials, Message: message}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *Tokens, error) {
	email = normalizeEmail(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, nil, missingField("", "Email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, invalidCredentials("Invalid email or password")
		}
		return nil, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Info().Str("component", "auth").Str("id", user.ID.Hex()).Msg("login rejected")
		return nil, nil, invalidCredentials("Invalid email or password")
	}

	tokens, _, err := s.issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	log.Info().Str("component", "auth").Str("id", user.ID.Hex()).Msg("login succeeded")
	return presentUser(s.blobs, user), tokens, nil
}

// Refresh exchanges a live refresh token for a new pair and revokes the old
// one.
func (s *AuthService) Refresh(ctx context.Context, plain string) (*models.User, *Tokens, error) {
	plain = strings.TrimSpace(plain)
	if plain == "" {
		return nil, nil, missingField("refreshToken", "refreshToken is required")
	}

	token, err := s.tokens.FindActiveByHash(ctx, hashToken(plain))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, invalidCredentials("Invalid refresh token")
		}
		return nil, nil, err
	}
	if token.Expired(s.now()) {
		if err := s.tokens.Revoke(ctx, token.ID, nil); err != nil {
			log.Warn().Err(err).Str("component", "auth").Msg("could not revoke expired refresh token")
		}
		return nil, nil, invalidCredentials("Refresh token expired")
	}

	user, err := s.users.FindByID(ctx, token.UserID.Hex())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, invalidCredentials("User not found")
		}
		return nil, nil, err
	}

	tokens, stored, err := s.issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	if err := s.tokens.Revoke(ctx, token.ID, &stored.ID); err != nil {
		log.Warn().Err(err).Str("component", "auth").Msg("could not revoke rotated refresh token")
	}
	return presentUser(s.blobs, user), tokens, nil
}

func (s *AuthService) Logout(ctx context.Context, plain string) error {
	plain = strings.TrimSpace(plain)
	if plain == "" {
		return missingField("refreshToken", "refreshToken is required")
	}

	if err := s.tokens.RevokeByHash(ctx, hashToken(plain)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return invalidCredentials("Invalid refresh token")
		}
		return err
	}
	return nil
}

func (s *AuthService) issue(ctx context.Context, user *models.User) (*Tokens, *models.RefreshToken, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   user.ID.Hex(),
		"role":  string(user.Role),
		"email": user.Email,
		"exp":   now.Add(s.cfg.AccessTTL).Unix(),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, nil, err
	}

	plainRefresh, err := generateRefreshString()
	if err != nil {
		return nil, nil, err
	}

	refresh := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(plainRefresh),
		ExpiresAt: now.Add(s.cfg.RefreshTTL),
		CreatedAt: now,
	}
	if err := s.tokens.Insert(ctx, refresh); err != nil {
		return nil, nil, err
	}

	return &Tokens{
		AccessToken:  accessToken,
		RefreshToken: plainRefresh,
		ExpiresIn:    int64(s.cfg.AccessTTL.Seconds()),
	}, refresh, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func generateRefreshString() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/kakamalem/marketplace/internal/hash"
	"github.com/kakamalem/marketplace/internal/logging"
	"github.com/kakamalem/marketplace/internal/models"
	"github.com/kakamalem/marketplace/internal/mykafka"
	"github.com/kakamalem/marketplace/internal/repo"
	"github.com/kakamalem/marketplace/internal/tokens"
	"github.com/kakamalem/marketplace/internal/transport"
)

const (
	accessTTL  = 15 * time.Minute
	refreshTTL = 7 * 24 * time.Hour
)

type AuthService struct {
	Repo          *repo.GormRepo
	Producer      *mykafka.Producer
	JWTSecret     []byte
	RefreshSecret []byte
}

type LoginResult struct {
	User         models.User
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

// Register creates a customer account and claims any guest orders previously
// placed with the same email.
func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrValidation)
	}

	if _, err := s.Repo.UserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: pwHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Roles:        []string{models.RoleCustomer},
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		return nil, err
	}

	migrated, err := s.Repo.MigrateGuestOrders(ctx, email, user.ID)
	if err != nil {
		l.Warn("guest_order_migration_failed", "error", err)
	} else if migrated > 0 {
		l.Info("guest_orders_migrated", "count", migrated, "user_id", user.ID)
	}

	if err := s.Producer.PublishEvent(ctx, mykafka.TopicUserEvents, user.ID.String(), map[string]any{
		"type":    "user_registered",
		"user_id": user.ID,
		"email":   user.Email,
	}); err != nil {
		l.Warn("user_event_not_published", "error", err)
	}

	l.Info("register_success", "user_id", user.ID)
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("login_failed", "reason", "bad credentials")
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*LoginResult, error) {
	accessExp := time.Now().Add(accessTTL)
	accessToken, err := tokens.NewAccessToken(user.ID.String(), user.Roles, accessExp, s.JWTSecret)
	if err != nil {
		return nil, err
	}

	refreshExp := time.Now().Add(refreshTTL)
	refreshToken, err := tokens.NewRefreshToken(user.ID.String(), refreshExp, s.RefreshSecret)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.AddRefreshToken(ctx, refreshToken, user.ID, refreshExp); err != nil {
		return nil, err
	}

	return &LoginResult{
		User:         *user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

// Refresh rotates the token pair. The presented refresh token must be known,
// unrevoked and unexpired; it is revoked on use.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}

	valid, err := s.Repo.RefreshTokenValid(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, fmt.Errorf("%w: refresh token revoked or expired", ErrUnauthorized)
	}

	userID, err := parseUUID(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}
	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown user", ErrUnauthorized)
	}

	if err := s.Repo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Repo.RevokeRefreshToken(ctx, refreshToken)
}

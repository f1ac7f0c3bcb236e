package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sowzaxx7/8m-community/internal/metrics"
	"github.com/sowzaxx7/8m-community/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultProviderTimeout = 10 * time.Second

// Profile is what the identity provider tells us about a user
type Profile struct {
	ID       string
	Username string
	Email    string
	Avatar   string
}

type IdentityProvider interface {
	// Exchange trades an authorization code for the profile of the user who granted it
	Exchange(ctx context.Context, code string) (*Profile, error)
}

type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// Sessions logs users in through the identity provider
type Sessions struct {
	DB       *gorm.DB
	Provider IdentityProvider
	Tokens   TokenIssuer
	Timeout  time.Duration
}

func NewSessions(db *gorm.DB, p IdentityProvider, t TokenIssuer, timeout time.Duration) *Sessions {
	if timeout <= 0 {
		timeout = defaultProviderTimeout
	}

	return &Sessions{
		DB:       db,
		Provider: p,
		Tokens:   t,
		Timeout:  timeout,
	}
}

// Exchange turns an authorization code into a session token. Users are created
// on their first login as members. Returning users keep their stored profile,
// nothing is refreshed from the provider.
func (s *Sessions) Exchange(ctx context.Context, code string) (string, *model.User, error) {
	if code == "" {
		return "", nil, ErrMissingCode
	}

	pctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	profile, err := s.Provider.Exchange(pctx, code)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return "", nil, fmt.Errorf("%w: %w", ErrExternalAuth, err)
	}

	if profile == nil || profile.ID == "" {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return "", nil, fmt.Errorf("%w: profile has no id", ErrExternalAuth)
	}

	var user model.User

	r := s.DB.
		WithContext(ctx).
		Where(model.User{ID: profile.ID}).
		Attrs(model.User{
			Username: profile.Username,
			Email:    profile.Email,
			Avatar:   profile.Avatar,
			Role:     model.RoleMember,
			Banned:   false,
		}).
		FirstOrCreate(&user)
	if r.Error != nil {
		return "", nil, fmt.Errorf("failed to find or create user, %w", r.Error)
	}

	if r.RowsAffected > 0 {
		metrics.LoginsTotal.WithLabelValues("new").Inc()
		zap.L().Info("New user registered", zap.String("userID", user.ID), zap.String("username", user.Username))
	} else {
		metrics.LoginsTotal.WithLabelValues("returning").Inc()
	}

	token, err := s.Tokens.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue session token, %w", err)
	}

	return token, &user, nil
}

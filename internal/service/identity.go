package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sowzaxx7/8m-community/internal/model"

	"gorm.io/gorm"
)

type TokenParser interface {
	Parse(token string) (userID string, err error)
}

// Verifier resolves bearer tokens to users
type Verifier struct {
	DB     *gorm.DB
	Tokens TokenParser
}

func NewVerifier(db *gorm.DB, t TokenParser) *Verifier {
	return &Verifier{DB: db, Tokens: t}
}

// Resolve fails with ErrUnauthenticated for absent, malformed, expired or
// forged tokens and with ErrUserNotFound when the token's user doesn't exist.
func (v *Verifier) Resolve(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	userID, err := v.Tokens.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	var user model.User

	err = v.DB.
		WithContext(ctx).
		Where("id = ?", userID).
		First(&user).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, fmt.Errorf("failed to look up user, %w", err)
	}

	return &user, nil
}

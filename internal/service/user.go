package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sowzaxx7/8m-community/internal/model"

	"gorm.io/gorm"
)

type Users struct {
	DB *gorm.DB
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{DB: db}
}

func (u *Users) Get(ctx context.Context, id string) (*model.User, error) {
	return u.get(u.DB.WithContext(ctx), id)
}

// Profile returns the user together with the posts they authored
func (u *Users) Profile(ctx context.Context, id string) (*model.User, error) {
	return u.get(u.DB.WithContext(ctx).Preload("Posts"), id)
}

// SetBanned bans or unbans target on behalf of actor
func (u *Users) SetBanned(ctx context.Context, actor *model.User, target string, banned bool) (*model.User, error) {
	action := BanUser(target)
	if !banned {
		action = UnbanUser(target)
	}

	if err := Authorize(actor, action); err != nil {
		return nil, err
	}

	if target == "" {
		return nil, fmt.Errorf("%w: user ID is missing", ErrValidation)
	}

	user, err := u.Get(ctx, target)
	if err != nil {
		return nil, err
	}

	err = u.DB.
		WithContext(ctx).
		Model(user).
		Update("banned", banned).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to update ban state, %w", err)
	}

	user.Banned = banned
	return user, nil
}

func (u *Users) get(db *gorm.DB, id string) (*model.User, error) {
	var user model.User

	err := db.
		Where("id = ?", id).
		First(&user).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, fmt.Errorf("failed to fetch user, %w", err)
	}

	return &user, nil
}

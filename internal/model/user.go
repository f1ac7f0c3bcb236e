// Package model defines database models
package model

import "time"

type Role string

const (
	RoleMember Role = "Member"
	RoleOwner  Role = "Owner"
)

// User is created on the first Discord login. The ID is the Discord snowflake.
type User struct {
	ID       string    `gorm:"primaryKey" json:"id"`
	Username string    `gorm:"not null" json:"username"`
	Avatar   string    `json:"avatar"`
	Email    string    `json:"email"`
	Role     Role      `gorm:"not null;default:Member" json:"role"`
	Banned   bool      `gorm:"not null;default:false" json:"banned"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joinedAt"`

	Posts []Post `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
}

func (u *User) IsOwner() bool {
	return u.Role == RoleOwner
}

// Author is the part of a User shown next to posts. It never carries the email.
type Author struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Avatar   string    `json:"avatar"`
	Role     Role      `json:"role"`
	Banned   bool      `json:"banned"`
	JoinedAt time.Time `json:"joinedAt"`
}

func (u *User) Author() Author {
	return Author{
		ID:       u.ID,
		Username: u.Username,
		Avatar:   u.Avatar,
		Role:     u.Role,
		Banned:   u.Banned,
		JoinedAt: u.JoinedAt,
	}
}

// PublicUser is a User without the email address, with their posts
type PublicUser struct {
	Author
	Posts []Post `json:"posts"`
}

func (u *User) Public() PublicUser {
	posts := u.Posts
	if posts == nil {
		posts = []Post{}
	}

	return PublicUser{
		Author: u.Author(),
		Posts:  posts,
	}
}

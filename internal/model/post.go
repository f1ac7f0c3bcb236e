package model

import (
	"encoding/json"
	"slices"
	"time"
)

type Tag string

const (
	TagAnnouncements Tag = "announcements"
	TagBots          Tag = "bots"
	TagMethods       Tag = "methods"
	TagFiles         Tag = "files"
)

var Tags = []Tag{TagAnnouncements, TagBots, TagMethods, TagFiles}

func (t Tag) Valid() bool {
	return slices.Contains(Tags, t)
}

type Post struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"not null" json:"description"`
	Tag         Tag       `gorm:"index;not null" json:"tag"`
	Timestamp   time.Time `gorm:"autoCreateTime" json:"timestamp"`
	AuthorID    string    `gorm:"index;not null" json:"authorId"`

	Author *User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	File   []File `gorm:"foreignKey:PostID" json:"file"`
}

// MarshalJSON replaces the author relation with its public fields
func (p Post) MarshalJSON() ([]byte, error) {
	type post Post

	out := struct {
		post
		Author *Author `json:"author,omitempty"`
	}{post: post(p)}

	if p.Author != nil {
		a := p.Author.Author()
		out.Author = &a
	}

	return json.Marshal(out)
}

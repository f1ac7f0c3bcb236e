package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/sowzaxx7/8m-community/internal/metrics"
	"github.com/sowzaxx7/8m-community/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CreatePostInput struct {
	Title       string
	Description string
	Tag         model.Tag
	// Optional attachment
	File *multipart.FileHeader
}

// Posts is the post repository. A post and its files are always written and
// deleted together.
type Posts struct {
	DB       *gorm.DB
	Uploads  *Gatekeeper
	Notifier *Notifier
}

func NewPosts(db *gorm.DB, g *Gatekeeper, n *Notifier) *Posts {
	return &Posts{DB: db, Uploads: g, Notifier: n}
}

// Create stores a new post by author. The attachment is checked before
// anything is written, and a post is never stored without its attachment.
func (p *Posts) Create(ctx context.Context, author *model.User, in CreatePostInput) (*model.Post, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" || in.Tag == "" {
		return nil, ErrMissingFields
	}

	if !in.Tag.Valid() {
		return nil, ErrInvalidTag
	}

	if err := Authorize(author, CreatePost(in.Tag)); err != nil {
		return nil, err
	}

	post := model.Post{
		Title:       in.Title,
		Description: in.Description,
		Tag:         in.Tag,
		AuthorID:    author.ID,
		File:        []model.File{},
	}

	var stored *StoredFile
	if in.File != nil {
		var err error

		stored, err = p.Uploads.Save(ctx, in.File)
		if err != nil {
			return nil, err
		}

		f := model.File{
			Filename: stored.Key,
			IsImage:  stored.IsImage,
		}

		if stored.IsImage {
			f.Image = &stored.PublicPath
		}

		post.File = append(post.File, f)
	}

	err := p.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return fmt.Errorf("failed to create post, %w", err)
		}

		return p.Notifier.OnPostCreated(tx, &post)
	})
	if err != nil {
		if stored != nil {
			if err := p.Uploads.Remove(context.Background(), stored.Key); err != nil {
				zap.L().Error("Failed to cleanup after failed post creation", zap.String("key", stored.Key), zap.Error(err))
			}
		}

		return nil, err
	}

	metrics.PostsCreatedTotal.WithLabelValues(string(post.Tag)).Inc()

	post.Author = author
	return &post, nil
}

func (p *Posts) Get(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post

	err := p.DB.
		WithContext(ctx).
		Preload("Author").
		Preload("File").
		First(&post, id).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}

		return nil, fmt.Errorf("failed to fetch post, %w", err)
	}

	return &post, nil
}

// List returns the posts tagged with tag, oldest first
func (p *Posts) List(ctx context.Context, tag model.Tag) ([]model.Post, error) {
	posts := []model.Post{}

	err := p.DB.
		WithContext(ctx).
		Where("tag = ?", tag).
		Preload("Author").
		Preload("File").
		Order("id").
		Find(&posts).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts, %w", err)
	}

	return posts, nil
}

// Count returns the number of posts across all tags
func (p *Posts) Count(ctx context.Context) (int64, error) {
	var n int64

	err := p.DB.
		WithContext(ctx).
		Model(model.Post{}).
		Count(&n).
		Error
	if err != nil {
		return 0, fmt.Errorf("failed to count posts, %w", err)
	}

	return n, nil
}

// Delete removes a post and its files on behalf of actor. Stored content is
// removed first: failures there are logged and never stop the records from
// being deleted.
func (p *Posts) Delete(ctx context.Context, actor *model.User, id uint) error {
	if err := Authorize(actor, DeletePost(strconv.FormatUint(uint64(id), 10))); err != nil {
		return err
	}

	var post model.Post

	err := p.DB.
		WithContext(ctx).
		Preload("File").
		First(&post, id).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}

		return fmt.Errorf("failed to fetch post, %w", err)
	}

	for _, f := range post.File {
		if err := p.Uploads.Remove(ctx, f.Filename); err != nil {
			zap.L().Error("Failed to delete attachment content", zap.String("filename", f.Filename), zap.Uint("postID", id), zap.Error(err))
			continue
		}

		zap.L().Debug("Deleted attachment content", zap.String("filename", f.Filename))
	}

	err = p.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.File{}).Error; err != nil {
			return fmt.Errorf("failed to delete files, %w", err)
		}

		if err := tx.Delete(&model.Post{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete post, %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	metrics.PostsDeletedTotal.Inc()
	return nil
}

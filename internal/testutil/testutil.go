// Package testutil has helpers shared by tests
package testutil

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/sowzaxx7/8m-community/db"
	"github.com/sowzaxx7/8m-community/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory SQLite database private to the test
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	d, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(d))

	t.Cleanup(func() {
		if sqlDB, err := d.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return d
}

// CreateUser inserts a user with the given role
func CreateUser(t testing.TB, d *gorm.DB, id string, role model.Role, banned bool) *model.User {
	t.Helper()

	u := &model.User{
		ID:       id,
		Username: "user" + id,
		Email:    id + "@example.com",
		Role:     role,
	}
	require.NoError(t, d.Create(u).Error)

	if banned {
		require.NoError(t, d.Model(u).Update("banned", true).Error)
		u.Banned = true
	}

	return u
}

// FileHeader builds a multipart file header the way a parsed request would have it
func FileHeader(t testing.TB, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)

	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["file"][0]
}

// Storage is an in-memory storage.Storage that records every call
type Storage struct {
	mu        sync.Mutex
	Files     map[string][]byte
	Puts      []string
	Deletes   []string
	DeleteErr error
	PutErr    error
}

func NewStorage() *Storage {
	return &Storage{Files: map[string][]byte{}}
}

func (s *Storage) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Puts = append(s.Puts, key)
	if s.PutErr != nil {
		return s.PutErr
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	s.Files[key] = b
	return nil
}

func (s *Storage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Deletes = append(s.Deletes, key)
	if s.DeleteErr != nil {
		return s.DeleteErr
	}

	if _, ok := s.Files[key]; !ok {
		return errors.New("no such file")
	}

	delete(s.Files, key)
	return nil
}

func (s *Storage) URL(key string) string {
	return "/uploads/" + key
}

package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Local stores files in a directory that is served statically under PublicPath
type Local struct {
	Dir        string
	PublicPath string
}

func NewLocal(dir, publicPath string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory, %w", err)
	}

	return &Local{
		Dir:        dir,
		PublicPath: "/" + strings.Trim(publicPath, "/"),
	}, nil
}

func (l *Local) Put(ctx context.Context, key string, r io.Reader, _ int64, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p, err := l.path(key)
	if err != nil {
		return err
	}

	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("failed to create file, %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(p)
		return fmt.Errorf("failed to write file, %w", err)
	}

	return nil
}

func (l *Local) Delete(_ context.Context, key string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}

	return os.Remove(p)
}

func (l *Local) URL(key string) string {
	return path.Join(l.PublicPath, key)
}

func (l *Local) path(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || key == "." || key == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	return filepath.Join(l.Dir, key), nil
}

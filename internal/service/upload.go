package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sowzaxx7/8m-community/internal/metrics"
	"github.com/sowzaxx7/8m-community/internal/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxFileNameSize = 200

var (
	AllowedExtensions = []string{".png", ".jpg", ".jpeg", ".txt", ".zip", ".rar", ".psd"}
	ImageExtensions   = []string{".png", ".jpg", ".jpeg"}
)

// StoredFile is an accepted attachment that was written to storage
type StoredFile struct {
	Key        string
	IsImage    bool
	PublicPath string
}

// Gatekeeper decides which attachments are accepted and writes them to storage.
// Only the extension is checked, the content is never sniffed for acceptance.
type Gatekeeper struct {
	Storage storage.Storage
	// UniqueNames prefixes keys with a UUID. Without it an upload replaces any
	// earlier file with the same name
	UniqueNames bool
}

func NewGatekeeper(s storage.Storage, uniqueNames bool) *Gatekeeper {
	return &Gatekeeper{Storage: s, UniqueNames: uniqueNames}
}

// Check validates the file name of fh and returns its base name and whether
// it's an image. Nothing is written.
func (g *Gatekeeper) Check(fh *multipart.FileHeader) (name string, isImage bool, err error) {
	if fh == nil {
		return "", false, fmt.Errorf("%w: no file provided", ErrValidation)
	}

	// Browsers on windows may send the full path
	name = path.Base(strings.ReplaceAll(fh.Filename, "\\", "/"))
	if name == "" || name == "." || name == "/" || name == ".." {
		metrics.UploadsRejectedTotal.WithLabelValues("name").Inc()
		return "", false, ErrUnsupportedType
	}

	if len(name) > maxFileNameSize {
		metrics.UploadsRejectedTotal.WithLabelValues("name").Inc()
		return "", false, fmt.Errorf("%w: file name is too long", ErrValidation)
	}

	ext := strings.ToLower(filepath.Ext(name))
	if !slices.Contains(AllowedExtensions, ext) {
		metrics.UploadsRejectedTotal.WithLabelValues("type").Inc()
		return "", false, ErrUnsupportedType
	}

	return name, slices.Contains(ImageExtensions, ext), nil
}

// Save checks fh and writes its bytes to storage
func (g *Gatekeeper) Save(ctx context.Context, fh *multipart.FileHeader) (*StoredFile, error) {
	name, isImage, err := g.Check(fh)
	if err != nil {
		return nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file, %w", err)
	}
	defer f.Close()

	// The detected type is only stored as metadata
	mime, err := mimetype.DetectReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to detect content type, %w", err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind uploaded file, %w", err)
	}

	key := name
	if g.UniqueNames {
		key = uuid.NewString() + "_" + name
	}

	if err := g.Storage.Put(ctx, key, f, fh.Size, mime.String()); err != nil {
		return nil, fmt.Errorf("failed to store file, %w", err)
	}

	zap.L().Debug("Stored attachment", zap.String("key", key), zap.String("mime", mime.String()), zap.Int64("size", fh.Size))

	sf := &StoredFile{
		Key:     key,
		IsImage: isImage,
	}

	if isImage {
		sf.PublicPath = g.Storage.URL(key)
	}

	return sf, nil
}

// Remove deletes a stored file
func (g *Gatekeeper) Remove(ctx context.Context, key string) error {
	return g.Storage.Delete(ctx, key)
}

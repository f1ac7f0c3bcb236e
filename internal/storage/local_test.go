package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_PutDelete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	l, err := NewLocal(dir, "uploads/")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, l.Put(ctx, "notes.txt", strings.NewReader("hello"), 5, "text/plain"))

	b, err := os.ReadFile(filepath.Join(dir, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))

	// same key overwrites
	require.NoError(t, l.Put(ctx, "notes.txt", strings.NewReader("bye"), 3, "text/plain"))
	b, err = os.ReadFile(filepath.Join(dir, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "bye", string(b))

	assert.Equal(t, "/uploads/notes.txt", l.URL("notes.txt"))

	require.NoError(t, l.Delete(ctx, "notes.txt"))
	_, err = os.Stat(filepath.Join(dir, "notes.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	assert.ErrorIs(t, l.Delete(ctx, "notes.txt"), os.ErrNotExist)
}

func TestLocal_RejectsPaths(t *testing.T) {
	l, err := NewLocal(t.TempDir(), "/uploads")
	require.NoError(t, err)

	for _, key := range []string{"", ".", "..", "../escape.txt", "a/b.txt"} {
		err := l.Put(context.Background(), key, strings.NewReader("x"), 1, "")
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

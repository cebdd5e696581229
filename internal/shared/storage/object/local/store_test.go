package local

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndOpen(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	info, err := store.Save(ctx, "user-1", "My Resume.txt", strings.NewReader("Jane Roe\nEngineer"))
	require.NoError(t, err)
	assert.Equal(t, int64(len("Jane Roe\nEngineer")), info.Size)
	assert.True(t, strings.HasPrefix(info.MimeType, "text/plain"))
	assert.NotContains(t, info.Key, "user-1")

	rc, err := store.Open(ctx, info.Key)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "Jane Roe\nEngineer", string(body))
}

func TestPutOverwritesAndRejectsEscapes(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	_, err := store.Put(ctx, "a/b.txt", "text/plain", bytes.NewReader([]byte("one")))
	require.NoError(t, err)
	_, err = store.Put(ctx, "a/b.txt", "text/plain", bytes.NewReader([]byte("two")))
	require.NoError(t, err)

	rc, err := store.Open(ctx, "a/b.txt")
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	assert.Equal(t, "two", string(body))

	_, err = store.Put(ctx, "../outside.txt", "text/plain", bytes.NewReader(nil))
	assert.Error(t, err)
	_, err = store.Open(ctx, "../outside.txt")
	assert.Error(t, err)
}

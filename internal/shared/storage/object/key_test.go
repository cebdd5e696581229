package object

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanFileName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "cv.pdf", want: "cv.pdf"},
		{in: " dir/sub\\cv.docx ", want: "dir_sub_cv.docx"},
		{in: "tab\there.txt", want: "tab_here.txt"},
		{in: "../etc/passwd", wantErr: true},
		{in: "   ", wantErr: true},
	}
	for _, tt := range tests {
		got, err := CleanFileName(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidFileName, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestCleanFileNameTruncatesKeepingExtension(t *testing.T) {
	got, err := CleanFileName(strings.Repeat("a", 300) + ".pdf")
	require.NoError(t, err)
	assert.Len(t, got, maxFileNameLen)
	assert.True(t, strings.HasSuffix(got, ".pdf"))
}

func TestNewKeyNamespacesByUser(t *testing.T) {
	a, err := NewKey("google:1", "cv.pdf")
	require.NoError(t, err)
	b, err := NewKey("google:1", "cv.pdf")
	require.NoError(t, err)
	other, err := NewKey("guest:x", "cv.pdf")
	require.NoError(t, err)

	ns := UserNamespace("google:1")
	assert.Len(t, ns, 64)
	assert.True(t, strings.HasPrefix(a, ns+"/"))
	assert.True(t, strings.HasSuffix(a, "_cv.pdf"))
	assert.NotEqual(t, a, b)
	assert.False(t, strings.HasPrefix(other, ns))
	assert.NotContains(t, a, "google")

	_, err = NewKey("google:1", "..")
	assert.Error(t, err)
}

package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanKey(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "message-images/u1/a.png", want: "message-images/u1/a.png"},
		{in: "/signatures//u1_1.png", want: "signatures/u1_1.png"},
		{in: "..\\etc\\passwd", wantErr: true},
		{in: "a/../../b", wantErr: true},
		{in: "   ", wantErr: true},
		{in: "/", wantErr: true},
	}

	for _, tt := range tests {
		got, err := CleanKey(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidPath, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestUserObjectKey(t *testing.T) {
	key := UserObjectKey(FolderMessageImages, "user-1", "PNG")
	assert.True(t, strings.HasPrefix(key, "message-images/user-1/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.NotEqual(t, key, UserObjectKey(FolderMessageImages, "user-1", "png"))
}

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(Config{BasePath: t.TempDir(), BaseURL: "/api/v1/files/"})
	require.NoError(t, err)

	key := "profile-pictures/u1/avatar.jpg"
	require.NoError(t, s.Save(ctx, key, strings.NewReader("jpeg-bytes"), "image/jpeg"))

	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := s.Get(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	url, err := s.GetURL(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/files/profile-pictures/u1/avatar.jpg", url)

	require.NoError(t, s.Delete(ctx, key))
	ok, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(Config{BasePath: t.TempDir()})
	require.NoError(t, err)

	err = s.Save(context.Background(), "../escape.txt", strings.NewReader("x"), "text/plain")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestExtensionForContentType(t *testing.T) {
	assert.Equal(t, ".jpg", ExtensionForContentType("image/jpeg"))
	assert.Equal(t, ".png", ExtensionForContentType("IMAGE/PNG"))
	assert.Equal(t, ".bin", ExtensionForContentType("application/pdf"))
}

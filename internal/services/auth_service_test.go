package services

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"creatorhub_backend/internal/auth"
	"creatorhub_backend/internal/imageprocessor"
	"creatorhub_backend/internal/models"
	"creatorhub_backend/internal/services/dto"
	"creatorhub_backend/internal/storage"
	"creatorhub_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	auth.Init("services-test-secret", time.Hour)
	users := newFakeUserRepo()
	svc := NewAuthService(users)

	_, err := svc.Register(nil, &dto.RegisterRequest{Email: "ann@example.com", Password: "short", FullName: "Ann"})
	assert.Contains(t, validationDetails(t, err), "password")

	registered, err := svc.Register(nil, &dto.RegisterRequest{Email: "ann@example.com", Password: "correct-horse", FullName: " Ann "})
	require.NoError(t, err)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "creator", registered.User.Role)
	assert.Equal(t, "Ann", registered.User.FullName)
	assert.False(t, registered.User.OnboardingComplete)

	_, err = svc.Register(nil, &dto.RegisterRequest{Email: "ann@example.com", Password: "correct-horse", FullName: "Ann"})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	_, err = svc.Login(nil, &dto.LoginRequest{Email: "ann@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = svc.Login(nil, &dto.LoginRequest{Email: "nobody@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	loggedIn, err := svc.Login(nil, &dto.LoginRequest{Email: "ann@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	require.NotNil(t, loggedIn.User.LastLoginAt)

	claims, err := auth.ParseToken(loggedIn.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)

	me, err := svc.Me(nil, registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", me.Email)
}

func TestProfile_UpdateAndAvatar(t *testing.T) {
	users := newFakeUserRepo(&models.User{BaseModel: models.BaseModel{ID: "u1"}, Email: "ann@example.com", Role: models.UserRoleCreator})
	store, err := storage.NewLocalStorage(storage.Config{BasePath: t.TempDir(), BaseURL: "/api/v1/files"})
	require.NoError(t, err)
	svc := NewProfileService(users, store, imageprocessor.NewProcessor(85, 400), UploadLimits{MaxSize: 1 << 20})

	name := "  Ann Lee "
	updated, err := svc.UpdateProfile(nil, "u1", &dto.UpdateProfileRequest{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", updated.FullName)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 800, 600))))
	avatar, err := svc.UploadAvatar(context.Background(), nil, "u1", &dto.ImageUpload{
		Reader: &buf, Filename: "me.png", Size: int64(buf.Len()), ContentType: "image/png",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(avatar.AvatarURL, "/api/v1/files/profile-pictures/u1/"))
	assert.True(t, strings.HasSuffix(avatar.AvatarURL, ".jpg"))

	user, _ := users.FindByID(nil, "u1")
	assert.Equal(t, avatar.AvatarURL, user.AvatarURL)

	_, err = svc.UploadAvatar(context.Background(), nil, "u1", &dto.ImageUpload{
		Reader: strings.NewReader("garbage"), Filename: "me.png", Size: 7, ContentType: "image/png",
	})
	requireCode(t, err, apperrors.CodeValidationFailed)
}

package services

import (
	"context"
	"testing"

	"creatorhub_backend/internal/models"
	"creatorhub_backend/internal/services/dto"
	"creatorhub_backend/pkg/apperrors"
	"creatorhub_backend/ws"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBanFixture() (BanService, *fakeBanRepo, *fakeNotificationRepo, *recordingPublisher) {
	users := newFakeUserRepo(
		&models.User{BaseModel: models.BaseModel{ID: "admin"}, Role: models.UserRoleAdmin},
		&models.User{BaseModel: models.BaseModel{ID: "admin2"}, Role: models.UserRoleAdmin},
		&models.User{BaseModel: models.BaseModel{ID: "u1"}, Role: models.UserRoleCreator},
	)
	bans := newFakeBanRepo()
	notifications := &fakeNotificationRepo{}
	publisher := &recordingPublisher{}
	svc := NewBanService(bans, users, NewNotificationService(notifications, users, publisher), publisher)
	return svc, bans, notifications, publisher
}

func TestBan_Rules(t *testing.T) {
	svc, _, _, _ := newBanFixture()
	ctx := context.Background()

	_, err := svc.Ban(ctx, nil, "admin", "u1", &dto.BanUserRequest{Reason: " "})
	assert.Contains(t, validationDetails(t, err), "reason")

	_, err = svc.Ban(ctx, nil, "admin", "admin", &dto.BanUserRequest{Reason: "test"})
	requireCode(t, err, apperrors.CodeInvalidOperation)

	_, err = svc.Ban(ctx, nil, "admin", "admin2", &dto.BanUserRequest{Reason: "test"})
	assert.ErrorIs(t, err, apperrors.ErrCannotBanAdmin)

	_, err = svc.Ban(ctx, nil, "admin", "ghost", &dto.BanUserRequest{Reason: "test"})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestBanAndUnban(t *testing.T) {
	svc, _, notifications, publisher := newBanFixture()
	ctx := context.Background()

	ban, err := svc.Ban(ctx, nil, "admin", "u1", &dto.BanUserRequest{Reason: "spam"})
	require.NoError(t, err)
	assert.Equal(t, "admin", ban.BannedBy)

	_, err = svc.Ban(ctx, nil, "admin", "u1", &dto.BanUserRequest{Reason: "again"})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyBanned)

	status, err := svc.Status(nil, "u1")
	require.NoError(t, err)
	assert.True(t, status.Banned)
	assert.Equal(t, "spam", status.Reason)

	require.NoError(t, svc.Unban(ctx, nil, "admin", "u1"))
	assert.ErrorIs(t, svc.Unban(ctx, nil, "admin", "u1"), apperrors.ErrNotBanned)

	status, err = svc.Status(nil, "u1")
	require.NoError(t, err)
	assert.False(t, status.Banned)

	events := publisher.byTable(ws.TableBans)
	require.Len(t, events, 2)
	assert.Equal(t, ws.EventInsert, events[0].evt.Type)
	assert.Equal(t, ws.EventDelete, events[1].evt.Type)
	assert.Equal(t, []string{"u1"}, events[1].audience)

	notes := notifications.forUser("u1")
	require.Len(t, notes, 2)
	assert.Equal(t, models.NotificationTypeAccount, notes[0].Type)
}

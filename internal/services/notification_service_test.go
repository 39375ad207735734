package services

import (
	"testing"
	"time"

	"creatorhub_backend/internal/models"
	"creatorhub_backend/internal/services/dto"
	"creatorhub_backend/pkg/apperrors"
	"creatorhub_backend/ws"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotify_StoresDataAndPublishes(t *testing.T) {
	repo := &fakeNotificationRepo{}
	publisher := &recordingPublisher{}
	svc := NewNotificationService(repo, newFakeUserRepo(), publisher)

	n, err := svc.Notify(nil, "u1", models.NotificationTypePayout, " Title ", "Body", map[string]interface{}{"payout_id": "p1"})
	require.NoError(t, err)
	assert.Equal(t, "Title", n.Title)
	assert.JSONEq(t, `{"payout_id":"p1"}`, string(n.Data))

	events := publisher.byTable(ws.TableNotifications)
	require.Len(t, events, 1)
	assert.Equal(t, []string{"u1"}, events[0].audience)
	assert.Equal(t, "u1", events[0].evt.Columns["user_id"])
}

func TestNotificationReadFlow(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, newFakeUserRepo(), &recordingPublisher{})

	first, err := svc.Notify(nil, "u1", models.NotificationTypeAccount, "a", "", nil)
	require.NoError(t, err)
	_, err = svc.Notify(nil, "u1", models.NotificationTypeAccount, "b", "", nil)
	require.NoError(t, err)

	count, err := svc.UnreadCount(nil, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	require.NoError(t, svc.MarkAsRead(nil, "u1", first.ID))
	assert.ErrorIs(t, svc.MarkAsRead(nil, "u2", first.ID), apperrors.ErrNotificationNotFound)

	list, err := svc.List(nil, "u1", &dto.NotificationListRequest{UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)
	assert.EqualValues(t, 1, list.Unread)

	updated, err := svc.MarkAllAsRead(nil, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, updated)
}

func TestAnnounce_ReachesEveryCreator(t *testing.T) {
	repo := &fakeNotificationRepo{}
	users := newFakeUserRepo(
		&models.User{BaseModel: models.BaseModel{ID: "admin"}, Role: models.UserRoleAdmin},
		&models.User{BaseModel: models.BaseModel{ID: "u1"}, Role: models.UserRoleCreator},
		&models.User{BaseModel: models.BaseModel{ID: "u2"}, Role: models.UserRoleCreator},
	)
	publisher := &recordingPublisher{}
	svc := NewNotificationService(repo, users, publisher)

	resp, err := svc.Announce(nil, "admin", &dto.AnnouncementRequest{Title: "Maintenance", Content: "Tonight"})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Recipients)
	assert.Len(t, repo.forUser("u1"), 1)
	assert.Len(t, repo.forUser("admin"), 0)
	assert.Len(t, publisher.byTable(ws.TableNotifications), 2)
}

func TestCleanupRead(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, newFakeUserRepo(), &recordingPublisher{})

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, repo.Create(nil, &models.Notification{UserID: "u1", Read: true, ReadAt: &old}))
	require.NoError(t, repo.Create(nil, &models.Notification{UserID: "u1"}))

	removed, err := svc.CleanupRead(nil, 24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	_, err = svc.CleanupRead(nil, 0)
	assert.Error(t, err)
}

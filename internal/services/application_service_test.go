package services

import (
	"context"
	"testing"
	"time"

	"creatorhub_backend/internal/email"
	"creatorhub_backend/internal/models"
	"creatorhub_backend/internal/services/dto"
	"creatorhub_backend/pkg/apperrors"
	"creatorhub_backend/ws"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type applicationFixture struct {
	svc       ApplicationService
	apps      *fakeApplicationRepo
	mailer    *recordingMailer
	publisher *recordingPublisher
	notices   *recordingNotices
}

func newApplicationFixture(t *testing.T) *applicationFixture {
	t.Helper()
	f := &applicationFixture{
		apps:      newFakeApplicationRepo(nil, nil),
		mailer:    &recordingMailer{},
		publisher: &recordingPublisher{},
		notices:   &recordingNotices{},
	}
	now := time.Now()
	f.apps.add(&models.Application{
		BaseModel: models.BaseModel{ID: "app1", CreatedAt: now.Add(-time.Hour)},
		UserID:    "u1", Name: "Ann", Email: "ann@example.com",
		Interests: pq.StringArray{"channelManagement"},
		Status:    models.ApplicationStatusPending,
	})
	f.apps.add(&models.Application{
		BaseModel: models.BaseModel{ID: "app2", CreatedAt: now},
		UserID:    "u2", Name: "Bob", Email: "bob@example.com",
		Interests: pq.StringArray{"other"},
		Status:    models.ApplicationStatusPending,
	})
	f.svc = NewApplicationService(f.apps, f.mailer, f.publisher, f.notices)
	return f
}

func TestApplicationList_DefaultsToPending(t *testing.T) {
	f := newApplicationFixture(t)

	list, err := f.svc.List(nil, &dto.ListApplicationsRequest{})
	require.NoError(t, err)
	assert.Equal(t, "pending", list.Status)
	require.Len(t, list.Applications, 2)
	assert.Equal(t, "app2", list.Applications[0].ID, "newest first")
}

func TestApplicationList_UnknownStatus(t *testing.T) {
	f := newApplicationFixture(t)

	_, err := f.svc.List(nil, &dto.ListApplicationsRequest{Status: "archived"})
	requireCode(t, err, apperrors.CodeInvalidStatus)
}

func TestUpdateStatus_RejectRequiresReason(t *testing.T) {
	f := newApplicationFixture(t)

	_, err := f.svc.UpdateStatus(context.Background(), nil, "admin", "app1", &dto.UpdateApplicationStatusRequest{
		Status: "rejected",
		Reason: "   ",
	})
	assert.ErrorIs(t, err, apperrors.ErrRejectionReasonRequired)
	assert.Equal(t, "rejection-reason-required", f.notices.last().ID)

	app, _ := f.apps.FindByID(nil, "app1")
	assert.Equal(t, models.ApplicationStatusPending, app.Status)
}

func TestUpdateStatus_ApproveUsesDefaultReason(t *testing.T) {
	f := newApplicationFixture(t)

	resp, err := f.svc.UpdateStatus(context.Background(), nil, "admin", "app1", &dto.UpdateApplicationStatusRequest{Status: "approved"})
	require.NoError(t, err)

	assert.Equal(t, models.ApplicationStatusApproved, resp.Application.Status)
	assert.Equal(t, "Application approved", f.apps.lastUpdate.Reason)
	assert.Equal(t, "admin", f.apps.lastUpdate.AdminID)
	require.NotNil(t, f.apps.lastUpdate.Notification)
	assert.Equal(t, "Application approved", f.apps.lastUpdate.Notification.Title)

	// список перезагружается для прежнего статуса
	assert.Equal(t, "pending", resp.List.Status)
	require.Len(t, resp.List.Applications, 1)
	assert.Equal(t, "app2", resp.List.Applications[0].ID)

	updates := f.publisher.byTable(ws.TableApplications)
	require.Len(t, updates, 1)
	assert.ElementsMatch(t, []string{"u1", "admin"}, updates[0].audience)
	require.Len(t, f.publisher.byTable(ws.TableNotifications), 1)

	require.Eventually(t, func() bool { return f.mailer.count() == 1 }, time.Second, 10*time.Millisecond)
	mail := f.mailer.lastMail()
	assert.Equal(t, email.TemplateApplicationApproved, mail.template)
	assert.Equal(t, []string{"ann@example.com"}, mail.to)
}

func TestUpdateStatus_RejectStoresReason(t *testing.T) {
	f := newApplicationFixture(t)

	resp, err := f.svc.UpdateStatus(context.Background(), nil, "admin", "app2", &dto.UpdateApplicationStatusRequest{
		Status:  "rejected",
		Reason:  " Not a fit ",
		Refresh: "rejected",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Application.RejectionReason)
	assert.Equal(t, "Not a fit", *resp.Application.RejectionReason)
	assert.Equal(t, "rejected", resp.List.Status)
	require.Len(t, resp.List.Applications, 1)

	require.Eventually(t, func() bool { return f.mailer.count() == 1 }, time.Second, 10*time.Millisecond)
	mail := f.mailer.lastMail()
	assert.Equal(t, email.TemplateApplicationRejected, mail.template)
	assert.Equal(t, "Not a fit", mail.data["Reason"])
}

func TestUpdateStatus_BackToPendingSendsNoEmail(t *testing.T) {
	f := newApplicationFixture(t)

	_, err := f.svc.UpdateStatus(context.Background(), nil, "admin", "app1", &dto.UpdateApplicationStatusRequest{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, "Application pending", f.apps.lastUpdate.Reason)
	assert.Equal(t, "Application under review", f.apps.lastUpdate.Notification.Title)

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, f.mailer.count())
}

func TestUpdateStatus_UnknownApplication(t *testing.T) {
	f := newApplicationFixture(t)

	_, err := f.svc.UpdateStatus(context.Background(), nil, "admin", "missing", &dto.UpdateApplicationStatusRequest{Status: "approved"})
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)
}

func TestGetMine(t *testing.T) {
	f := newApplicationFixture(t)

	mine, err := f.svc.GetMine(nil, "u2")
	require.NoError(t, err)
	assert.Equal(t, "app2", mine.ID)
	assert.Equal(t, []string{"other"}, mine.Interests)

	_, err = f.svc.GetMine(nil, "nobody")
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)
}

package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"creatorhub_backend/internal/models"
	"creatorhub_backend/internal/services/dto"
	"creatorhub_backend/internal/storage"
	"creatorhub_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type balanceFixture struct {
	svc           *BalanceServiceImpl
	contracts     *fakeContractRepo
	payouts       *fakePayoutRepo
	notifications *fakeNotificationRepo
	basePath      string
}

func newBalanceFixture(t *testing.T) *balanceFixture {
	t.Helper()
	users := newFakeUserRepo(
		&models.User{BaseModel: models.BaseModel{ID: "u1"}, Email: "ann@example.com", Role: models.UserRoleCreator},
	)
	basePath := t.TempDir()
	store, err := storage.NewLocalStorage(storage.Config{BasePath: basePath, BaseURL: "/api/v1/files"})
	require.NoError(t, err)

	f := &balanceFixture{
		contracts:     newFakeContractRepo(),
		payouts:       newFakePayoutRepo(),
		notifications: &fakeNotificationRepo{},
		basePath:      basePath,
	}
	notifications := NewNotificationService(f.notifications, users, &recordingPublisher{})
	f.svc = NewBalanceService(f.contracts, f.payouts, users, notifications, store, 1<<20).(*BalanceServiceImpl)
	f.svc.now = func() time.Time { return time.UnixMilli(1714564800000) }
	return f
}

func signatureDataURL(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	img.Set(1, 1, color.Black)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func validContract(method string) *dto.ContractRequest {
	return &dto.ContractRequest{
		LegalName:       "Ann Lee",
		Address:         "1 Main St",
		City:            "Springfield",
		State:           "IL",
		Zip:             "62701",
		Country:         "US",
		SignatureMethod: method,
	}
}

func TestValidateContract_ReportsEveryField(t *testing.T) {
	problems := validateContract(&dto.ContractRequest{SignatureMethod: "type", City: "  "})

	assert.Equal(t, map[string]string{
		"legal_name":     "This field is required",
		"address":        "This field is required",
		"city":           "This field is required",
		"state":          "This field is required",
		"zip":            "This field is required",
		"country":        "This field is required",
		"signature_text": "Please type your signature",
	}, problems)

	problems = validateContract(&dto.ContractRequest{SignatureMethod: "stamp"})
	assert.Equal(t, "Must be one of: type, draw", problems["signature_method"])
}

func TestSaveContract_TypedSignature(t *testing.T) {
	f := newBalanceFixture(t)
	req := validContract("type")
	req.SignatureText = "  Ann Lee "

	contract, err := f.svc.SaveContract(context.Background(), nil, "u1", req)
	require.NoError(t, err)
	assert.Equal(t, models.SignatureMethodType, contract.SignatureMethod)
	require.NotNil(t, contract.SignatureText)
	assert.Equal(t, "Ann Lee", *contract.SignatureText)
	assert.Nil(t, contract.SignatureURL)
}

func TestSaveContract_DrawnSignatureIsStored(t *testing.T) {
	f := newBalanceFixture(t)
	req := validContract("draw")
	req.SignatureImage = signatureDataURL(t)

	contract, err := f.svc.SaveContract(context.Background(), nil, "u1", req)
	require.NoError(t, err)
	require.NotNil(t, contract.SignatureURL)
	assert.Equal(t, "/api/v1/files/signatures/u1_1714564800000.png", *contract.SignatureURL)
	assert.Nil(t, contract.SignatureText)

	_, err = os.Stat(filepath.Join(f.basePath, "signatures", "u1_1714564800000.png"))
	assert.NoError(t, err)
}

func TestSaveContract_InvalidDrawing(t *testing.T) {
	f := newBalanceFixture(t)
	req := validContract("draw")
	req.SignatureImage = "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("not a png"))

	_, err := f.svc.SaveContract(context.Background(), nil, "u1", req)
	details := validationDetails(t, err)
	assert.Contains(t, details, "signature_image")

	req.SignatureImage = "data:image/jpeg;base64,AAAA"
	_, err = f.svc.SaveContract(context.Background(), nil, "u1", req)
	validationDetails(t, err)
}

func TestSaveContract_UpsertsByUser(t *testing.T) {
	f := newBalanceFixture(t)
	req := validContract("type")
	req.SignatureText = "Ann"

	first, err := f.svc.SaveContract(context.Background(), nil, "u1", req)
	require.NoError(t, err)

	req.City = "Chicago"
	second, err := f.svc.SaveContract(context.Background(), nil, "u1", req)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Chicago", second.City)

	_, err = f.svc.GetContract(nil, "nobody")
	assert.ErrorIs(t, err, apperrors.ErrContractNotFound)
}

func TestPayoutLifecycle(t *testing.T) {
	f := newBalanceFixture(t)
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := f.svc.CreatePayout(nil, "admin", &dto.CreatePayoutRequest{UserID: "ghost", Amount: 10, PayoutDate: date})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	payout, err := f.svc.CreatePayout(nil, "admin", &dto.CreatePayoutRequest{
		UserID: "u1", Amount: 125.5, Currency: "eur", PayoutDate: date,
	})
	require.NoError(t, err)
	assert.Equal(t, "EUR", payout.Currency)
	assert.Equal(t, models.PayoutStatusPending, payout.Status)

	balance, err := f.svc.GetBalance(nil, "u1")
	require.NoError(t, err)
	require.Len(t, balance.Payouts, 1)
	assert.Equal(t, 125.5, balance.Summary.PendingTotal)
	assert.EqualValues(t, 1, balance.Summary.PendingCount)

	completed, err := f.svc.CompletePayout(nil, "admin", payout.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusCompleted, completed.Status)

	_, err = f.svc.CompletePayout(nil, "admin", payout.ID)
	assert.ErrorIs(t, err, apperrors.ErrPayoutAlreadyCompleted)

	_, err = f.svc.CompletePayout(nil, "admin", "missing")
	assert.ErrorIs(t, err, apperrors.ErrPayoutNotFound)

	summary, err := f.svc.Summary(nil, "u1")
	require.NoError(t, err)
	assert.Equal(t, 125.5, summary.CompletedTotal)
	assert.Zero(t, summary.PendingCount)

	notes := f.notifications.forUser("u1")
	require.Len(t, notes, 2)
	assert.Equal(t, "Payout scheduled", notes[0].Title)
	assert.Equal(t, "Payout completed", notes[1].Title)
	assert.Equal(t, models.NotificationTypePayout, notes[1].Type)
}

func TestCompletePayout_ConcurrentCallsCompleteOnce(t *testing.T) {
	f := newBalanceFixture(t)
	payout, err := f.svc.CreatePayout(nil, "admin", &dto.CreatePayoutRequest{
		UserID: "u1", Amount: 40, Currency: "usd", PayoutDate: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	var ok, conflicts int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.CompletePayout(nil, "admin", payout.ID); err == nil {
				atomic.AddInt32(&ok, 1)
			} else if assert.ErrorIs(t, err, apperrors.ErrPayoutAlreadyCompleted) {
				atomic.AddInt32(&conflicts, 1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, ok)
	assert.EqualValues(t, 7, conflicts)

	completed := 0
	for _, n := range f.notifications.forUser("u1") {
		if n.Title == "Payout completed" {
			completed++
		}
	}
	assert.Equal(t, 1, completed)
}

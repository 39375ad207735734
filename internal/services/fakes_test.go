package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"creatorhub_backend/internal/email"
	"creatorhub_backend/internal/models"
	"creatorhub_backend/internal/notice"
	"creatorhub_backend/internal/repositories"
	"creatorhub_backend/ws"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Фейки репозиториев для unit-тестов сервисов. db всегда nil.
// Async-задачи (runAsync) тоже ходят в репозитории, поэтому все фейки под мьютексом.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(db *gorm.DB, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrUserAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(db *gorm.DB, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindFirstAdmin(db *gorm.DB) (*models.User, error) {
	ids, _ := r.FindIDsByRole(db, models.UserRoleAdmin)
	if len(ids) == 0 {
		return nil, repositories.ErrUserNotFound
	}
	return r.FindByID(db, ids[0])
}

func (r *fakeUserRepo) FindNonAdminsByIDs(db *gorm.DB, ids []string) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok && !u.IsAdmin() {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) FindIDsByRole(db *gorm.DB, role models.UserRole) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for id, u := range r.users {
		if u.Role == role {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *fakeUserRepo) UpdateProfile(db *gorm.DB, userID string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	if v, ok := fields["full_name"].(string); ok {
		u.FullName = v
	}
	if v, ok := fields["username"].(string); ok {
		u.Username = v
	}
	return nil
}

func (r *fakeUserRepo) SetOnboardingComplete(db *gorm.DB, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.OnboardingComplete = true
	}
	return nil
}

func (r *fakeUserRepo) UpdateAvatar(db *gorm.DB, userID, avatarURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.AvatarURL = avatarURL
	return nil
}

func (r *fakeUserRepo) TouchLastLogin(db *gorm.DB, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

type fakeOnboardingRepo struct {
	mu     sync.Mutex
	drafts map[string]*models.OnboardingDraft
}

func newFakeOnboardingRepo() *fakeOnboardingRepo {
	return &fakeOnboardingRepo{drafts: make(map[string]*models.OnboardingDraft)}
}

func (r *fakeOnboardingRepo) FindDraft(db *gorm.DB, userID string) (*models.OnboardingDraft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drafts[userID]
	if !ok {
		return nil, repositories.ErrDraftNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *fakeOnboardingRepo) SaveDraft(db *gorm.DB, draft *models.OnboardingDraft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *draft
	r.drafts[draft.UserID] = &cp
	return nil
}

func (r *fakeOnboardingRepo) draft(userID string) *models.OnboardingDraft {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.drafts[userID]
}

type fakeApplicationRepo struct {
	mu            sync.Mutex
	apps          map[string]*models.Application
	approvedLinks map[string]string // ссылка -> владелец
	createErr     error
	lastUpdate    repositories.StatusUpdate
	users         *fakeUserRepo
	onboarding    *fakeOnboardingRepo
}

func newFakeApplicationRepo(users *fakeUserRepo, onboarding *fakeOnboardingRepo) *fakeApplicationRepo {
	return &fakeApplicationRepo{
		apps:          make(map[string]*models.Application),
		approvedLinks: make(map[string]string),
		users:         users,
		onboarding:    onboarding,
	}
}

func (r *fakeApplicationRepo) CreateAndCompleteOnboarding(db *gorm.DB, app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, a := range r.apps {
		if a.UserID == app.UserID {
			return repositories.ErrApplicationExists
		}
	}
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	cp := *app
	r.apps[app.ID] = &cp

	if r.users != nil {
		_ = r.users.SetOnboardingComplete(db, app.UserID)
	}
	if r.onboarding != nil {
		r.onboarding.mu.Lock()
		delete(r.onboarding.drafts, app.UserID)
		r.onboarding.mu.Unlock()
	}
	return nil
}

func (r *fakeApplicationRepo) add(app *models.Application) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *app
	r.apps[app.ID] = &cp
}

func (r *fakeApplicationRepo) FindByID(db *gorm.DB, id string) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok {
		return nil, repositories.ErrApplicationNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeApplicationRepo) FindByUserID(db *gorm.DB, userID string) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.apps {
		if a.UserID == userID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repositories.ErrApplicationNotFound
}

func (r *fakeApplicationRepo) ListByStatus(db *gorm.DB, status models.ApplicationStatus, page repositories.Pagination) ([]models.Application, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Application
	for _, a := range r.apps {
		if a.Status == status {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (r *fakeApplicationRepo) ExistsApprovedWithLink(db *gorm.DB, link, excludeUserID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owner, ok := r.approvedLinks[link]
	return ok && owner != excludeUserID, nil
}

func (r *fakeApplicationRepo) UpdateStatusWithAdmin(db *gorm.DB, upd repositories.StatusUpdate) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastUpdate = upd
	a, ok := r.apps[upd.ApplicationID]
	if !ok {
		return nil, repositories.ErrApplicationNotFound
	}
	a.Status = upd.NewStatus
	a.ReviewedBy = &upd.AdminID
	if upd.NewStatus == models.ApplicationStatusRejected {
		reason := upd.Reason
		a.RejectionReason = &reason
	} else {
		a.RejectionReason = nil
	}
	if upd.Notification != nil {
		upd.Notification.UserID = a.UserID
	}
	cp := *a
	return &cp, nil
}

func (r *fakeApplicationRepo) CountByStatus(db *gorm.DB) (map[models.ApplicationStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[models.ApplicationStatus]int64)
	for _, a := range r.apps {
		out[a.Status]++
	}
	return out, nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []models.Message
	activity []repositories.ParticipantActivity
}

func (r *fakeMessageRepo) Create(db *gorm.DB, message *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	message.CreatedAt = time.Now()
	r.messages = append(r.messages, *message)
	return nil
}

func (r *fakeMessageRepo) FindThread(db *gorm.DB, userA, userB string) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Message
	for _, m := range r.messages {
		if (m.SenderID == userA && m.ReceiverID == userB) || (m.SenderID == userB && m.ReceiverID == userA) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) LatestActivityByParticipant(db *gorm.DB) ([]repositories.ParticipantActivity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]repositories.ParticipantActivity(nil), r.activity...), nil
}

func (r *fakeMessageRepo) MarkThreadRead(db *gorm.DB, receiverID, senderID string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for i := range r.messages {
		m := &r.messages[i]
		if m.ReceiverID == receiverID && m.SenderID == senderID && m.ReadAt == nil {
			m.ReadAt = &at
			n++
		}
	}
	return n, nil
}

func (r *fakeMessageRepo) CountUnread(db *gorm.DB, receiverID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.messages {
		if m.ReceiverID == receiverID && m.ReadAt == nil {
			n++
		}
	}
	return n, nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*models.Notification
}

func (r *fakeNotificationRepo) Create(db *gorm.DB, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *fakeNotificationRepo) CreateBulk(db *gorm.DB, ns []*models.Notification) error {
	for _, n := range ns {
		if err := r.Create(db, n); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeNotificationRepo) FindByUser(db *gorm.DB, userID string, criteria repositories.NotificationCriteria) ([]models.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.notifications {
		if n.UserID != userID || (criteria.UnreadOnly && n.Read) {
			continue
		}
		if criteria.Type != "" && n.Type != criteria.Type {
			continue
		}
		out = append(out, *n)
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) CountUnread(db *gorm.DB, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAsRead(db *gorm.DB, userID, notificationID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == notificationID && n.UserID == userID {
			n.Read = true
			n.ReadAt = &at
			return nil
		}
	}
	return repositories.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) MarkAllAsRead(db *gorm.DB, userID string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			n.ReadAt = &at
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) DeleteReadOlderThan(db *gorm.DB, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.notifications[:0]
	var removed int64
	for _, n := range r.notifications {
		if n.Read && n.ReadAt != nil && n.ReadAt.Before(before) {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	r.notifications = kept
	return removed, nil
}

func (r *fakeNotificationRepo) forUser(userID string) []*models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

type fakeBanRepo struct {
	mu   sync.Mutex
	bans map[string]*models.Ban
}

func newFakeBanRepo() *fakeBanRepo {
	return &fakeBanRepo{bans: make(map[string]*models.Ban)}
}

func (r *fakeBanRepo) Create(db *gorm.DB, ban *models.Ban) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bans[ban.UserID]; ok {
		return repositories.ErrAlreadyBanned
	}
	if ban.ID == "" {
		ban.ID = uuid.NewString()
	}
	ban.CreatedAt = time.Now()
	cp := *ban
	r.bans[ban.UserID] = &cp
	return nil
}

func (r *fakeBanRepo) DeleteByUserID(db *gorm.DB, userID string) (*models.Ban, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bans[userID]
	if !ok {
		return nil, repositories.ErrBanNotFound
	}
	delete(r.bans, userID)
	return b, nil
}

func (r *fakeBanRepo) FindByUserID(db *gorm.DB, userID string) (*models.Ban, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bans[userID]
	if !ok {
		return nil, repositories.ErrBanNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBanRepo) List(db *gorm.DB, page repositories.Pagination) ([]models.Ban, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Ban
	for _, b := range r.bans {
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

type fakeContractRepo struct {
	mu        sync.Mutex
	contracts map[string]*models.Contract
}

func newFakeContractRepo() *fakeContractRepo {
	return &fakeContractRepo{contracts: make(map[string]*models.Contract)}
}

func (r *fakeContractRepo) FindByUserID(db *gorm.DB, userID string) (*models.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contracts[userID]
	if !ok {
		return nil, repositories.ErrContractNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeContractRepo) Upsert(db *gorm.DB, contract *models.Contract) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.contracts[contract.UserID]; ok {
		contract.ID = existing.ID
	} else if contract.ID == "" {
		contract.ID = uuid.NewString()
	}
	cp := *contract
	r.contracts[contract.UserID] = &cp
	return nil
}

type fakePayoutRepo struct {
	mu      sync.Mutex
	payouts map[string]*models.Payout
}

func newFakePayoutRepo() *fakePayoutRepo {
	return &fakePayoutRepo{payouts: make(map[string]*models.Payout)}
}

func (r *fakePayoutRepo) Create(db *gorm.DB, payout *models.Payout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if payout.ID == "" {
		payout.ID = uuid.NewString()
	}
	cp := *payout
	r.payouts[payout.ID] = &cp
	return nil
}

func (r *fakePayoutRepo) FindByID(db *gorm.DB, id string) (*models.Payout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payouts[id]
	if !ok {
		return nil, repositories.ErrPayoutNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePayoutRepo) FindByUser(db *gorm.DB, userID string) ([]models.Payout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Payout
	for _, p := range r.payouts {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PayoutDate.After(out[j].PayoutDate) })
	return out, nil
}

func (r *fakePayoutRepo) Summary(db *gorm.DB, userID string) (*repositories.PayoutSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := &repositories.PayoutSummary{}
	for _, p := range r.payouts {
		if p.UserID != userID {
			continue
		}
		switch p.Status {
		case models.PayoutStatusPending:
			s.PendingTotal += p.Amount
			s.PendingCount++
		case models.PayoutStatusCompleted:
			s.CompletedTotal += p.Amount
			s.CompletedCount++
		}
	}
	return s, nil
}

func (r *fakePayoutRepo) CompletePending(db *gorm.DB, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payouts[id]
	if !ok {
		return repositories.ErrPayoutNotFound
	}
	if p.Status != models.PayoutStatusPending {
		return repositories.ErrPayoutNotPending
	}
	p.Status = models.PayoutStatusCompleted
	return nil
}

// recordingPublisher запоминает опубликованные события
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	evt      ws.ChangeEvent
	audience []string
}

func (p *recordingPublisher) Publish(evt ws.ChangeEvent, audience ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{evt: evt, audience: append([]string(nil), audience...)})
}

func (p *recordingPublisher) byTable(table string) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedEvent
	for _, e := range p.events {
		if e.evt.Table == table {
			out = append(out, e)
		}
	}
	return out
}

// recordingNotices запоминает тосты без дедупликации
type recordingNotices struct {
	mu      sync.Mutex
	notices []notice.Notice
}

func (n *recordingNotices) Notify(ctx context.Context, userID string, nt notice.Notice) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, nt)
	return true
}

func (n *recordingNotices) ids() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.notices))
	for _, nt := range n.notices {
		out = append(out, nt.ID)
	}
	return out
}

func (n *recordingNotices) last() notice.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.notices) == 0 {
		return notice.Notice{}
	}
	return n.notices[len(n.notices)-1]
}

// verifierFunc - verification.Verifier из функции
type verifierFunc func(ctx context.Context, url, code string) error

func (f verifierFunc) Verify(ctx context.Context, url, code string) error {
	return f(ctx, url, code)
}

func (r *fakeApplicationRepo) lastCreatedFor(userID string) *models.Application {
	app, err := r.FindByUserID(nil, userID)
	if err != nil {
		return nil
	}
	return app
}

// recordingMailer - email.Provider, который только запоминает шаблонные письма
type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

type sentMail struct {
	to       []string
	template string
	data     email.TemplateData
}

func (m *recordingMailer) Send(e *email.Email) error { return nil }

func (m *recordingMailer) SendTemplate(to []string, subject string, templateName string, data email.TemplateData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, template: templateName, data: data})
	return nil
}

func (m *recordingMailer) Validate() error { return nil }

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *recordingMailer) lastMail() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"creatorhub_backend/internal/logger"
	"creatorhub_backend/internal/models"
	"creatorhub_backend/internal/notice"
	"creatorhub_backend/internal/repositories"
	"creatorhub_backend/internal/services/dto"
	"creatorhub_backend/internal/verification"
	"creatorhub_backend/pkg/apperrors"
	"creatorhub_backend/ws"

	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	stepInterests = 1
	stepContact   = 2
)

type OnboardingService interface {
	GetState(db *gorm.DB, userID string) (*dto.OnboardingStateResponse, error)
	SaveState(db *gorm.DB, userID string, req *dto.SaveOnboardingRequest) (*dto.OnboardingStateResponse, error)
	RegenerateCode(db *gorm.DB, userID string) (*dto.VerificationCodeResponse, error)
	VerifyChannel(ctx context.Context, db *gorm.DB, userID string, req *dto.VerifyChannelRequest) (*dto.VerifyChannelResponse, error)
	SubmitInterests(ctx context.Context, db *gorm.DB, userID string, req *dto.SubmitInterestsRequest) (*dto.SubmitInterestsResponse, error)
	FinalSubmit(ctx context.Context, db *gorm.DB, userID string, req *dto.FinalSubmitRequest) (*models.Application, error)
}

type OnboardingServiceImpl struct {
	userRepo       repositories.UserRepository
	onboardingRepo repositories.OnboardingRepository
	appRepo        repositories.ApplicationRepository
	verifier       verification.Verifier
	notices        NoticeSender
	publisher      ws.Publisher
}

func NewOnboardingService(
	userRepo repositories.UserRepository,
	onboardingRepo repositories.OnboardingRepository,
	appRepo repositories.ApplicationRepository,
	verifier verification.Verifier,
	notices NoticeSender,
	publisher ws.Publisher,
) OnboardingService {
	return &OnboardingServiceImpl{
		userRepo:       userRepo,
		onboardingRepo: onboardingRepo,
		appRepo:        appRepo,
		verifier:       verifier,
		notices:        notices,
		publisher:      publisher,
	}
}

// State

func (s *OnboardingServiceImpl) GetState(db *gorm.DB, userID string) (*dto.OnboardingStateResponse, error) {
	_, draft, err := s.loadDraft(db, userID)
	if err != nil {
		return nil, err
	}
	return toOnboardingState(draft), nil
}

func (s *OnboardingServiceImpl) SaveState(db *gorm.DB, userID string, req *dto.SaveOnboardingRequest) (*dto.OnboardingStateResponse, error) {
	_, draft, err := s.loadDraft(db, userID)
	if err != nil {
		return nil, err
	}

	if req.Interests != nil {
		draft.Interests = pq.StringArray(req.Interests)
	}
	if req.OtherInterest != nil {
		draft.OtherInterest = *req.OtherInterest
	}
	if req.Website != nil {
		draft.Website = *req.Website
	}
	if req.YoutubeChannels != nil {
		draft.YoutubeChannels = pq.StringArray(req.YoutubeChannels)
	}
	if req.YoutubeLinks != nil {
		draft.YoutubeLinks = pq.StringArray(req.YoutubeLinks)
		pruneVerified(draft)
	}
	if req.Name != nil {
		draft.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		draft.Email = strings.TrimSpace(*req.Email)
	}

	if err := s.onboardingRepo.SaveDraft(db, draft); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return toOnboardingState(draft), nil
}

func (s *OnboardingServiceImpl) RegenerateCode(db *gorm.DB, userID string) (*dto.VerificationCodeResponse, error) {
	_, draft, err := s.loadDraft(db, userID)
	if err != nil {
		return nil, err
	}

	code, err := verification.GenerateCode()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	draft.VerificationCode = code
	draft.ResetVerification()

	if err := s.onboardingRepo.SaveDraft(db, draft); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.VerificationCodeResponse{VerificationCode: code}, nil
}

// Verification

func (s *OnboardingServiceImpl) VerifyChannel(ctx context.Context, db *gorm.DB, userID string, req *dto.VerifyChannelRequest) (*dto.VerifyChannelResponse, error) {
	url := strings.TrimSpace(req.URL)
	if !verification.IsYouTubeURL(url) {
		s.notify(ctx, userID, "channel-invalid", apperrors.ErrInvalidChannelURL.Message, notice.LevelError)
		return nil, apperrors.ErrInvalidChannelURL
	}

	_, draft, err := s.loadDraft(db, userID)
	if err != nil {
		return nil, err
	}
	draft.YoutubeLinks = addLink(draft.YoutubeLinks, url)

	taken, err := s.appRepo.ExistsApprovedWithLink(db, url, userID)
	if err != nil {
		s.notify(ctx, userID, "verification-error", "Failed to verify channel", notice.LevelError)
		return nil, apperrors.InternalError(err)
	}
	if taken {
		draft.SetVerified(url, false)
		if err := s.onboardingRepo.SaveDraft(db, draft); err != nil {
			return nil, apperrors.InternalError(err)
		}
		s.notify(ctx, userID, "channel-exists", apperrors.ErrChannelTaken.Message, notice.LevelError)
		return nil, apperrors.ErrChannelTaken
	}

	verifyErr := s.verifier.Verify(ctx, url, draft.VerificationCode)
	switch {
	case verifyErr == nil:
		draft.SetVerified(url, true)
	case errors.Is(verifyErr, verification.ErrNotVerified):
		draft.SetVerified(url, false)
	case errors.Is(verifyErr, verification.ErrUnavailable):
		s.notify(ctx, userID, "verification-error", "Failed to verify channel", notice.LevelError)
		return nil, apperrors.ErrVerificationUnavailable.WithError(verifyErr)
	default:
		logger.CtxWarn(ctx, "channel verification aborted", "url", url, "error", verifyErr)
		return nil, apperrors.InternalError(verifyErr)
	}

	if err := s.onboardingRepo.SaveDraft(db, draft); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if verifyErr != nil {
		s.notify(ctx, userID, "verification-failed", "Verification code not found in channel description", notice.LevelError)
		return nil, apperrors.ErrChannelNotVerified
	}

	s.notify(ctx, userID, "channel-verified", "Channel verified successfully!", notice.LevelSuccess)
	return &dto.VerifyChannelResponse{URL: url, Verified: true}, nil
}

// Submission

func (s *OnboardingServiceImpl) SubmitInterests(ctx context.Context, db *gorm.DB, userID string, req *dto.SubmitInterestsRequest) (*dto.SubmitInterestsResponse, error) {
	user, draft, err := s.loadDraft(db, userID)
	if err != nil {
		return nil, err
	}

	draft.Interests = pq.StringArray(req.Interests)
	draft.OtherInterest = req.OtherInterest
	draft.Website = req.Website
	draft.YoutubeChannels = pq.StringArray(req.YoutubeChannels)
	draft.YoutubeLinks = pq.StringArray(req.YoutubeLinks)
	pruneVerified(draft)

	problems := validateInterests(draft)
	if len(problems) > 0 {
		if err := s.onboardingRepo.SaveDraft(db, draft); err != nil {
			return nil, apperrors.InternalError(err)
		}
		first := problems[0]
		s.notify(ctx, userID, first.noticeID, first.message, notice.LevelError)
		return nil, apperrors.ValidationError(problems.toMap())
	}

	if !needsContactStep(draft) {
		app, err := s.submit(ctx, db, user, draft, "", "")
		if err != nil {
			return nil, err
		}
		return &dto.SubmitInterestsResponse{Submitted: true, Step: stepInterests, Application: app}, nil
	}

	draft.Step = stepContact
	if err := s.onboardingRepo.SaveDraft(db, draft); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.SubmitInterestsResponse{
		Step:          stepContact,
		VerifiedLinks: verifiedLinks(draft),
	}, nil
}

func (s *OnboardingServiceImpl) FinalSubmit(ctx context.Context, db *gorm.DB, userID string, req *dto.FinalSubmitRequest) (*models.Application, error) {
	user, draft, err := s.loadDraft(db, userID)
	if err != nil {
		return nil, err
	}

	if draft.Step != stepContact {
		return nil, apperrors.ErrInvalidOperation("onboarding", "Please complete the first step before submitting")
	}
	if problems := validateInterests(draft); len(problems) > 0 {
		return nil, apperrors.ValidationError(problems.toMap())
	}

	return s.submit(ctx, db, user, draft, req.Name, req.Email)
}

func (s *OnboardingServiceImpl) submit(ctx context.Context, db *gorm.DB, user *models.User, draft *models.OnboardingDraft, name, email string) (*models.Application, error) {
	app := buildApplication(user, draft, name, email)

	if err := s.appRepo.CreateAndCompleteOnboarding(db, app); err != nil {
		if errors.Is(err, repositories.ErrApplicationExists) {
			s.notify(ctx, user.ID, "onboarding-error", apperrors.ErrApplicationExists.Message, notice.LevelError)
			return nil, apperrors.ErrApplicationExists
		}
		s.notify(ctx, user.ID, "onboarding-error", "Failed to submit your information. Please try again.", notice.LevelError)
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "application submitted", "user_id", user.ID, "application_id", app.ID, "interests", []string(app.Interests))

	runAsync(ctx, "publish-new-application", func(ctx context.Context) error {
		adminIDs, err := s.userRepo.FindIDsByRole(db, models.UserRoleAdmin)
		if err != nil {
			return err
		}
		s.publisher.Publish(ws.ChangeEvent{
			Table:   ws.TableApplications,
			Type:    ws.EventInsert,
			Columns: map[string]string{"user_id": app.UserID, "status": string(app.Status)},
			Record:  app,
		}, append(adminIDs, app.UserID)...)
		return nil
	})

	return app, nil
}

// Helpers

// loadDraft возвращает пользователя и его черновик, создавая черновик при первом обращении
func (s *OnboardingServiceImpl) loadDraft(db *gorm.DB, userID string) (*models.User, *models.OnboardingDraft, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, nil, mapUserError(err)
	}
	if user.OnboardingComplete {
		return nil, nil, apperrors.ErrOnboardingCompleted
	}

	draft, err := s.onboardingRepo.FindDraft(db, userID)
	if err == nil {
		return user, draft, nil
	}
	if !errors.Is(err, repositories.ErrDraftNotFound) {
		return nil, nil, apperrors.InternalError(err)
	}

	code, err := verification.GenerateCode()
	if err != nil {
		return nil, nil, apperrors.InternalError(err)
	}
	draft = &models.OnboardingDraft{
		UserID:           userID,
		Step:             stepInterests,
		VerificationCode: code,
		YoutubeLinks:     pq.StringArray{""},
		YoutubeChannels:  pq.StringArray{""},
	}
	draft.ResetVerification()

	if err := s.onboardingRepo.SaveDraft(db, draft); err != nil {
		return nil, nil, apperrors.InternalError(err)
	}
	return user, draft, nil
}

func (s *OnboardingServiceImpl) notify(ctx context.Context, userID, id, message, level string) {
	if s.notices == nil {
		return
	}
	s.notices.Notify(ctx, userID, notice.Notice{ID: id, Message: message, Level: level})
}

type fieldProblem struct {
	field    string
	message  string
	noticeID string
}

type fieldProblems []fieldProblem

func (p fieldProblems) toMap() map[string]string {
	out := make(map[string]string, len(p))
	for _, problem := range p {
		out[problem.field] = problem.message
	}
	return out
}

// validateInterests проверяет шаг 1 в фиксированном порядке; первая ошибка показывается тостом
func validateInterests(d *models.OnboardingDraft) fieldProblems {
	var problems fieldProblems
	selected := selectedInterests(d.Interests)

	if len(selected) == 0 {
		return append(problems, fieldProblem{"interests", "Please select at least one option", "interests-required"})
	}

	if selected[models.InterestOther] && strings.TrimSpace(d.OtherInterest) == "" {
		problems = append(problems, fieldProblem{"other_interest", "Please specify your other interest", "other-interest-required"})
	}

	if selected[models.InterestChannelManagement] || selected[models.InterestMusicPartnerProgram] {
		if firstOrEmpty(d.YoutubeLinks) == "" {
			problems = append(problems, fieldProblem{"youtube_links", "Please provide your YouTube channel URL", "youtube-required"})
		}
		for i, link := range d.YoutubeLinks {
			link = strings.TrimSpace(link)
			if link != "" && !d.IsVerified(link) {
				problems = append(problems, fieldProblem{
					fmt.Sprintf("youtube_links.%d", i),
					"Please verify all YouTube channels before continuing",
					"unverified-channels",
				})
			}
		}
	}

	if selected[models.InterestDigitalRights] {
		if strings.TrimSpace(d.Website) == "" {
			problems = append(problems, fieldProblem{"website", "Please provide your website URL", "website-required"})
		}
		if firstOrEmpty(d.YoutubeChannels) == "" {
			problems = append(problems, fieldProblem{"youtube_channels", "Please provide your YouTube channel URL", "youtube-required"})
		}
	}

	return problems
}

func selectedInterests(values []string) map[models.Interest]bool {
	out := make(map[models.Interest]bool, len(values))
	for _, v := range values {
		if i := models.Interest(v); i.IsValid() {
			out[i] = true
		}
	}
	return out
}

// needsContactStep - второй шаг нужен всем, кроме заявок только с "other"
func needsContactStep(d *models.OnboardingDraft) bool {
	selected := selectedInterests(d.Interests)
	return selected[models.InterestChannelManagement] ||
		selected[models.InterestMusicPartnerProgram] ||
		selected[models.InterestDigitalRights]
}

func buildApplication(user *models.User, d *models.OnboardingDraft, name, email string) *models.Application {
	selected := selectedInterests(d.Interests)

	interests := make(pq.StringArray, 0, len(selected))
	for _, i := range models.AllInterests {
		if selected[i] {
			interests = append(interests, string(i))
		}
	}

	app := &models.Application{
		UserID:       user.ID,
		Interests:    interests,
		YoutubeLinks: pq.StringArray(nonBlank(d.YoutubeLinks)),
		Name:         firstNonEmpty(name, d.Name, user.FullName),
		Email:        firstNonEmpty(email, d.Email, user.Email),
		Status:       models.ApplicationStatusPending,
	}
	if selected[models.InterestOther] {
		app.OtherInterest = strPtr(strings.TrimSpace(d.OtherInterest))
	}
	if selected[models.InterestDigitalRights] {
		app.Website = strPtr(strings.TrimSpace(d.Website))
		app.YoutubeChannel = strPtr(firstOrEmpty(d.YoutubeChannels))
	}
	return app
}

func verifiedLinks(d *models.OnboardingDraft) []string {
	out := make([]string, 0, len(d.YoutubeLinks))
	for _, link := range nonBlank(d.YoutubeLinks) {
		if d.IsVerified(link) {
			out = append(out, link)
		}
	}
	return out
}

// pruneVerified убирает флаги ссылок, которых больше нет в форме
func pruneVerified(d *models.OnboardingDraft) {
	current := d.VerifiedChannels.Data()
	kept := make(map[string]bool, len(current))
	for _, link := range nonBlank(d.YoutubeLinks) {
		if v, ok := current[link]; ok {
			kept[link] = v
		}
	}
	d.VerifiedChannels = datatypes.NewJSONType(kept)
}

func toOnboardingState(d *models.OnboardingDraft) *dto.OnboardingStateResponse {
	verified := d.VerifiedChannels.Data()
	if verified == nil {
		verified = map[string]bool{}
	}
	return &dto.OnboardingStateResponse{
		Step:             d.Step,
		Interests:        append([]string{}, d.Interests...),
		OtherInterest:    d.OtherInterest,
		Website:          d.Website,
		YoutubeChannels:  append([]string{}, d.YoutubeChannels...),
		YoutubeLinks:     append([]string{}, d.YoutubeLinks...),
		Name:             d.Name,
		Email:            d.Email,
		VerificationCode: d.VerificationCode,
		VerifiedChannels: verified,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// addLink кладет ссылку в первое пустое поле формы, если ее там еще нет
func addLink(links pq.StringArray, url string) pq.StringArray {
	for _, v := range links {
		if strings.TrimSpace(v) == url {
			return links
		}
	}
	for i, v := range links {
		if strings.TrimSpace(v) == "" {
			links[i] = url
			return links
		}
	}
	return append(links, url)
}

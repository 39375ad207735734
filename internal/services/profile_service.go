package services

import (
	"context"
	"io"
	"strings"

	"creatorhub_backend/internal/imageprocessor"
	"creatorhub_backend/internal/logger"
	"creatorhub_backend/internal/repositories"
	"creatorhub_backend/internal/services/dto"
	"creatorhub_backend/internal/storage"
	"creatorhub_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ProfileService interface {
	UpdateProfile(db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	UploadAvatar(ctx context.Context, db *gorm.DB, userID string, file *dto.ImageUpload) (*dto.AvatarResponse, error)
}

type ProfileServiceImpl struct {
	userRepo  repositories.UserRepository
	storage   storage.Storage
	processor *imageprocessor.Processor
	limits    UploadLimits
}

func NewProfileService(
	userRepo repositories.UserRepository,
	store storage.Storage,
	processor *imageprocessor.Processor,
	limits UploadLimits,
) ProfileService {
	return &ProfileServiceImpl{
		userRepo:  userRepo,
		storage:   store,
		processor: processor,
		limits:    limits,
	}
}

func (s *ProfileServiceImpl) UpdateProfile(db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	fields := make(map[string]interface{})
	if req.FullName != nil {
		fields["full_name"] = strings.TrimSpace(*req.FullName)
	}
	if req.Username != nil {
		fields["username"] = strings.TrimSpace(*req.Username)
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateProfile(db, userID, fields); err != nil {
			return nil, mapUserError(err)
		}
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, mapUserError(err)
	}
	return toUserResponse(user), nil
}

// UploadAvatar уменьшает картинку и сохраняет в profile-pictures/<uid>/<random>.jpg
func (s *ProfileServiceImpl) UploadAvatar(ctx context.Context, db *gorm.DB, userID string, file *dto.ImageUpload) (*dto.AvatarResponse, error) {
	if file == nil || file.Reader == nil {
		return nil, apperrors.NewBadRequestError("Avatar file is required")
	}
	if err := s.limits.check(file.Size, file.ContentType); err != nil {
		return nil, err
	}

	src := file.Reader
	if s.limits.MaxSize > 0 {
		src = io.LimitReader(src, s.limits.MaxSize+1)
	}
	resized, err := s.processor.Avatar(src)
	if err != nil {
		return nil, apperrors.ErrInvalidFileType.WithError(err)
	}

	key := storage.UserObjectKey(storage.FolderProfilePictures, userID, ".jpg")
	if err := s.storage.Save(ctx, key, resized, "image/jpeg"); err != nil {
		return nil, apperrors.InternalError(err)
	}

	url, err := s.storage.GetURL(ctx, key)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.userRepo.UpdateAvatar(db, userID, url); err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			logger.CtxWarn(ctx, "failed to remove orphaned avatar", "key", key, "error", delErr)
		}
		return nil, mapUserError(err)
	}

	logger.CtxInfo(ctx, "avatar updated", "user_id", userID, "key", key)
	return &dto.AvatarResponse{AvatarURL: url}, nil
}

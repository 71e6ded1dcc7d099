package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"

	"github.com/askup-dev/askup-backend/internal/entity"
	profileDto "github.com/askup-dev/askup-backend/internal/modules/profile/dto"
	userRepo "github.com/askup-dev/askup-backend/internal/modules/user/repository"
	userService "github.com/askup-dev/askup-backend/internal/modules/user/service"
	"github.com/askup-dev/askup-backend/pkg/apperror"
	"github.com/askup-dev/askup-backend/pkg/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileService interface {
	GetMyProfile(ctx context.Context, userID uuid.UUID) (*profileDto.ProfileResponse, error)
	GetPublicProfile(ctx context.Context, username string) (*profileDto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req profileDto.UpdateProfileRequest) (*profileDto.ProfileResponse, error)
	GetSettings(ctx context.Context, userID uuid.UUID) (*profileDto.SettingsResponse, error)
	UpdateSettings(ctx context.Context, userID uuid.UUID, req profileDto.UpdateSettingsRequest) (*profileDto.SettingsResponse, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, file *multipart.FileHeader) (string, error)
}

type profileService struct {
	repo    userRepo.UserRepository
	storage storage.ImageStorage
}

func NewProfileService(repo userRepo.UserRepository, imageStorage storage.ImageStorage) ProfileService {
	return &profileService{repo: repo, storage: imageStorage}
}

func (s *profileService) GetMyProfile(ctx context.Context, userID uuid.UUID) (*profileDto.ProfileResponse, error) {
	user, err := s.repo.FindByID(ctx, userID.String())
	if err != nil {
		return nil, err
	}

	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	return buildProfileResponse(user, profile, true), nil
}

// GetPublicProfile honors the owner's privacy settings: real name and email
// are stripped unless the profile opted in.
func (s *profileService) GetPublicProfile(ctx context.Context, username string) (*profileDto.ProfileResponse, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	profile, err := s.repo.GetProfile(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return buildProfileResponse(user, profile, false), nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req profileDto.UpdateProfileRequest) (*profileDto.ProfileResponse, error) {
	user, err := s.repo.FindByID(ctx, userID.String())
	if err != nil {
		return nil, err
	}

	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.FirstName != nil || req.LastName != nil {
		if err := s.repo.Save(ctx, user); err != nil {
			return nil, err
		}
	}

	if req.Bio != nil {
		profile.Bio = req.Bio
	}
	if req.Location != nil {
		profile.Location = req.Location
	}
	if req.StudentID != nil {
		profile.StudentID = req.StudentID
	}
	if req.Department != nil {
		profile.Department = req.Department
	}
	if req.YearLevel != nil {
		profile.YearLevel = req.YearLevel
	}
	if req.Phone != nil {
		profile.Phone = req.Phone
	}
	if req.Website != nil {
		profile.Website = req.Website
	}

	if err := s.repo.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}

	return buildProfileResponse(user, profile, true), nil
}

func (s *profileService) GetSettings(ctx context.Context, userID uuid.UUID) (*profileDto.SettingsResponse, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toSettingsResponse(profile), nil
}

func (s *profileService) UpdateSettings(ctx context.Context, userID uuid.UUID, req profileDto.UpdateSettingsRequest) (*profileDto.SettingsResponse, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.ShowEmailPublicly != nil {
		profile.ShowEmailPublicly = *req.ShowEmailPublicly
	}
	if req.ShowRealName != nil {
		profile.ShowRealName = *req.ShowRealName
	}
	if req.AllowMessages != nil {
		profile.AllowMessages = *req.AllowMessages
	}
	if req.EmailNotifications != nil {
		profile.EmailNotifications = *req.EmailNotifications
	}
	if req.EmailNewAnswer != nil {
		profile.EmailNewAnswer = *req.EmailNewAnswer
	}
	if req.EmailNewMessage != nil {
		profile.EmailNewMessage = *req.EmailNewMessage
	}
	if req.EmailWeeklyDigest != nil {
		profile.EmailWeeklyDigest = *req.EmailWeeklyDigest
	}
	if req.BrowserNotifications != nil {
		profile.BrowserNotifications = *req.BrowserNotifications
	}
	if req.ThemePreference != nil {
		profile.ThemePreference = *req.ThemePreference
	}
	if req.CompactMode != nil {
		profile.CompactMode = *req.CompactMode
	}
	if req.AnimationsEnabled != nil {
		profile.AnimationsEnabled = *req.AnimationsEnabled
	}

	if err := s.repo.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}

	return toSettingsResponse(profile), nil
}

func (s *profileService) UploadAvatar(ctx context.Context, userID uuid.UUID, file *multipart.FileHeader) (string, error) {
	if s.storage == nil {
		return "", &apperror.AppError{Err: apperror.ErrInternal, Message: "image storage not configured"}
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	user, err := s.repo.FindByID(ctx, userID.String())
	if err != nil {
		return "", err
	}

	url, err := s.storage.UploadImage(ctx, src, "avatars", fmt.Sprintf("avatar_%s", userID))
	if err != nil {
		return "", err
	}

	if user.AvatarURL != nil {
		if err := s.storage.DeleteImage(ctx, *user.AvatarURL); err != nil {
			log.Printf("Failed to delete old avatar: %v", err)
		}
	}

	user.AvatarURL = &url
	if err := s.repo.Save(ctx, user); err != nil {
		return "", err
	}

	return url, nil
}

func buildProfileResponse(user *entity.User, profile *entity.Profile, owner bool) *profileDto.ProfileResponse {
	resp := &profileDto.ProfileResponse{
		User:           userService.ToUserResponse(user),
		Bio:            profile.Bio,
		Location:       profile.Location,
		Department:     profile.Department,
		YearLevel:      profile.YearLevel,
		Website:        profile.Website,
		QuestionsAsked: profile.QuestionsAsked,
		AnswersGiven:   profile.AnswersGiven,
		LastActive:     profile.LastActive,
		MemberSince:    user.CreatedAt,
	}

	if owner {
		resp.StudentID = profile.StudentID
		resp.Phone = profile.Phone
		return resp
	}

	if !profile.ShowEmailPublicly {
		resp.User.Email = ""
	}
	if !profile.ShowRealName {
		resp.User.FirstName = ""
		resp.User.LastName = ""
	}
	return resp
}

func toSettingsResponse(profile *entity.Profile) *profileDto.SettingsResponse {
	return &profileDto.SettingsResponse{
		ShowEmailPublicly:    profile.ShowEmailPublicly,
		ShowRealName:         profile.ShowRealName,
		AllowMessages:        profile.AllowMessages,
		EmailNotifications:   profile.EmailNotifications,
		EmailNewAnswer:       profile.EmailNewAnswer,
		EmailNewMessage:      profile.EmailNewMessage,
		EmailWeeklyDigest:    profile.EmailWeeklyDigest,
		ThemePreference:      profile.ThemePreference,
		CompactMode:          profile.CompactMode,
		AnimationsEnabled:    profile.AnimationsEnabled,
		BrowserNotifications: profile.BrowserNotifications,
	}
}

package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/askup-dev/askup-backend/internal/entity"
	gamification "github.com/askup-dev/askup-backend/internal/modules/gamification/service"
	notifService "github.com/askup-dev/askup-backend/internal/modules/notification/service"
	userDto "github.com/askup-dev/askup-backend/internal/modules/user/dto"
	userRepo "github.com/askup-dev/askup-backend/internal/modules/user/repository"
	"github.com/askup-dev/askup-backend/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, req userDto.RegisterRequest) (*userDto.AuthResponse, error)
	Login(ctx context.Context, req userDto.LoginRequest) (*userDto.AuthResponse, error)
}

type authService struct {
	repo         userRepo.UserRepository
	gamification gamification.GamificationService
	notification notifService.NotificationService
	jwtSecret    string
	tokenTTL     time.Duration
}

func NewAuthService(
	repo userRepo.UserRepository,
	gamificationService gamification.GamificationService,
	notificationService notifService.NotificationService,
	jwtSecret string,
	tokenTTL time.Duration,
) AuthService {
	return &authService{
		repo:         repo,
		gamification: gamificationService,
		notification: notificationService,
		jwtSecret:    jwtSecret,
		tokenTTL:     tokenTTL,
	}
}

func (s *authService) Register(ctx context.Context, req userDto.RegisterRequest) (*userDto.AuthResponse, error) {
	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, &apperror.AppError{Err: apperror.ErrConflict, Message: "email already registered"}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.repo.FindByUsername(ctx, req.Username); err == nil {
		return nil, &apperror.AppError{Err: apperror.ErrConflict, Message: "username already taken"}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role, err := s.repo.FindRoleByName(ctx, entity.RoleStudent)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		RoleID:       &role.ID,
		Role:         *role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	// New accounts start with an empty ledger so stats pages never 404.
	if _, err := s.gamification.EnsureLedger(ctx, user.ID); err != nil {
		log.Printf("Failed to create ledger for new user %s: %v", user.ID, err)
	}

	if s.notification != nil {
		err := s.notification.CreateNotification(ctx, &entity.Notification{
			UserID:  user.ID,
			Title:   "Welcome to AskUp!",
			Message: "Ask your first question to start earning points and unlocking achievements.",
			Type:    entity.NotificationSystemUpdate,
			Icon:    "fas fa-hand-wave",
			Color:   "info",
		})
		if err != nil {
			log.Printf("Failed to create welcome notification: %v", err)
		}
	}

	return s.buildAuthResponse(user)
}

func (s *authService) Login(ctx context.Context, req userDto.LoginRequest) (*userDto.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	return s.buildAuthResponse(user)
}

func (s *authService) buildAuthResponse(user *entity.User) (*userDto.AuthResponse, error) {
	expiresAt := time.Now().Add(s.tokenTTL)

	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, err
	}

	return &userDto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      ToUserResponse(user),
	}, nil
}

// ToUserResponse maps a user entity onto its public representation.
func ToUserResponse(user *entity.User) userDto.UserResponse {
	return userDto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role.Name,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt,
	}
}

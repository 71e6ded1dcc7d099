package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/askup-dev/askup-backend/internal/entity"
	gamDto "github.com/askup-dev/askup-backend/internal/modules/gamification/dto"
	notifRepo "github.com/askup-dev/askup-backend/internal/modules/notification/repository"
	"github.com/askup-dev/askup-backend/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type NotificationService interface {
	CreateNotification(ctx context.Context, notification *entity.Notification) error
	GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.Notification, error)
	MarkAsRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)

	// Convenience constructors for the platform's standard notifications.
	NotifyAchievement(ctx context.Context, userID uuid.UUID, name, description, icon string) error
	NotifyLevelUp(ctx context.Context, userID uuid.UUID, newLevel, pointsAwarded int) error
	NotifyNewAnswer(ctx context.Context, questionAuthorID uuid.UUID, answererName, questionTitle, actionURL string) error
	NotifyMessageReceived(ctx context.Context, recipientID uuid.UUID, senderName, conversationTitle string) error
	NotifyQuestionAssigned(ctx context.Context, adminID uuid.UUID, questionTitle, actionURL string) error
	NotifyAwardOutcome(ctx context.Context, userID uuid.UUID, result *gamDto.AwardResult)
}

type notificationService struct {
	repo        notifRepo.NotificationRepository
	redisClient *redis.Client
}

func NewNotificationService(repo notifRepo.NotificationRepository, redisClient *redis.Client) NotificationService {
	return &notificationService{
		repo:        repo,
		redisClient: redisClient,
	}
}

func (s *notificationService) CreateNotification(ctx context.Context, notification *entity.Notification) error {
	// 1. Save to DB
	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}

	// 2. Publish to Redis so open websockets receive it live
	if s.redisClient != nil {
		channel := fmt.Sprintf("user_notifications:%s", notification.UserID.String())

		payload, err := json.Marshal(notification)
		if err == nil {
			s.redisClient.Publish(ctx, channel, payload)
		}
	}

	return nil
}

func (s *notificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.Notification, error) {
	return s.repo.GetByUserID(ctx, userID, limit, offset)
}

// MarkAsRead only touches the caller's own notifications. A notification
// belonging to someone else is indistinguishable from a missing one.
func (s *notificationService) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.MarkAsRead(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *notificationService) NotifyAchievement(ctx context.Context, userID uuid.UUID, name, description, icon string) error {
	return s.CreateNotification(ctx, &entity.Notification{
		UserID:  userID,
		Title:   fmt.Sprintf("Achievement Unlocked: %s!", name),
		Message: fmt.Sprintf("Congratulations! You earned the %q badge: %s", name, description),
		Type:    entity.NotificationAchievementEarned,
		Icon:    icon,
		Color:   "success",
	})
}

func (s *notificationService) NotifyLevelUp(ctx context.Context, userID uuid.UUID, newLevel, pointsAwarded int) error {
	return s.CreateNotification(ctx, &entity.Notification{
		UserID:  userID,
		Title:   fmt.Sprintf("Level Up! You are now Level %d", newLevel),
		Message: fmt.Sprintf("Amazing progress! You've reached Level %d and earned %d points!", newLevel, pointsAwarded),
		Type:    entity.NotificationLevelUp,
		Icon:    "fas fa-star",
		Color:   "warning",
	})
}

func (s *notificationService) NotifyNewAnswer(ctx context.Context, questionAuthorID uuid.UUID, answererName, questionTitle, actionURL string) error {
	return s.CreateNotification(ctx, &entity.Notification{
		UserID:    questionAuthorID,
		Title:     "New Answer to Your Question!",
		Message:   fmt.Sprintf("%s answered your question %q", answererName, truncate(questionTitle, 50)),
		Type:      entity.NotificationNewAnswer,
		ActionURL: &actionURL,
		Icon:      "fas fa-comment",
		Color:     "info",
	})
}

func (s *notificationService) NotifyMessageReceived(ctx context.Context, recipientID uuid.UUID, senderName, conversationTitle string) error {
	return s.CreateNotification(ctx, &entity.Notification{
		UserID:  recipientID,
		Title:   "New Message",
		Message: fmt.Sprintf("%s sent you a message in %q", senderName, truncate(conversationTitle, 50)),
		Type:    entity.NotificationMessageReceived,
		Icon:    "fas fa-envelope",
		Color:   "info",
	})
}

func (s *notificationService) NotifyQuestionAssigned(ctx context.Context, adminID uuid.UUID, questionTitle, actionURL string) error {
	return s.CreateNotification(ctx, &entity.Notification{
		UserID:    adminID,
		Title:     "Question Assigned to You",
		Message:   fmt.Sprintf("You have been assigned the question %q", truncate(questionTitle, 50)),
		Type:      entity.NotificationQuestionAssigned,
		ActionURL: &actionURL,
		Icon:      "fas fa-clipboard",
		Color:     "primary",
	})
}

// NotifyAwardOutcome fans an award result out into level-up and achievement
// notifications. Failures are logged, never propagated, so a notification
// hiccup cannot roll back the activity that earned the points.
func (s *notificationService) NotifyAwardOutcome(ctx context.Context, userID uuid.UUID, result *gamDto.AwardResult) {
	if result == nil {
		return
	}

	if result.LevelUp && result.NewLevel != nil {
		if err := s.NotifyLevelUp(ctx, userID, *result.NewLevel, result.PointsAwarded); err != nil {
			log.Printf("Failed to create level-up notification: %v", err)
		}
	}

	for _, achievement := range result.NewAchievements {
		if err := s.NotifyAchievement(ctx, userID, achievement.Name, achievement.Description, achievement.Icon); err != nil {
			log.Printf("Failed to create achievement notification: %v", err)
		}
	}
}

// truncate counts runes, not bytes, so multi-byte titles stay valid UTF-8.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

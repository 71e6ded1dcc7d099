package service

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/askup-dev/askup-backend/internal/entity"
	gamDto "github.com/askup-dev/askup-backend/internal/modules/gamification/dto"
	"github.com/askup-dev/askup-backend/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeRepository keeps notifications in a map and mirrors the real
// repository's owner scoping so service behavior can be tested without a
// database.
type fakeRepository struct {
	notifications map[uuid.UUID]*entity.Notification
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{notifications: make(map[uuid.UUID]*entity.Notification)}
}

func (f *fakeRepository) Create(ctx context.Context, n *entity.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	f.notifications[n.ID] = n
	return nil
}

func (f *fakeRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.Notification, error) {
	var out []entity.Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeRepository) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	n, ok := f.notifications[id]
	if !ok || n.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	n.IsRead = true
	return nil
}

func (f *fakeRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	for _, n := range f.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (f *fakeRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, n := range f.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func TestMarkAsReadScopedToOwner(t *testing.T) {
	repo := newFakeRepository()
	svc := NewNotificationService(repo, nil)

	owner := uuid.New()
	stranger := uuid.New()

	notif := &entity.Notification{UserID: owner, Title: "Welcome", Type: entity.NotificationSystemUpdate}
	require.NoError(t, repo.Create(context.Background(), notif))

	// Someone else's notification reads as missing and stays unread
	err := svc.MarkAsRead(context.Background(), stranger, notif.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.False(t, repo.notifications[notif.ID].IsRead)

	require.NoError(t, svc.MarkAsRead(context.Background(), owner, notif.ID))
	assert.True(t, repo.notifications[notif.ID].IsRead)
}

func TestMarkAsReadUnknownID(t *testing.T) {
	svc := NewNotificationService(newFakeRepository(), nil)

	err := svc.MarkAsRead(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestNotifyAwardOutcomeFansOut(t *testing.T) {
	repo := newFakeRepository()
	svc := NewNotificationService(repo, nil)
	userID := uuid.New()

	newLevel := 3
	svc.NotifyAwardOutcome(context.Background(), userID, &gamDto.AwardResult{
		PointsAwarded: 10,
		LevelUp:       true,
		NewLevel:      &newLevel,
		NewAchievements: []gamDto.AchievementResponse{
			{Name: "Helper", Description: "Answered 10 questions", Icon: "fas fa-hands-helping"},
		},
	})

	notifications, err := svc.GetNotifications(context.Background(), userID, 10, 0)
	require.NoError(t, err)
	require.Len(t, notifications, 2)

	types := []string{notifications[0].Type, notifications[1].Type}
	assert.Contains(t, types, entity.NotificationLevelUp)
	assert.Contains(t, types, entity.NotificationAchievementEarned)
}

func TestTruncateKeepsRuneBoundaries(t *testing.T) {
	title := strings.Repeat("日", 60)

	got := truncate(title, 50)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("日", 50)+"...", got)

	assert.Equal(t, "short", truncate("short", 50))
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

// Achievement categories. The first four map onto ledger point buckets;
// the rest qualify against total points.
const (
	AchievementCategoryQuestions   = "questions"
	AchievementCategoryAnswers     = "answers"
	AchievementCategoryHelping     = "helping"
	AchievementCategoryConsistency = "consistency"
	AchievementCategoryExpertise   = "expertise"
	AchievementCategoryCommunity   = "community"
)

// PointLedger is the per-user point store. One row per user, created lazily
// on first access. Category buckets and the running total are clamped to zero
// independently of each other, so the total is not guaranteed to equal the
// sum of the buckets after mixed positive/negative awards.
type PointLedger struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	TotalPoints       int `gorm:"default:0" json:"total_points"`
	QuestionsPoints   int `gorm:"default:0" json:"questions_points"`
	AnswersPoints     int `gorm:"default:0" json:"answers_points"`
	HelpingPoints     int `gorm:"default:0" json:"helping_points"`
	ConsistencyPoints int `gorm:"default:0" json:"consistency_points"`

	Level            int `gorm:"default:1" json:"level"`
	ExperiencePoints int `gorm:"default:0" json:"experience_points"`

	CurrentStreak    int        `gorm:"default:0" json:"current_streak"`
	LongestStreak    int        `gorm:"default:0" json:"longest_streak"`
	LastActivityDate *time.Time `gorm:"type:date" json:"last_activity_date,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// CategoryPoints returns the bucket matching an achievement category, or
// (0, false) when the category has no dedicated bucket.
func (l *PointLedger) CategoryPoints(category string) (int, bool) {
	switch category {
	case AchievementCategoryQuestions:
		return l.QuestionsPoints, true
	case AchievementCategoryAnswers:
		return l.AnswersPoints, true
	case AchievementCategoryHelping:
		return l.HelpingPoints, true
	case AchievementCategoryConsistency:
		return l.ConsistencyPoints, true
	default:
		return 0, false
	}
}

// Achievement is a catalog entry. The catalog is seeded at boot and treated
// as read-only afterwards.
type Achievement struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description    string    `gorm:"type:text" json:"description"`
	Icon           string    `gorm:"size:50;default:fas fa-trophy" json:"icon"`
	PointsRequired int       `gorm:"default:0" json:"points_required"`
	Category       string    `gorm:"size:30" json:"category"`
	Color          string    `gorm:"size:20;default:gold" json:"color"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// AchievementUnlock records a user earning an achievement. Immutable once
// created; the (user, achievement) pair is unique.
type AchievementUnlock struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	UserID        uuid.UUID   `gorm:"type:uuid;uniqueIndex:idx_user_achievement;not null" json:"user_id"`
	AchievementID uint        `gorm:"uniqueIndex:idx_user_achievement;not null" json:"achievement_id"`
	Achievement   Achievement `gorm:"foreignKey:AchievementID" json:"achievement"`
	EarnedAt      time.Time   `gorm:"autoCreateTime" json:"earned_at"`
}

// StreakRecord counts a user's activity on one calendar day.
// Unique on (user, day).
type StreakRecord struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_user_day;not null" json:"user_id"`
	Day             time.Time `gorm:"type:date;uniqueIndex:idx_user_day;not null" json:"day"`
	ActivitiesCount int       `gorm:"default:0" json:"activities_count"`
	PointsEarned    int       `gorm:"default:0" json:"points_earned"`
}

// ActivityLog is an append-only audit trail of point-earning activity.
type ActivityLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	ActivityType string    `gorm:"size:50;not null" json:"activity_type"`
	Description  string    `gorm:"type:text" json:"description"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

package dto

import "time"

// AwardResult summarizes one award call. Callers are responsible for turning
// NewAchievements and LevelUp into user-visible notifications.
type AwardResult struct {
	PointsAwarded   int                   `json:"points_awarded"`
	TotalPoints     int                   `json:"total_points"`
	LevelUp         bool                  `json:"level_up"`
	NewLevel        *int                  `json:"new_level,omitempty"`
	NewAchievements []AchievementResponse `json:"new_achievements"`
}

type AchievementResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Category    string `json:"category"`
	Color       string `json:"color"`
}

type EarnedAchievement struct {
	AchievementResponse
	EarnedAt time.Time `json:"earned_at"`
}

type PointsResponse struct {
	TotalPoints       int        `json:"total_points"`
	QuestionsPoints   int        `json:"questions_points"`
	AnswersPoints     int        `json:"answers_points"`
	HelpingPoints     int        `json:"helping_points"`
	ConsistencyPoints int        `json:"consistency_points"`
	Level             int        `json:"level"`
	CurrentStreak     int        `json:"current_streak"`
	LongestStreak     int        `json:"longest_streak"`
	LastActivityDate  *time.Time `json:"last_activity_date,omitempty"`
}

type LevelProgressResponse struct {
	CurrentProgress int     `json:"current_progress"`
	PointsNeeded    int     `json:"points_needed"`
	Percentage      float64 `json:"percentage"`
}

type UserStatsResponse struct {
	Points            PointsResponse        `json:"points"`
	Achievements      []EarnedAchievement   `json:"achievements"`
	AchievementsCount int                   `json:"achievements_count"`
	Rank              int                   `json:"rank"`
	LevelProgress     LevelProgressResponse `json:"level_progress"`
}

type LeaderboardEntry struct {
	Position        int     `json:"position"`
	Username        string  `json:"username"`
	AvatarURL       *string `json:"avatar_url,omitempty"`
	TotalPoints     int     `json:"total_points"`
	QuestionsPoints int     `json:"questions_points"`
	AnswersPoints   int     `json:"answers_points"`
	Level           int     `json:"level"`
	CurrentStreak   int     `json:"current_streak"`
}

type LeaderboardFilter struct {
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Category string `form:"category" binding:"omitempty,oneof=total questions answers level streak"`
}

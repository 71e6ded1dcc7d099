package gamification

import (
	"context"
	"strings"

	"github.com/askup-dev/askup-backend/internal/entity"
	"github.com/askup-dev/askup-backend/internal/modules/gamification/repository"
)

// qualifies decides whether the ledger meets an achievement's bar.
//
// Achievements with a points requirement compare against the matching
// category bucket, or against total points when the category has no bucket
// (expertise, community). Zero-requirement achievements use name-based rules.
func qualifies(ledger *entity.PointLedger, achievement entity.Achievement) bool {
	if achievement.PointsRequired > 0 {
		if categoryPoints, ok := ledger.CategoryPoints(achievement.Category); ok {
			return categoryPoints >= achievement.PointsRequired
		}
		return ledger.TotalPoints >= achievement.PointsRequired
	}

	name := strings.ToLower(achievement.Name)

	switch {
	case strings.Contains(name, "first question"):
		return ledger.QuestionsPoints > 0
	case strings.Contains(name, "first answer"):
		return ledger.AnswersPoints > 0
	case strings.Contains(name, "streak"):
		if strings.Contains(name, "7 day") {
			return ledger.CurrentStreak >= 7
		}
		if strings.Contains(name, "30 day") {
			return ledger.CurrentStreak >= 30
		}
	case strings.Contains(name, "level"):
		if strings.Contains(name, "level 5") {
			return ledger.Level >= 5
		}
		if strings.Contains(name, "level 10") {
			return ledger.Level >= 10
		}
	}

	return false
}

// checkAchievements unlocks every active achievement the ledger now
// qualifies for and returns the newly unlocked ones. Already-unlocked
// achievements are never re-evaluated or re-returned.
func checkAchievements(ctx context.Context, r repository.GamificationRepository, ledger *entity.PointLedger) ([]entity.Achievement, error) {
	available, err := r.ActiveAchievements(ctx)
	if err != nil {
		return nil, err
	}

	earnedIDs, err := r.UnlockedAchievementIDs(ctx, ledger.UserID)
	if err != nil {
		return nil, err
	}
	earned := make(map[uint]struct{}, len(earnedIDs))
	for _, id := range earnedIDs {
		earned[id] = struct{}{}
	}

	var newAchievements []entity.Achievement
	for _, achievement := range available {
		if _, ok := earned[achievement.ID]; ok {
			continue
		}

		if !qualifies(ledger, achievement) {
			continue
		}

		unlock := &entity.AchievementUnlock{
			UserID:        ledger.UserID,
			AchievementID: achievement.ID,
		}
		if err := r.CreateUnlock(ctx, unlock); err != nil {
			return nil, err
		}
		newAchievements = append(newAchievements, achievement)
	}

	return newAchievements, nil
}

package gamification

import (
	"context"
	"time"

	"github.com/askup-dev/askup-backend/internal/entity"
	"github.com/askup-dev/askup-backend/internal/modules/gamification/repository"
)

// recordActivity updates the daily streak counters for one activity and
// returns the streak bonus the activity triggered, if any. The bonus is
// applied to the ledger by the caller on a points-only path: it never
// re-enters this function, which makes the non-compounding guarantee
// structural. The day's record already counts the bonus points.
func recordActivity(ctx context.Context, r repository.GamificationRepository, ledger *entity.PointLedger, pointsEarned int, now time.Time) (string, error) {
	today := dateOnly(now)

	record, created, err := r.GetOrCreateStreakRecord(ctx, ledger.UserID, today)
	if err != nil {
		return "", err
	}

	record.ActivitiesCount++
	record.PointsEarned += pointsEarned

	yesterday := today.AddDate(0, 0, -1)

	switch {
	case ledger.LastActivityDate != nil && sameDay(*ledger.LastActivityDate, yesterday):
		// Streak continues, but only count the first activity of the day
		if created {
			ledger.CurrentStreak++
		}
	case ledger.LastActivityDate == nil || !sameDay(*ledger.LastActivityDate, today):
		// No prior activity, or a gap of two or more days
		ledger.CurrentStreak = 1
	}

	if ledger.CurrentStreak > ledger.LongestStreak {
		ledger.LongestStreak = ledger.CurrentStreak
	}
	ledger.LastActivityDate = &today

	// Bonus selection is mutually exclusive, first match wins
	bonusType := ""
	switch {
	case ledger.CurrentStreak%7 == 0:
		bonusType = ActivityWeeklyStreak
	case ledger.CurrentStreak%30 == 0:
		bonusType = ActivityMonthlyStreak
	case created:
		bonusType = ActivityDailyStreak
	}

	if bonusType != "" {
		record.PointsEarned += PointValue(bonusType)
	}
	if err := r.SaveStreakRecord(ctx, record); err != nil {
		return "", err
	}

	return bonusType, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	return dateOnly(a).Equal(dateOnly(b))
}

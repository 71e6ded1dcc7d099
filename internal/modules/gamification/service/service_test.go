package gamification

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/askup-dev/askup-backend/internal/entity"
	"github.com/askup-dev/askup-backend/internal/modules/gamification/repository"
	"github.com/askup-dev/askup-backend/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepository keeps everything in maps so service behavior can be tested
// without a database.
type fakeRepository struct {
	ledgers      map[uuid.UUID]*entity.PointLedger
	streaks      map[string]*entity.StreakRecord
	achievements []entity.Achievement
	unlocks      []entity.AchievementUnlock
	logs         []entity.ActivityLog
	nextUnlockID uint
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		ledgers: make(map[uuid.UUID]*entity.PointLedger),
		streaks: make(map[string]*entity.StreakRecord),
	}
}

func (f *fakeRepository) Transaction(ctx context.Context, fn func(repository.GamificationRepository) error) error {
	return fn(f)
}

func (f *fakeRepository) GetOrCreateLedger(ctx context.Context, userID uuid.UUID) (*entity.PointLedger, error) {
	if ledger, ok := f.ledgers[userID]; ok {
		return ledger, nil
	}
	ledger := &entity.PointLedger{UserID: userID, Level: 1}
	f.ledgers[userID] = ledger
	return ledger, nil
}

func (f *fakeRepository) GetOrCreateLedgerForUpdate(ctx context.Context, userID uuid.UUID) (*entity.PointLedger, error) {
	return f.GetOrCreateLedger(ctx, userID)
}

func (f *fakeRepository) SaveLedger(ctx context.Context, ledger *entity.PointLedger) error {
	f.ledgers[ledger.UserID] = ledger
	return nil
}

func streakKey(userID uuid.UUID, day time.Time) string {
	return fmt.Sprintf("%s:%s", userID, day.Format("2006-01-02"))
}

func (f *fakeRepository) GetOrCreateStreakRecord(ctx context.Context, userID uuid.UUID, day time.Time) (*entity.StreakRecord, bool, error) {
	key := streakKey(userID, day)
	if record, ok := f.streaks[key]; ok {
		return record, false, nil
	}
	record := &entity.StreakRecord{UserID: userID, Day: day}
	f.streaks[key] = record
	return record, true, nil
}

func (f *fakeRepository) SaveStreakRecord(ctx context.Context, record *entity.StreakRecord) error {
	f.streaks[streakKey(record.UserID, record.Day)] = record
	return nil
}

func (f *fakeRepository) ActiveAchievements(ctx context.Context) ([]entity.Achievement, error) {
	var active []entity.Achievement
	for _, a := range f.achievements {
		if a.IsActive {
			active = append(active, a)
		}
	}
	return active, nil
}

func (f *fakeRepository) UnlockedAchievementIDs(ctx context.Context, userID uuid.UUID) ([]uint, error) {
	var ids []uint
	for _, unlock := range f.unlocks {
		if unlock.UserID == userID {
			ids = append(ids, unlock.AchievementID)
		}
	}
	return ids, nil
}

func (f *fakeRepository) CreateUnlock(ctx context.Context, unlock *entity.AchievementUnlock) error {
	f.nextUnlockID++
	unlock.ID = f.nextUnlockID
	unlock.EarnedAt = time.Now()
	f.unlocks = append(f.unlocks, *unlock)
	return nil
}

func (f *fakeRepository) ListUnlocks(ctx context.Context, userID uuid.UUID) ([]entity.AchievementUnlock, error) {
	var unlocks []entity.AchievementUnlock
	for _, unlock := range f.unlocks {
		if unlock.UserID == userID {
			for _, a := range f.achievements {
				if a.ID == unlock.AchievementID {
					unlock.Achievement = a
				}
			}
			unlocks = append(unlocks, unlock)
		}
	}
	return unlocks, nil
}

func (f *fakeRepository) CreateActivityLog(ctx context.Context, entry *entity.ActivityLog) error {
	f.logs = append(f.logs, *entry)
	return nil
}

func (f *fakeRepository) TopLedgers(ctx context.Context, limit int, orderColumn string) ([]entity.PointLedger, error) {
	ledgers := make([]entity.PointLedger, 0, len(f.ledgers))
	for _, ledger := range f.ledgers {
		ledgers = append(ledgers, *ledger)
	}
	sort.Slice(ledgers, func(i, j int) bool {
		return ledgers[i].TotalPoints > ledgers[j].TotalPoints
	})
	if len(ledgers) > limit {
		ledgers = ledgers[:limit]
	}
	return ledgers, nil
}

func (f *fakeRepository) CountLedgersAbove(ctx context.Context, totalPoints int) (int64, error) {
	var count int64
	for _, ledger := range f.ledgers {
		if ledger.TotalPoints > totalPoints {
			count++
		}
	}
	return count, nil
}

func newTestService(repo *fakeRepository, now time.Time) *gamificationService {
	svc := NewGamificationService(repo, nil).(*gamificationService)
	svc.now = func() time.Time { return now }
	return svc
}

// seedToday suppresses the first-activity-of-day daily bonus by making the
// current day look already active.
func seedToday(repo *fakeRepository, userID uuid.UUID, now time.Time) {
	today := dateOnly(now)
	repo.streaks[streakKey(userID, today)] = &entity.StreakRecord{UserID: userID, Day: today, ActivitiesCount: 1}
	ledger, _ := repo.GetOrCreateLedger(context.Background(), userID)
	ledger.CurrentStreak = 1
	ledger.LongestStreak = 1
	ledger.LastActivityDate = &today
}

func TestAwardPointsRejectsAnonymous(t *testing.T) {
	svc := newTestService(newFakeRepository(), time.Now())

	_, err := svc.AwardPoints(context.Background(), uuid.Nil, ActivityQuestionAsked, nil)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestAwardPointsFirstActivity(t *testing.T) {
	repo := newFakeRepository()
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	svc := newTestService(repo, now)
	userID := uuid.New()

	result, err := svc.AwardPoints(context.Background(), userID, ActivityQuestionAsked, nil)
	require.NoError(t, err)

	// 5 for the question plus the first-activity-of-day streak bonus
	assert.Equal(t, 5, result.PointsAwarded)
	assert.Equal(t, 10, result.TotalPoints)
	assert.False(t, result.LevelUp)

	ledger := repo.ledgers[userID]
	assert.Equal(t, 5, ledger.QuestionsPoints)
	assert.Equal(t, 5, ledger.ConsistencyPoints)
	assert.Equal(t, 1, ledger.CurrentStreak)
	assert.Equal(t, 1, ledger.LongestStreak)

	// Primary and bonus activity both land in the log
	require.Len(t, repo.logs, 2)
	assert.Equal(t, ActivityQuestionAsked, repo.logs[0].ActivityType)
	assert.Equal(t, ActivityDailyStreak, repo.logs[1].ActivityType)
}

func TestAwardPointsSameDayNoBonus(t *testing.T) {
	repo := newFakeRepository()
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	svc := newTestService(repo, now)
	userID := uuid.New()
	seedToday(repo, userID, now)

	result, err := svc.AwardPoints(context.Background(), userID, ActivityMessageSent, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.PointsAwarded)
	assert.Equal(t, 2, result.TotalPoints)
	assert.Equal(t, 1, repo.ledgers[userID].CurrentStreak)
	require.Len(t, repo.logs, 1)
}

func TestAwardPointsUnknownActivity(t *testing.T) {
	repo := newFakeRepository()
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	svc := newTestService(repo, now)
	userID := uuid.New()
	seedToday(repo, userID, now)

	result, err := svc.AwardPoints(context.Background(), userID, "poked_the_server", nil)
	require.NoError(t, err)

	assert.Equal(t, 0, result.PointsAwarded)
	assert.Equal(t, 0, result.TotalPoints)
	require.Len(t, repo.logs, 1)
	assert.Equal(t, "poked_the_server", repo.logs[0].ActivityType)
}

func TestAwardPointsOverrideTriggersLevelUp(t *testing.T) {
	repo := newFakeRepository()
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	svc := newTestService(repo, now)
	userID := uuid.New()
	seedToday(repo, userID, now)

	override := 100
	result, err := svc.AwardPoints(context.Background(), userID, ActivityQuestionAsked, &override)
	require.NoError(t, err)

	assert.Equal(t, 100, result.PointsAwarded)
	assert.Equal(t, 100, result.TotalPoints)
	assert.True(t, result.LevelUp)
	require.NotNil(t, result.NewLevel)
	assert.Equal(t, 2, *result.NewLevel)
}

func TestAwardPointsDeletionClampsToZero(t *testing.T) {
	repo := newFakeRepository()
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	svc := newTestService(repo, now)
	userID := uuid.New()
	seedToday(repo, userID, now)

	ledger := repo.ledgers[userID]
	ledger.QuestionsPoints = 2
	ledger.TotalPoints = 2

	result, err := svc.AwardPoints(context.Background(), userID, ActivityQuestionDeleted, nil)
	require.NoError(t, err)

	assert.Equal(t, -3, result.PointsAwarded)
	assert.Equal(t, 0, result.TotalPoints)
	assert.Equal(t, 0, ledger.QuestionsPoints)
}

func TestStreakProgression(t *testing.T) {
	repo := newFakeRepository()
	userID := uuid.New()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	// Seven consecutive days of activity
	for day := 0; day < 7; day++ {
		svc := newTestService(repo, start.AddDate(0, 0, day))
		_, err := svc.AwardPoints(context.Background(), userID, ActivityAnswerGiven, nil)
		require.NoError(t, err)
	}

	ledger := repo.ledgers[userID]
	assert.Equal(t, 7, ledger.CurrentStreak)
	assert.Equal(t, 7, ledger.LongestStreak)

	// Day seven trades the daily bonus for the weekly one
	lastLog := repo.logs[len(repo.logs)-1]
	assert.Equal(t, ActivityWeeklyStreak, lastLog.ActivityType)

	// 6 daily bonuses (5 each) + 1 weekly bonus (25)
	assert.Equal(t, 6*5+25, ledger.ConsistencyPoints)
	// 7 answers at 10 each plus the streak bonuses
	assert.Equal(t, 70+6*5+25, ledger.TotalPoints)

	// A two-day gap resets the current streak but not the record
	svc := newTestService(repo, start.AddDate(0, 0, 9))
	_, err := svc.AwardPoints(context.Background(), userID, ActivityAnswerGiven, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, ledger.CurrentStreak)
	assert.Equal(t, 7, ledger.LongestStreak)
}

func TestStreakRecordAccumulatesPoints(t *testing.T) {
	repo := newFakeRepository()
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	svc := newTestService(repo, now)
	userID := uuid.New()

	_, err := svc.AwardPoints(context.Background(), userID, ActivityQuestionAsked, nil)
	require.NoError(t, err)
	_, err = svc.AwardPoints(context.Background(), userID, ActivityAnswerGiven, nil)
	require.NoError(t, err)

	// 5 question + 5 daily bonus + 10 answer: the day's record counts the
	// bonus just like the ledger does.
	record := repo.streaks[streakKey(userID, dateOnly(now))]
	require.NotNil(t, record)
	assert.Equal(t, 2, record.ActivitiesCount)
	assert.Equal(t, 20, record.PointsEarned)
	assert.Equal(t, repo.ledgers[userID].TotalPoints, record.PointsEarned)
}

func TestDeletionPenaltyBelowThresholdZerosBooks(t *testing.T) {
	repo := newFakeRepository()
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	svc := newTestService(repo, now)
	userID := uuid.New()

	require.NoError(t, svc.PenalizeQuestionDeletion(context.Background(), userID))

	// A broke user cannot come out ahead by deleting: no streak, no daily
	// bonus, no activity trail.
	ledger := repo.ledgers[userID]
	assert.Equal(t, 0, ledger.TotalPoints)
	assert.Equal(t, 0, ledger.ConsistencyPoints)
	assert.Equal(t, 0, ledger.CurrentStreak)
	assert.Empty(t, repo.logs)
	assert.Empty(t, repo.streaks)
}

func TestDeletionPenaltyBelowThresholdClampsQuestions(t *testing.T) {
	repo := newFakeRepository()
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	svc := newTestService(repo, now)
	userID := uuid.New()

	ledger, _ := repo.GetOrCreateLedger(context.Background(), userID)
	ledger.QuestionsPoints = 2
	ledger.TotalPoints = 2

	require.NoError(t, svc.PenalizeQuestionDeletion(context.Background(), userID))
	assert.Equal(t, 0, ledger.TotalPoints)
	assert.Equal(t, 0, ledger.QuestionsPoints)
}

func TestDeletionPenaltyAboveThresholdUsesAwardPath(t *testing.T) {
	repo := newFakeRepository()
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	svc := newTestService(repo, now)
	userID := uuid.New()
	seedToday(repo, userID, now)

	ledger := repo.ledgers[userID]
	ledger.QuestionsPoints = 10
	ledger.TotalPoints = 10

	require.NoError(t, svc.PenalizeQuestionDeletion(context.Background(), userID))

	assert.Equal(t, 7, ledger.TotalPoints)
	assert.Equal(t, 7, ledger.QuestionsPoints)
	require.Len(t, repo.logs, 1)
	assert.Equal(t, ActivityQuestionDeleted, repo.logs[0].ActivityType)
}

func TestAchievementUnlocks(t *testing.T) {
	repo := newFakeRepository()
	repo.achievements = []entity.Achievement{
		{ID: 1, Name: "First Question", PointsRequired: 0, Category: entity.AchievementCategoryQuestions, IsActive: true},
		{ID: 2, Name: "Curious Mind", PointsRequired: 50, Category: entity.AchievementCategoryQuestions, IsActive: true},
		{ID: 3, Name: "Retired Badge", PointsRequired: 0, Category: entity.AchievementCategoryQuestions, IsActive: false},
	}
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	svc := newTestService(repo, now)
	userID := uuid.New()
	seedToday(repo, userID, now)

	result, err := svc.AwardPoints(context.Background(), userID, ActivityQuestionAsked, nil)
	require.NoError(t, err)
	require.Len(t, result.NewAchievements, 1)
	assert.Equal(t, "First Question", result.NewAchievements[0].Name)

	// Crossing the 50-point category threshold unlocks the next one, and
	// the already-earned badge is not returned again.
	override := 60
	result, err = svc.AwardPoints(context.Background(), userID, ActivityQuestionAsked, &override)
	require.NoError(t, err)
	require.Len(t, result.NewAchievements, 1)
	assert.Equal(t, "Curious Mind", result.NewAchievements[0].Name)

	ids, _ := repo.UnlockedAchievementIDs(context.Background(), userID)
	assert.Len(t, ids, 2)
}

func TestTotalBasedAchievement(t *testing.T) {
	ledger := &entity.PointLedger{TotalPoints: 2600, QuestionsPoints: 100}
	expert := entity.Achievement{Name: "Expert", PointsRequired: 2500, Category: entity.AchievementCategoryExpertise}
	assert.True(t, qualifies(ledger, expert))

	ledger.TotalPoints = 2400
	assert.False(t, qualifies(ledger, expert))
}

func TestNameRuleAchievements(t *testing.T) {
	tests := []struct {
		name   string
		badge  string
		ledger entity.PointLedger
		want   bool
	}{
		{"first answer earned", "First Answer", entity.PointLedger{AnswersPoints: 15}, true},
		{"first answer missing", "First Answer", entity.PointLedger{}, false},
		{"7 day streak met", "7 Day Streak", entity.PointLedger{CurrentStreak: 7}, true},
		{"7 day streak short", "7 Day Streak", entity.PointLedger{CurrentStreak: 6}, false},
		{"30 day streak met", "30 Day Streak", entity.PointLedger{CurrentStreak: 31}, true},
		{"level 5 met", "Level 5 Club", entity.PointLedger{Level: 5}, true},
		{"level 10 short", "Level 10 Club", entity.PointLedger{Level: 9}, false},
		{"unmatched name", "Mystery Badge", entity.PointLedger{TotalPoints: 99999}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			badge := entity.Achievement{Name: tt.badge}
			assert.Equal(t, tt.want, qualifies(&tt.ledger, badge))
		})
	}
}

func TestRankSharesTies(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo, time.Now())

	top := uuid.New()
	midA := uuid.New()
	midB := uuid.New()
	low := uuid.New()

	repo.ledgers[top] = &entity.PointLedger{UserID: top, TotalPoints: 100, Level: 2}
	repo.ledgers[midA] = &entity.PointLedger{UserID: midA, TotalPoints: 50, Level: 1}
	repo.ledgers[midB] = &entity.PointLedger{UserID: midB, TotalPoints: 50, Level: 1}
	repo.ledgers[low] = &entity.PointLedger{UserID: low, TotalPoints: 10, Level: 1}

	rank, err := svc.GetUserRank(context.Background(), top)
	require.NoError(t, err)
	assert.Equal(t, 1, rank)

	rankA, err := svc.GetUserRank(context.Background(), midA)
	require.NoError(t, err)
	rankB, err := svc.GetUserRank(context.Background(), midB)
	require.NoError(t, err)
	assert.Equal(t, 2, rankA)
	assert.Equal(t, rankA, rankB)

	rank, err = svc.GetUserRank(context.Background(), low)
	require.NoError(t, err)
	assert.Equal(t, 4, rank)
}

func TestGetUserStats(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo, time.Now())
	userID := uuid.New()

	repo.ledgers[userID] = &entity.PointLedger{
		UserID:          userID,
		TotalPoints:     150,
		QuestionsPoints: 150,
		Level:           2,
		CurrentStreak:   3,
		LongestStreak:   5,
	}

	stats, err := svc.GetUserStats(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 150, stats.Points.TotalPoints)
	assert.Equal(t, 2, stats.Points.Level)
	assert.Equal(t, 1, stats.Rank)
	// Level 2 spans 100..400: 50 in, 250 to go
	assert.Equal(t, 50, stats.LevelProgress.CurrentProgress)
	assert.Equal(t, 250, stats.LevelProgress.PointsNeeded)
	assert.InDelta(t, 16.6, stats.LevelProgress.Percentage, 0.1)
}

func TestGetLeaderboard(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo, time.Now())

	for i, points := range []int{30, 80, 10} {
		id := uuid.New()
		repo.ledgers[id] = &entity.PointLedger{
			UserID:      id,
			TotalPoints: points,
			Level:       1,
			User:        entity.User{ID: id, Username: fmt.Sprintf("user%d", i)},
		}
	}

	entries, err := svc.GetLeaderboard(context.Background(), 2, "total")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Position)
	assert.Equal(t, 80, entries[0].TotalPoints)
	assert.Equal(t, 30, entries[1].TotalPoints)
}

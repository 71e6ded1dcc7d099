package gamification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/askup-dev/askup-backend/internal/entity"
	gamDto "github.com/askup-dev/askup-backend/internal/modules/gamification/dto"
	"github.com/askup-dev/askup-backend/internal/modules/gamification/repository"
	"github.com/askup-dev/askup-backend/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const leaderboardCacheTTL = 60 * time.Second

// GamificationService is the single entry point into the point ledger,
// level, streak and achievement machinery. AwardPoints is the write path;
// everything else reads.
type GamificationService interface {
	// AwardPoints credits (or debits) a user for one activity and returns a
	// summary. Callers turn the summary into notifications; this service
	// never writes notifications itself.
	AwardPoints(ctx context.Context, userID uuid.UUID, activityType string, pointsOverride *int) (*gamDto.AwardResult, error)
	// PenalizeQuestionDeletion debits the question-deletion penalty,
	// bypassing the streak machinery for users who hold fewer points than
	// the penalty itself.
	PenalizeQuestionDeletion(ctx context.Context, userID uuid.UUID) error
	// EnsureLedger is the idempotent get-or-create used wherever a profile
	// or dashboard needs the user's current standing.
	EnsureLedger(ctx context.Context, userID uuid.UUID) (*entity.PointLedger, error)
	GetUserStats(ctx context.Context, userID uuid.UUID) (*gamDto.UserStatsResponse, error)
	GetLeaderboard(ctx context.Context, limit int, category string) ([]gamDto.LeaderboardEntry, error)
	GetUserRank(ctx context.Context, userID uuid.UUID) (int, error)
}

type gamificationService struct {
	repo        repository.GamificationRepository
	redisClient *redis.Client
	now         func() time.Time
}

func NewGamificationService(repo repository.GamificationRepository, redisClient *redis.Client) GamificationService {
	return &gamificationService{
		repo:        repo,
		redisClient: redisClient,
		now:         time.Now,
	}
}

func (s *gamificationService) AwardPoints(ctx context.Context, userID uuid.UUID, activityType string, pointsOverride *int) (*gamDto.AwardResult, error) {
	if userID == uuid.Nil {
		return nil, apperror.ErrUnauthorized
	}

	delta := PointValue(activityType)
	if pointsOverride != nil {
		delta = *pointsOverride
	}

	var result *gamDto.AwardResult

	err := s.repo.Transaction(ctx, func(r repository.GamificationRepository) error {
		// Lock the ledger row so concurrent awards for the same user
		// serialize instead of losing updates.
		ledger, err := r.GetOrCreateLedgerForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		applyDelta(ledger, activityType, delta)

		levelUp := updateLevel(ledger)
		newLevel := ledger.Level

		// Phase one: streak bookkeeping decides which bonus, if any, this
		// activity earned. Phase two applies the bonus points without
		// touching the streak again.
		bonusType, err := recordActivity(ctx, r, ledger, delta, s.now())
		if err != nil {
			return err
		}

		var bonusPoints int
		if bonusType != "" {
			bonusPoints = PointValue(bonusType)
			applyDelta(ledger, bonusType, bonusPoints)
			// Ratchet the stored level; the award result reports only the
			// level-up caused by the primary delta.
			updateLevel(ledger)
		}

		if err := r.SaveLedger(ctx, ledger); err != nil {
			return err
		}

		entry := &entity.ActivityLog{
			UserID:       userID,
			ActivityType: activityType,
			Description:  fmt.Sprintf("Earned %d points for %s", delta, activityType),
		}
		if err := r.CreateActivityLog(ctx, entry); err != nil {
			return err
		}

		if bonusType != "" {
			bonusEntry := &entity.ActivityLog{
				UserID:       userID,
				ActivityType: bonusType,
				Description:  fmt.Sprintf("Earned %d points for %s", bonusPoints, bonusType),
			}
			if err := r.CreateActivityLog(ctx, bonusEntry); err != nil {
				return err
			}
		}

		newAchievements, err := checkAchievements(ctx, r, ledger)
		if err != nil {
			return err
		}

		result = &gamDto.AwardResult{
			PointsAwarded:   delta,
			TotalPoints:     ledger.TotalPoints,
			LevelUp:         levelUp,
			NewAchievements: toAchievementResponses(newAchievements),
		}
		if levelUp {
			result.NewLevel = &newLevel
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// PenalizeQuestionDeletion routes well-off users through the normal award
// path with the question_deleted debit. Users holding fewer points than the
// penalty get their books zeroed directly instead: running the debit through
// AwardPoints would touch the streak and could hand a net-positive daily
// bonus to someone who just deleted content.
func (s *gamificationService) PenalizeQuestionDeletion(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return apperror.ErrUnauthorized
	}

	penalty := -PointValue(ActivityQuestionDeleted)

	var zeroed bool
	err := s.repo.Transaction(ctx, func(r repository.GamificationRepository) error {
		ledger, err := r.GetOrCreateLedgerForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if ledger.TotalPoints >= penalty {
			return nil
		}
		zeroed = true
		ledger.TotalPoints = 0
		ledger.QuestionsPoints = clampZero(ledger.QuestionsPoints - penalty)
		return r.SaveLedger(ctx, ledger)
	})
	if err != nil || zeroed {
		return err
	}

	_, err = s.AwardPoints(ctx, userID, ActivityQuestionDeleted, nil)
	return err
}

func (s *gamificationService) EnsureLedger(ctx context.Context, userID uuid.UUID) (*entity.PointLedger, error) {
	if userID == uuid.Nil {
		return nil, apperror.ErrUnauthorized
	}
	return s.repo.GetOrCreateLedger(ctx, userID)
}

func (s *gamificationService) GetUserStats(ctx context.Context, userID uuid.UUID) (*gamDto.UserStatsResponse, error) {
	ledger, err := s.EnsureLedger(ctx, userID)
	if err != nil {
		return nil, err
	}

	unlocks, err := s.repo.ListUnlocks(ctx, userID)
	if err != nil {
		return nil, err
	}

	rank, err := s.rankForTotal(ctx, ledger.TotalPoints)
	if err != nil {
		return nil, err
	}

	earned := make([]gamDto.EarnedAchievement, 0, len(unlocks))
	for _, unlock := range unlocks {
		earned = append(earned, gamDto.EarnedAchievement{
			AchievementResponse: toAchievementResponse(unlock.Achievement),
			EarnedAt:            unlock.EarnedAt,
		})
	}

	return &gamDto.UserStatsResponse{
		Points: gamDto.PointsResponse{
			TotalPoints:       ledger.TotalPoints,
			QuestionsPoints:   ledger.QuestionsPoints,
			AnswersPoints:     ledger.AnswersPoints,
			HelpingPoints:     ledger.HelpingPoints,
			ConsistencyPoints: ledger.ConsistencyPoints,
			Level:             ledger.Level,
			CurrentStreak:     ledger.CurrentStreak,
			LongestStreak:     ledger.LongestStreak,
			LastActivityDate:  ledger.LastActivityDate,
		},
		Achievements:      earned,
		AchievementsCount: len(earned),
		Rank:              rank,
		LevelProgress:     levelProgress(ledger),
	}, nil
}

func (s *gamificationService) GetLeaderboard(ctx context.Context, limit int, category string) ([]gamDto.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	cacheKey := fmt.Sprintf("leaderboard:%s:%d", category, limit)
	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			var entries []gamDto.LeaderboardEntry
			if err := json.Unmarshal([]byte(cached), &entries); err == nil {
				return entries, nil
			}
		}
	}

	ledgers, err := s.repo.TopLedgers(ctx, limit, orderColumn(category))
	if err != nil {
		return nil, err
	}

	entries := make([]gamDto.LeaderboardEntry, 0, len(ledgers))
	for i, ledger := range ledgers {
		entries = append(entries, gamDto.LeaderboardEntry{
			Position:        i + 1,
			Username:        ledger.User.Username,
			AvatarURL:       ledger.User.AvatarURL,
			TotalPoints:     ledger.TotalPoints,
			QuestionsPoints: ledger.QuestionsPoints,
			AnswersPoints:   ledger.AnswersPoints,
			Level:           ledger.Level,
			CurrentStreak:   ledger.CurrentStreak,
		})
	}

	if s.redisClient != nil {
		if payload, err := json.Marshal(entries); err == nil {
			if err := s.redisClient.SetEx(ctx, cacheKey, payload, leaderboardCacheTTL).Err(); err != nil {
				log.Printf("Failed to cache leaderboard: %v", err)
			}
		}
	}

	return entries, nil
}

func (s *gamificationService) GetUserRank(ctx context.Context, userID uuid.UUID) (int, error) {
	ledger, err := s.EnsureLedger(ctx, userID)
	if err != nil {
		return 0, err
	}
	return s.rankForTotal(ctx, ledger.TotalPoints)
}

// rankForTotal is standard competition ranking: 1 + the number of ledgers
// with strictly more points. Ties share the same rank number.
func (s *gamificationService) rankForTotal(ctx context.Context, totalPoints int) (int, error) {
	higher, err := s.repo.CountLedgersAbove(ctx, totalPoints)
	if err != nil {
		return 0, err
	}
	return int(higher) + 1, nil
}

func orderColumn(category string) string {
	switch category {
	case "questions":
		return "questions_points"
	case "answers":
		return "answers_points"
	case "level":
		return "level"
	case "streak":
		return "current_streak"
	default:
		return "total_points"
	}
}

func toAchievementResponse(a entity.Achievement) gamDto.AchievementResponse {
	return gamDto.AchievementResponse{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		Icon:        a.Icon,
		Category:    a.Category,
		Color:       a.Color,
	}
}

func toAchievementResponses(achievements []entity.Achievement) []gamDto.AchievementResponse {
	responses := make([]gamDto.AchievementResponse, 0, len(achievements))
	for _, a := range achievements {
		responses = append(responses, toAchievementResponse(a))
	}
	return responses
}

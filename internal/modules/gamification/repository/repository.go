package repository

import (
	"context"
	"errors"
	"time"

	"github.com/askup-dev/askup-backend/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GamificationRepository is the storage boundary of the gamification engine.
// Award paths run inside Transaction so the per-user ledger read-modify-write
// cannot lose updates under concurrent requests.
type GamificationRepository interface {
	// Transaction runs fn against a repository bound to one transaction.
	Transaction(ctx context.Context, fn func(GamificationRepository) error) error

	GetOrCreateLedger(ctx context.Context, userID uuid.UUID) (*entity.PointLedger, error)
	// GetOrCreateLedgerForUpdate locks the ledger row for the duration of the
	// surrounding transaction.
	GetOrCreateLedgerForUpdate(ctx context.Context, userID uuid.UUID) (*entity.PointLedger, error)
	SaveLedger(ctx context.Context, ledger *entity.PointLedger) error

	// GetOrCreateStreakRecord returns the record for (user, day) and whether
	// this call created it.
	GetOrCreateStreakRecord(ctx context.Context, userID uuid.UUID, day time.Time) (*entity.StreakRecord, bool, error)
	SaveStreakRecord(ctx context.Context, record *entity.StreakRecord) error

	ActiveAchievements(ctx context.Context) ([]entity.Achievement, error)
	UnlockedAchievementIDs(ctx context.Context, userID uuid.UUID) ([]uint, error)
	CreateUnlock(ctx context.Context, unlock *entity.AchievementUnlock) error
	ListUnlocks(ctx context.Context, userID uuid.UUID) ([]entity.AchievementUnlock, error)

	CreateActivityLog(ctx context.Context, entry *entity.ActivityLog) error

	// TopLedgers returns ledgers ordered by orderColumn descending, ties
	// broken by user id for a stable ordering.
	TopLedgers(ctx context.Context, limit int, orderColumn string) ([]entity.PointLedger, error)
	CountLedgersAbove(ctx context.Context, totalPoints int) (int64, error)
}

type gamificationRepository struct {
	db *gorm.DB
}

func NewGamificationRepository(db *gorm.DB) GamificationRepository {
	return &gamificationRepository{db: db}
}

func (r *gamificationRepository) Transaction(ctx context.Context, fn func(GamificationRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gamificationRepository{db: tx})
	})
}

func (r *gamificationRepository) GetOrCreateLedger(ctx context.Context, userID uuid.UUID) (*entity.PointLedger, error) {
	var ledger entity.PointLedger
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		FirstOrCreate(&ledger, &entity.PointLedger{UserID: userID, Level: 1}).Error
	if err != nil {
		return nil, err
	}
	return &ledger, nil
}

func (r *gamificationRepository) GetOrCreateLedgerForUpdate(ctx context.Context, userID uuid.UUID) (*entity.PointLedger, error) {
	var ledger entity.PointLedger
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&ledger).Error
	if err == nil {
		return &ledger, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	ledger = entity.PointLedger{UserID: userID, Level: 1}
	if err := r.db.WithContext(ctx).Create(&ledger).Error; err != nil {
		// Lost a create race; the row exists now, lock it.
		err = r.db.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&ledger).Error
		if err != nil {
			return nil, err
		}
	}
	return &ledger, nil
}

func (r *gamificationRepository) SaveLedger(ctx context.Context, ledger *entity.PointLedger) error {
	return r.db.WithContext(ctx).Save(ledger).Error
}

func (r *gamificationRepository) GetOrCreateStreakRecord(ctx context.Context, userID uuid.UUID, day time.Time) (*entity.StreakRecord, bool, error) {
	// Find with a slice to avoid gorm's "record not found" log noise
	var existing []entity.StreakRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND day = ?", userID, day).
		Limit(1).
		Find(&existing).Error
	if err != nil {
		return nil, false, err
	}

	if len(existing) > 0 {
		return &existing[0], false, nil
	}

	record := entity.StreakRecord{UserID: userID, Day: day}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, false, err
	}
	return &record, true, nil
}

func (r *gamificationRepository) SaveStreakRecord(ctx context.Context, record *entity.StreakRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *gamificationRepository) ActiveAchievements(ctx context.Context) ([]entity.Achievement, error) {
	var achievements []entity.Achievement
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id asc").
		Find(&achievements).Error
	return achievements, err
}

func (r *gamificationRepository) UnlockedAchievementIDs(ctx context.Context, userID uuid.UUID) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&entity.AchievementUnlock{}).
		Where("user_id = ?", userID).
		Pluck("achievement_id", &ids).Error
	return ids, err
}

func (r *gamificationRepository) CreateUnlock(ctx context.Context, unlock *entity.AchievementUnlock) error {
	return r.db.WithContext(ctx).Create(unlock).Error
}

func (r *gamificationRepository) ListUnlocks(ctx context.Context, userID uuid.UUID) ([]entity.AchievementUnlock, error) {
	var unlocks []entity.AchievementUnlock
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Achievement").
		Order("earned_at desc").
		Find(&unlocks).Error
	return unlocks, err
}

func (r *gamificationRepository) CreateActivityLog(ctx context.Context, entry *entity.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *gamificationRepository) TopLedgers(ctx context.Context, limit int, orderColumn string) ([]entity.PointLedger, error) {
	var ledgers []entity.PointLedger
	err := r.db.WithContext(ctx).
		Preload("User").
		Order(orderColumn + " desc").
		Order("user_id asc").
		Limit(limit).
		Find(&ledgers).Error
	return ledgers, err
}

func (r *gamificationRepository) CountLedgersAbove(ctx context.Context, totalPoints int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.PointLedger{}).
		Where("total_points > ?", totalPoints).
		Count(&count).Error
	return count, err
}

package gamification

import (
	"testing"

	"github.com/askup-dev/askup-backend/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestCalculateLevel(t *testing.T) {
	tests := []struct {
		points int
		level  int
	}{
		{0, 1},
		{50, 1},
		{99, 1},
		{100, 2},
		{399, 2},
		{400, 3},
		{899, 3},
		{900, 4},
		{2500, 6},
		{10000, 11},
		{-10, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.level, CalculateLevel(tt.points), "points=%d", tt.points)
	}
}

func TestPointsToNextLevel(t *testing.T) {
	assert.Equal(t, 100, PointsToNextLevel(1, 0))
	assert.Equal(t, 50, PointsToNextLevel(1, 50))
	assert.Equal(t, 250, PointsToNextLevel(2, 150))
	// Already past the threshold: nothing left to earn
	assert.Equal(t, 0, PointsToNextLevel(1, 150))
}

func TestUpdateLevelRatchet(t *testing.T) {
	ledger := &entity.PointLedger{TotalPoints: 100, Level: 1}
	assert.True(t, updateLevel(ledger))
	assert.Equal(t, 2, ledger.Level)

	// Points dropping never lowers the stored level
	ledger.TotalPoints = 0
	assert.False(t, updateLevel(ledger))
	assert.Equal(t, 2, ledger.Level)

	// No-op when the computed level matches
	ledger.TotalPoints = 150
	assert.False(t, updateLevel(ledger))
	assert.Equal(t, 2, ledger.Level)
}

func TestLevelProgress(t *testing.T) {
	ledger := &entity.PointLedger{TotalPoints: 50, Level: 1}
	progress := levelProgress(ledger)

	assert.Equal(t, 50, progress.CurrentProgress)
	assert.Equal(t, 50, progress.PointsNeeded)
	assert.InDelta(t, 50.0, progress.Percentage, 0.001)
}

func TestLevelProgressRatchetedLevel(t *testing.T) {
	// A ratcheted level with points below its floor reports zero progress
	ledger := &entity.PointLedger{TotalPoints: 20, Level: 2}
	progress := levelProgress(ledger)

	assert.Equal(t, 0, progress.CurrentProgress)
	assert.Equal(t, 380, progress.PointsNeeded)
	assert.InDelta(t, 0.0, progress.Percentage, 0.001)
}

package gamification

import (
	"math"

	"github.com/askup-dev/askup-backend/internal/entity"
	gamDto "github.com/askup-dev/askup-backend/internal/modules/gamification/dto"
)

// CalculateLevel maps total points onto a level with a square-root curve:
// level = floor(sqrt(points/100)) + 1, so level L starts at (L-1)^2 * 100.
func CalculateLevel(totalPoints int) int {
	safe := clampZero(totalPoints)
	return int(math.Sqrt(float64(safe)/100)) + 1
}

// PointsToNextLevel returns how many points are missing to reach the next
// level from the given level and total.
func PointsToNextLevel(level, totalPoints int) int {
	nextLevel := level + 1
	needed := (nextLevel - 1) * (nextLevel - 1) * 100
	return clampZero(needed - clampZero(totalPoints))
}

// updateLevel recomputes the ledger level from its total and ratchets it
// upward. The stored level never decreases, even when points later drop.
// Reports whether a level-up occurred.
func updateLevel(ledger *entity.PointLedger) bool {
	newLevel := CalculateLevel(ledger.TotalPoints)
	if newLevel > ledger.Level {
		ledger.Level = newLevel
		return true
	}
	return false
}

// levelProgress describes how far into the current level the total is.
func levelProgress(ledger *entity.PointLedger) gamDto.LevelProgressResponse {
	currentFloor := (ledger.Level - 1) * (ledger.Level - 1) * 100
	nextFloor := ledger.Level * ledger.Level * 100
	levelRange := nextFloor - currentFloor

	progress := clampZero(clampZero(ledger.TotalPoints) - currentFloor)

	percentage := 100.0
	if levelRange > 0 {
		percentage = math.Min(100, float64(progress)/float64(levelRange)*100)
	}

	return gamDto.LevelProgressResponse{
		CurrentProgress: progress,
		PointsNeeded:    PointsToNextLevel(ledger.Level, ledger.TotalPoints),
		Percentage:      percentage,
	}
}

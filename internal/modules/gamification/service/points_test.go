package gamification

import (
	"testing"

	"github.com/askup-dev/askup-backend/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestPointValue(t *testing.T) {
	assert.Equal(t, 5, PointValue(ActivityQuestionAsked))
	assert.Equal(t, 10, PointValue(ActivityAnswerGiven))
	assert.Equal(t, 15, PointValue(ActivityAnswerAccepted))
	assert.Equal(t, 20, PointValue(ActivityHelpfulAnswer))
	assert.Equal(t, 25, PointValue(ActivityWeeklyStreak))
	assert.Equal(t, 100, PointValue(ActivityMonthlyStreak))
	assert.Equal(t, -3, PointValue(ActivityQuestionDeleted))
	assert.Equal(t, 0, PointValue("not_a_thing"))
}

func TestApplyDeltaRouting(t *testing.T) {
	tests := []struct {
		activity string
		bucket   func(*entity.PointLedger) int
	}{
		{ActivityQuestionAsked, func(l *entity.PointLedger) int { return l.QuestionsPoints }},
		{ActivityFirstQuestion, func(l *entity.PointLedger) int { return l.QuestionsPoints }},
		{ActivityAnswerGiven, func(l *entity.PointLedger) int { return l.AnswersPoints }},
		{ActivityAnswerAccepted, func(l *entity.PointLedger) int { return l.AnswersPoints }},
		{ActivityHelpfulAnswer, func(l *entity.PointLedger) int { return l.AnswersPoints }},
		{ActivityFirstAnswer, func(l *entity.PointLedger) int { return l.AnswersPoints }},
		{ActivityDailyStreak, func(l *entity.PointLedger) int { return l.ConsistencyPoints }},
		{ActivityWeeklyStreak, func(l *entity.PointLedger) int { return l.ConsistencyPoints }},
		{ActivityMonthlyStreak, func(l *entity.PointLedger) int { return l.ConsistencyPoints }},
		{ActivityMessageSent, func(l *entity.PointLedger) int { return l.HelpingPoints }},
	}

	for _, tt := range tests {
		t.Run(tt.activity, func(t *testing.T) {
			ledger := &entity.PointLedger{}
			applyDelta(ledger, tt.activity, 10)
			assert.Equal(t, 10, tt.bucket(ledger))
			assert.Equal(t, 10, ledger.TotalPoints)
		})
	}
}

func TestApplyDeltaClampsBucketAndTotalIndependently(t *testing.T) {
	ledger := &entity.PointLedger{AnswersPoints: 10, TotalPoints: 10}

	// A 5-point penalty against an empty questions bucket: the bucket
	// clamps at zero while the total still absorbs the full hit.
	applyDelta(ledger, ActivityQuestionDeleted, -5)

	assert.Equal(t, 0, ledger.QuestionsPoints)
	assert.Equal(t, 10, ledger.AnswersPoints)
	assert.Equal(t, 5, ledger.TotalPoints)
}

func TestApplyDeltaNeverGoesNegative(t *testing.T) {
	ledger := &entity.PointLedger{QuestionsPoints: 2, TotalPoints: 2}
	applyDelta(ledger, ActivityQuestionDeleted, -3)

	assert.Equal(t, 0, ledger.QuestionsPoints)
	assert.Equal(t, 0, ledger.TotalPoints)
}

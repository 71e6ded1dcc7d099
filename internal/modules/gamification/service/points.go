package gamification

import (
	"strings"

	"github.com/askup-dev/askup-backend/internal/entity"
)

// Activity types recognized by the point table. Unknown types are accepted
// too: they award 0 points (unless overridden) and are still logged.
const (
	ActivityQuestionAsked   = "question_asked"
	ActivityAnswerGiven     = "answer_given"
	ActivityAnswerAccepted  = "answer_accepted"
	ActivityHelpfulAnswer   = "helpful_answer"
	ActivityDailyStreak     = "daily_streak"
	ActivityWeeklyStreak    = "weekly_streak"
	ActivityMonthlyStreak   = "monthly_streak"
	ActivityFirstQuestion   = "first_question"
	ActivityFirstAnswer     = "first_answer"
	ActivityMessageSent     = "message_sent"
	ActivityQuestionDeleted = "question_deleted"
)

var pointValues = map[string]int{
	ActivityQuestionAsked:   5,
	ActivityAnswerGiven:     10,
	ActivityAnswerAccepted:  15,
	ActivityHelpfulAnswer:   20,
	ActivityDailyStreak:     5,
	ActivityWeeklyStreak:    25,
	ActivityMonthlyStreak:   100,
	ActivityFirstQuestion:   10,
	ActivityFirstAnswer:     15,
	ActivityMessageSent:     2,
	ActivityQuestionDeleted: -3, // deleting a question costs points
}

// PointValue returns the point delta for an activity type, 0 if unknown.
func PointValue(activityType string) int {
	return pointValues[activityType]
}

// applyDelta routes amount into the category bucket for activityType and
// into the running total. The bucket and the total are each clamped to zero
// independently: after mixed positive and negative awards the total may not
// equal the sum of the buckets. That asymmetry is inherited behavior and is
// kept on purpose.
func applyDelta(ledger *entity.PointLedger, activityType string, amount int) {
	switch {
	case activityType == ActivityQuestionAsked || activityType == ActivityFirstQuestion:
		ledger.QuestionsPoints = clampZero(ledger.QuestionsPoints + amount)
	case activityType == ActivityAnswerGiven || activityType == ActivityAnswerAccepted ||
		activityType == ActivityHelpfulAnswer || activityType == ActivityFirstAnswer:
		ledger.AnswersPoints = clampZero(ledger.AnswersPoints + amount)
	case strings.Contains(activityType, "streak"):
		ledger.ConsistencyPoints = clampZero(ledger.ConsistencyPoints + amount)
	case activityType == ActivityQuestionDeleted:
		ledger.QuestionsPoints = clampZero(ledger.QuestionsPoints + amount)
	default:
		ledger.HelpingPoints = clampZero(ledger.HelpingPoints + amount)
	}

	ledger.TotalPoints = clampZero(ledger.TotalPoints + amount)
}

func clampZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

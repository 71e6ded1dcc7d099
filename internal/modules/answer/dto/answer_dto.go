package dto

import "github.com/google/uuid"

type CreateAnswerRequest struct {
	QuestionID uuid.UUID `json:"question_id" binding:"required"`
	Content    string    `json:"content" binding:"required,min=10"`
}

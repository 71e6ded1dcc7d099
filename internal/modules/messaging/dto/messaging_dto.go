package dto

import (
	"time"

	userDto "github.com/askup-dev/askup-backend/internal/modules/user/dto"
	"github.com/google/uuid"
)

type CreateConversationRequest struct {
	Title          string      `json:"title" binding:"required,max=200"`
	Type           string      `json:"type" binding:"omitempty,oneof=direct_message study_group question_help announcement"`
	ParticipantIDs []uuid.UUID `json:"participant_ids" binding:"required,min=1"`
	QuestionID     *uuid.UUID  `json:"question_id"`
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required,min=1,max=5000"`
}

type ConversationResponse struct {
	ID        uuid.UUID              `json:"id"`
	Title     string                 `json:"title"`
	Type      string                 `json:"type"`
	CreatedBy uuid.UUID              `json:"created_by_id"`
	Members   []userDto.UserResponse `json:"members"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

type MessageResponse struct {
	ID             uuid.UUID            `json:"id"`
	ConversationID uuid.UUID            `json:"conversation_id"`
	Sender         userDto.UserResponse `json:"sender"`
	Content        string               `json:"content"`
	IsRead         bool                 `json:"is_read"`
	CreatedAt      time.Time            `json:"created_at"`
}

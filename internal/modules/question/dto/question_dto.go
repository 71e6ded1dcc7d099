package dto

import (
	"time"

	searchService "github.com/askup-dev/askup-backend/internal/modules/search/service"
	userDto "github.com/askup-dev/askup-backend/internal/modules/user/dto"
	"github.com/google/uuid"
)

type CreateQuestionRequest struct {
	Title     string `json:"title" binding:"required,min=10,max=200"`
	Details   string `json:"details" binding:"required,min=10"`
	Category  string `json:"category" binding:"omitempty,max=50"`
	Priority  string `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	IsPrivate bool   `json:"is_private"`
}

type QuestionListFilter struct {
	Category string `form:"category" binding:"omitempty,max=50"`
	Status   string `form:"status" binding:"omitempty,oneof=open assigned answered closed"`
	Mine     bool   `form:"mine"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset   int    `form:"offset" binding:"omitempty,min=0"`
}

type SearchFilter struct {
	Query    string `form:"q" binding:"required,min=1"`
	Category string `form:"category" binding:"omitempty,max=50"`
	Status   string `form:"status" binding:"omitempty,oneof=open assigned answered closed"`
	Limit    int64  `form:"limit" binding:"omitempty,min=1,max=100"`
}

type AssignQuestionRequest struct {
	AdminID uuid.UUID `json:"admin_id" binding:"required"`
}

type QuestionResponse struct {
	ID            uuid.UUID             `json:"id"`
	Title         string                `json:"title"`
	Details       string                `json:"details"`
	Category      string                `json:"category"`
	Status        string                `json:"status"`
	Priority      string                `json:"priority"`
	IsPrivate     bool                  `json:"is_private"`
	Author        userDto.UserResponse  `json:"author"`
	AssignedAdmin *userDto.UserResponse `json:"assigned_admin,omitempty"`
	AnswerCount   int                   `json:"answer_count"`
	Answers       []AnswerResponse      `json:"answers,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	AssignedAt    *time.Time            `json:"assigned_at,omitempty"`
	AnsweredAt    *time.Time            `json:"answered_at,omitempty"`
}

type AnswerResponse struct {
	ID              uuid.UUID            `json:"id"`
	QuestionID      uuid.UUID            `json:"question_id"`
	Content         string               `json:"content"`
	Author          userDto.UserResponse `json:"author"`
	IsAdminResponse bool                 `json:"is_admin_response"`
	IsAccepted      bool                 `json:"is_accepted"`
	IsHelpful       bool                 `json:"is_helpful"`
	CreatedAt       time.Time            `json:"created_at"`
}

type QuestionListResponse struct {
	Data   []QuestionResponse `json:"data"`
	Total  int64              `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

type SearchResponse struct {
	Query string                      `json:"query"`
	Hits  []searchService.QuestionHit `json:"hits"`
}

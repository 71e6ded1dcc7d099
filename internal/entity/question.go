package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	QuestionStatusOpen     = "open"
	QuestionStatusAssigned = "assigned"
	QuestionStatusAnswered = "answered"
	QuestionStatusClosed   = "closed"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

type Question struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string     `gorm:"size:200;not null" json:"title"`
	Details         string     `gorm:"type:text;not null" json:"details"`
	Category        string     `gorm:"size:50;index;default:other" json:"category"`
	AuthorID        uuid.UUID  `gorm:"type:uuid;index;not null" json:"author_id"`
	Author          User       `gorm:"foreignKey:AuthorID" json:"author"`
	AssignedAdminID *uuid.UUID `gorm:"type:uuid" json:"assigned_admin_id,omitempty"`
	AssignedAdmin   *User      `gorm:"foreignKey:AssignedAdminID" json:"assigned_admin,omitempty"`
	Status          string     `gorm:"size:20;index;default:open" json:"status"`
	Priority        string     `gorm:"size:10;default:medium" json:"priority"`
	IsPrivate       bool       `gorm:"default:false" json:"is_private"`
	CreatedAt       time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	AssignedAt      *time.Time `json:"assigned_at,omitempty"`
	AnsweredAt      *time.Time `json:"answered_at,omitempty"`
	Answers         []Answer   `gorm:"constraint:OnDelete:CASCADE" json:"answers,omitempty"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

type Answer struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID      uuid.UUID `gorm:"type:uuid;index;not null" json:"question_id"`
	Question        Question  `gorm:"foreignKey:QuestionID" json:"-"`
	Content         string    `gorm:"type:text;not null" json:"content"`
	AuthorID        uuid.UUID `gorm:"type:uuid;index;not null" json:"author_id"`
	Author          User      `gorm:"foreignKey:AuthorID" json:"author"`
	IsAdminResponse bool      `gorm:"default:false" json:"is_admin_response"`
	IsAccepted      bool      `gorm:"default:false" json:"is_accepted"`
	IsHelpful       bool      `gorm:"default:false" json:"is_helpful"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (a *Answer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

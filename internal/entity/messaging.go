package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ConversationDirect       = "direct_message"
	ConversationStudyGroup   = "study_group"
	ConversationQuestionHelp = "question_help"
	ConversationAnnouncement = "announcement"
)

type Conversation struct {
	ID          uuid.UUID                 `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string                    `gorm:"size:200;not null" json:"title"`
	Type        string                    `gorm:"size:20;default:direct_message" json:"type"`
	CreatedByID uuid.UUID                 `gorm:"type:uuid;not null" json:"created_by_id"`
	CreatedBy   User                      `gorm:"foreignKey:CreatedByID" json:"created_by"`
	QuestionID  *uuid.UUID                `gorm:"type:uuid" json:"question_id,omitempty"`
	IsActive    bool                      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time                 `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time                 `gorm:"autoUpdateTime;index" json:"updated_at"`
	Members     []ConversationParticipant `gorm:"constraint:OnDelete:CASCADE" json:"members,omitempty"`
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type ConversationParticipant struct {
	ConversationID uuid.UUID `gorm:"type:uuid;primaryKey" json:"conversation_id"`
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"user_id"`
	User           User      `gorm:"foreignKey:UserID" json:"user"`
	JoinedAt       time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

type ConversationMessage struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID uuid.UUID    `gorm:"type:uuid;index;not null" json:"conversation_id"`
	Conversation   Conversation `gorm:"foreignKey:ConversationID" json:"-"`
	SenderID       uuid.UUID    `gorm:"type:uuid;index;not null" json:"sender_id"`
	Sender         User         `gorm:"foreignKey:SenderID" json:"sender"`
	Content        string       `gorm:"type:text;not null" json:"content"`
	IsRead         bool         `gorm:"default:false" json:"is_read"`
	CreatedAt      time.Time    `gorm:"autoCreateTime;index" json:"created_at"`
}

func (m *ConversationMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

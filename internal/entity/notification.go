package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationNewAnswer         = "new_answer"
	NotificationQuestionAssigned  = "question_assigned"
	NotificationAchievementEarned = "achievement_earned"
	NotificationLevelUp           = "level_up"
	NotificationMessageReceived   = "message_received"
	NotificationStreakMilestone   = "streak_milestone"
	NotificationSystemUpdate      = "system_update"
)

type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	User      User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Title     string     `gorm:"size:200;not null" json:"title"`
	Message   string     `gorm:"type:text" json:"message"`
	Type      string     `gorm:"size:30;index" json:"type"`
	IsRead    bool       `gorm:"default:false;index" json:"is_read"`
	ActionURL *string    `gorm:"type:text" json:"action_url,omitempty"`
	Icon      string     `gorm:"size:50;default:fas fa-bell" json:"icon"`
	Color     string     `gorm:"size:20;default:primary" json:"color"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

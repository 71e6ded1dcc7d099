package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	FirstName    string    `gorm:"size:100" json:"first_name"`
	LastName     string    `gorm:"size:100" json:"last_name"`
	RoleID       *uint     `json:"role_id"`
	Role         Role      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"role"`
	AvatarURL    *string   `gorm:"type:text" json:"avatar_url,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	Profile      *Profile  `gorm:"constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsStaff reports whether the user holds the admin role.
func (u *User) IsStaff() bool {
	return u.Role.Name == RoleAdmin
}

// DisplayName prefers the real name, falling back to the username.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}

type Profile struct {
	UserID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Bio        *string   `gorm:"type:text" json:"bio,omitempty"`
	Location   *string   `gorm:"size:100" json:"location,omitempty"`
	StudentID  *string   `gorm:"size:20" json:"student_id,omitempty"`
	Department *string   `gorm:"size:100" json:"department,omitempty"`
	YearLevel  *string   `gorm:"size:20" json:"year_level,omitempty"`
	Phone      *string   `gorm:"size:20" json:"phone,omitempty"`
	Website    *string   `gorm:"type:text" json:"website,omitempty"`

	// Privacy settings
	ShowEmailPublicly bool `gorm:"default:false" json:"show_email_publicly"`
	ShowRealName      bool `gorm:"default:true" json:"show_real_name"`
	AllowMessages     bool `gorm:"default:true" json:"allow_messages"`

	// Notification settings
	EmailNotifications   bool `gorm:"default:true" json:"email_notifications"`
	EmailNewAnswer       bool `gorm:"default:true" json:"email_new_answer"`
	EmailNewMessage      bool `gorm:"default:true" json:"email_new_message"`
	EmailWeeklyDigest    bool `gorm:"default:false" json:"email_weekly_digest"`
	BrowserNotifications bool `gorm:"default:true" json:"browser_notifications"`

	// Theme settings
	ThemePreference   string `gorm:"size:10;default:light" json:"theme_preference"`
	CompactMode       bool   `gorm:"default:false" json:"compact_mode"`
	AnimationsEnabled bool   `gorm:"default:true" json:"animations_enabled"`

	// Activity counters
	QuestionsAsked int       `gorm:"default:0" json:"questions_asked"`
	AnswersGiven   int       `gorm:"default:0" json:"answers_given"`
	MessagesSent   int       `gorm:"default:0" json:"messages_sent"`
	LastActive     time.Time `gorm:"autoUpdateTime" json:"last_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

package dto

import (
	"time"

	userDto "github.com/askup-dev/askup-backend/internal/modules/user/dto"
)

type UpdateProfileRequest struct {
	FirstName  *string `json:"first_name" binding:"omitempty,max=100"`
	LastName   *string `json:"last_name" binding:"omitempty,max=100"`
	Bio        *string `json:"bio" binding:"omitempty,max=1000"`
	Location   *string `json:"location" binding:"omitempty,max=100"`
	StudentID  *string `json:"student_id" binding:"omitempty,max=20"`
	Department *string `json:"department" binding:"omitempty,max=100"`
	YearLevel  *string `json:"year_level" binding:"omitempty,max=20"`
	Phone      *string `json:"phone" binding:"omitempty,max=20"`
	Website    *string `json:"website" binding:"omitempty,url"`
}

type UpdateSettingsRequest struct {
	ShowEmailPublicly *bool `json:"show_email_publicly"`
	ShowRealName      *bool `json:"show_real_name"`
	AllowMessages     *bool `json:"allow_messages"`

	EmailNotifications   *bool `json:"email_notifications"`
	EmailNewAnswer       *bool `json:"email_new_answer"`
	EmailNewMessage      *bool `json:"email_new_message"`
	EmailWeeklyDigest    *bool `json:"email_weekly_digest"`
	BrowserNotifications *bool `json:"browser_notifications"`

	ThemePreference   *string `json:"theme_preference" binding:"omitempty,oneof=light dark auto"`
	CompactMode       *bool   `json:"compact_mode"`
	AnimationsEnabled *bool   `json:"animations_enabled"`
}

type ProfileResponse struct {
	User       userDto.UserResponse `json:"user"`
	Bio        *string              `json:"bio,omitempty"`
	Location   *string              `json:"location,omitempty"`
	StudentID  *string              `json:"student_id,omitempty"`
	Department *string              `json:"department,omitempty"`
	YearLevel  *string              `json:"year_level,omitempty"`
	Phone      *string              `json:"phone,omitempty"`
	Website    *string              `json:"website,omitempty"`

	QuestionsAsked int       `json:"questions_asked"`
	AnswersGiven   int       `json:"answers_given"`
	LastActive     time.Time `json:"last_active"`
	MemberSince    time.Time `json:"member_since"`
}

type SettingsResponse struct {
	ShowEmailPublicly bool `json:"show_email_publicly"`
	ShowRealName      bool `json:"show_real_name"`
	AllowMessages     bool `json:"allow_messages"`

	EmailNotifications   bool `json:"email_notifications"`
	EmailNewAnswer       bool `json:"email_new_answer"`
	EmailNewMessage      bool `json:"email_new_message"`
	EmailWeeklyDigest    bool `json:"email_weekly_digest"`
	BrowserNotifications bool `json:"browser_notifications"`

	ThemePreference   string `json:"theme_preference"`
	CompactMode       bool   `json:"compact_mode"`
	AnimationsEnabled bool   `json:"animations_enabled"`
}

package repository

import (
	"context"

	"github.com/askup-dev/askup-backend/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessagingRepository interface {
	CreateConversation(ctx context.Context, conversation *entity.Conversation) error
	GetConversation(ctx context.Context, id uuid.UUID) (*entity.Conversation, error)
	ListConversations(ctx context.Context, userID uuid.UUID) ([]entity.Conversation, error)
	IsParticipant(ctx context.Context, conversationID, userID uuid.UUID) (bool, error)
	AddParticipant(ctx context.Context, participant *entity.ConversationParticipant) error

	CreateMessage(ctx context.Context, message *entity.ConversationMessage) error
	ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]entity.ConversationMessage, error)
	MarkMessagesRead(ctx context.Context, conversationID, readerID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	TouchConversation(ctx context.Context, conversationID uuid.UUID) error
}

type messagingRepository struct {
	db *gorm.DB
}

func NewMessagingRepository(db *gorm.DB) MessagingRepository {
	return &messagingRepository{db: db}
}

func (r *messagingRepository) CreateConversation(ctx context.Context, conversation *entity.Conversation) error {
	return r.db.WithContext(ctx).Create(conversation).Error
}

func (r *messagingRepository) GetConversation(ctx context.Context, id uuid.UUID) (*entity.Conversation, error) {
	var conversation entity.Conversation
	err := r.db.WithContext(ctx).
		Preload("CreatedBy").
		Preload("Members").
		Preload("Members.User").
		First(&conversation, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (r *messagingRepository) ListConversations(ctx context.Context, userID uuid.UUID) ([]entity.Conversation, error) {
	var conversations []entity.Conversation
	err := r.db.WithContext(ctx).
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id").
		Where("cp.user_id = ? AND conversations.is_active = ?", userID, true).
		Preload("Members").
		Preload("Members.User").
		Order("conversations.updated_at desc").
		Find(&conversations).Error
	return conversations, err
}

func (r *messagingRepository) IsParticipant(ctx context.Context, conversationID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *messagingRepository) AddParticipant(ctx context.Context, participant *entity.ConversationParticipant) error {
	return r.db.WithContext(ctx).Create(participant).Error
}

func (r *messagingRepository) CreateMessage(ctx context.Context, message *entity.ConversationMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messagingRepository) ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]entity.ConversationMessage, error) {
	var messages []entity.ConversationMessage
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Preload("Sender").
		Order("created_at asc").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	return messages, err
}

// MarkMessagesRead flags everything the reader has not sent themselves.
func (r *messagingRepository) MarkMessagesRead(ctx context.Context, conversationID, readerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.ConversationMessage{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, readerID, false).
		Update("is_read", true).Error
}

func (r *messagingRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.ConversationMessage{}).
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversation_messages.conversation_id").
		Where("cp.user_id = ? AND conversation_messages.sender_id <> ? AND conversation_messages.is_read = ?", userID, userID, false).
		Count(&count).Error
	return count, err
}

func (r *messagingRepository) TouchConversation(ctx context.Context, conversationID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.Conversation{}).
		Where("id = ?", conversationID).
		Update("updated_at", gorm.Expr("NOW()")).Error
}

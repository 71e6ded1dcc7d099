package service

import (
	"context"
	"errors"
	"log"

	"github.com/askup-dev/askup-backend/internal/entity"
	gamification "github.com/askup-dev/askup-backend/internal/modules/gamification/service"
	messagingDto "github.com/askup-dev/askup-backend/internal/modules/messaging/dto"
	messagingRepo "github.com/askup-dev/askup-backend/internal/modules/messaging/repository"
	notifService "github.com/askup-dev/askup-backend/internal/modules/notification/service"
	userRepo "github.com/askup-dev/askup-backend/internal/modules/user/repository"
	userService "github.com/askup-dev/askup-backend/internal/modules/user/service"
	"github.com/askup-dev/askup-backend/pkg/apperror"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

type MessagingService interface {
	CreateConversation(ctx context.Context, creatorID uuid.UUID, req messagingDto.CreateConversationRequest) (*messagingDto.ConversationResponse, error)
	ListConversations(ctx context.Context, userID uuid.UUID) ([]messagingDto.ConversationResponse, error)
	SendMessage(ctx context.Context, senderID, conversationID uuid.UUID, req messagingDto.SendMessageRequest) (*messagingDto.MessageResponse, error)
	GetMessages(ctx context.Context, userID, conversationID uuid.UUID, limit, offset int) ([]messagingDto.MessageResponse, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type messagingService struct {
	repo         messagingRepo.MessagingRepository
	users        userRepo.UserRepository
	gamification gamification.GamificationService
	notification notifService.NotificationService
	sanitizer    *bluemonday.Policy
}

func NewMessagingService(
	repo messagingRepo.MessagingRepository,
	users userRepo.UserRepository,
	gamificationService gamification.GamificationService,
	notificationService notifService.NotificationService,
) MessagingService {
	return &messagingService{
		repo:         repo,
		users:        users,
		gamification: gamificationService,
		notification: notificationService,
		sanitizer:    bluemonday.UGCPolicy(),
	}
}

func (s *messagingService) CreateConversation(ctx context.Context, creatorID uuid.UUID, req messagingDto.CreateConversationRequest) (*messagingDto.ConversationResponse, error) {
	conversation := &entity.Conversation{
		Title:       req.Title,
		Type:        req.Type,
		CreatedByID: creatorID,
		QuestionID:  req.QuestionID,
		IsActive:    true,
	}
	if conversation.Type == "" {
		conversation.Type = entity.ConversationDirect
	}

	// Every participant must exist and accept messages before anything is
	// created.
	memberIDs := map[uuid.UUID]bool{creatorID: true}
	for _, participantID := range req.ParticipantIDs {
		if memberIDs[participantID] {
			continue
		}

		if _, err := s.users.FindByID(ctx, participantID.String()); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &apperror.AppError{Err: apperror.ErrBadRequest, Message: "participant not found"}
			}
			return nil, err
		}

		profile, err := s.users.GetProfile(ctx, participantID)
		if err != nil {
			return nil, err
		}
		if !profile.AllowMessages {
			return nil, &apperror.AppError{Err: apperror.ErrForbidden, Message: "user does not accept messages"}
		}

		memberIDs[participantID] = true
	}

	if err := s.repo.CreateConversation(ctx, conversation); err != nil {
		return nil, err
	}

	for memberID := range memberIDs {
		participant := &entity.ConversationParticipant{
			ConversationID: conversation.ID,
			UserID:         memberID,
		}
		if err := s.repo.AddParticipant(ctx, participant); err != nil {
			return nil, err
		}
	}

	full, err := s.repo.GetConversation(ctx, conversation.ID)
	if err != nil {
		return nil, err
	}
	return toConversationResponse(full), nil
}

func (s *messagingService) ListConversations(ctx context.Context, userID uuid.UUID) ([]messagingDto.ConversationResponse, error) {
	conversations, err := s.repo.ListConversations(ctx, userID)
	if err != nil {
		return nil, err
	}

	data := make([]messagingDto.ConversationResponse, 0, len(conversations))
	for i := range conversations {
		data = append(data, *toConversationResponse(&conversations[i]))
	}
	return data, nil
}

func (s *messagingService) SendMessage(ctx context.Context, senderID, conversationID uuid.UUID, req messagingDto.SendMessageRequest) (*messagingDto.MessageResponse, error) {
	conversation, err := s.repo.GetConversation(ctx, conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	isMember, err := s.repo.IsParticipant(ctx, conversationID, senderID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, apperror.ErrForbidden
	}

	sender, err := s.users.FindByID(ctx, senderID.String())
	if err != nil {
		return nil, err
	}

	message := &entity.ConversationMessage{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        s.sanitizer.Sanitize(req.Content),
	}

	if err := s.repo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	if err := s.repo.TouchConversation(ctx, conversationID); err != nil {
		log.Printf("Failed to touch conversation %s: %v", conversationID, err)
	}

	if err := s.users.IncrementProfileCounter(ctx, senderID, userRepo.CounterMessagesSent); err != nil {
		log.Printf("Failed to bump messages_sent counter: %v", err)
	}

	result, err := s.gamification.AwardPoints(ctx, senderID, gamification.ActivityMessageSent, nil)
	if err != nil {
		log.Printf("Failed to award points for message %s: %v", message.ID, err)
	} else if s.notification != nil {
		s.notification.NotifyAwardOutcome(ctx, senderID, result)
	}

	if s.notification != nil {
		for _, member := range conversation.Members {
			if member.UserID == senderID {
				continue
			}
			if err := s.notification.NotifyMessageReceived(ctx, member.UserID, sender.DisplayName(), conversation.Title); err != nil {
				log.Printf("Failed to create message notification: %v", err)
			}
		}
	}

	message.Sender = *sender
	return toMessageResponse(message), nil
}

func (s *messagingService) GetMessages(ctx context.Context, userID, conversationID uuid.UUID, limit, offset int) ([]messagingDto.MessageResponse, error) {
	isMember, err := s.repo.IsParticipant(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, apperror.ErrForbidden
	}

	if limit <= 0 {
		limit = 50
	}

	messages, err := s.repo.ListMessages(ctx, conversationID, limit, offset)
	if err != nil {
		return nil, err
	}

	// Reading the thread clears the unread marks left by other members.
	if err := s.repo.MarkMessagesRead(ctx, conversationID, userID); err != nil {
		log.Printf("Failed to mark messages read: %v", err)
	}

	data := make([]messagingDto.MessageResponse, 0, len(messages))
	for i := range messages {
		data = append(data, *toMessageResponse(&messages[i]))
	}
	return data, nil
}

func (s *messagingService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func toConversationResponse(conversation *entity.Conversation) *messagingDto.ConversationResponse {
	resp := &messagingDto.ConversationResponse{
		ID:        conversation.ID,
		Title:     conversation.Title,
		Type:      conversation.Type,
		CreatedBy: conversation.CreatedByID,
		CreatedAt: conversation.CreatedAt,
		UpdatedAt: conversation.UpdatedAt,
	}

	for i := range conversation.Members {
		member := userService.ToUserResponse(&conversation.Members[i].User)
		member.Email = ""
		resp.Members = append(resp.Members, member)
	}

	return resp
}

func toMessageResponse(message *entity.ConversationMessage) *messagingDto.MessageResponse {
	sender := userService.ToUserResponse(&message.Sender)
	sender.Email = ""
	return &messagingDto.MessageResponse{
		ID:             message.ID,
		ConversationID: message.ConversationID,
		Sender:         sender,
		Content:        message.Content,
		IsRead:         message.IsRead,
		CreatedAt:      message.CreatedAt,
	}
}

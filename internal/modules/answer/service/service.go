package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/askup-dev/askup-backend/internal/entity"
	answerDto "github.com/askup-dev/askup-backend/internal/modules/answer/dto"
	answerRepo "github.com/askup-dev/askup-backend/internal/modules/answer/repository"
	gamification "github.com/askup-dev/askup-backend/internal/modules/gamification/service"
	notifService "github.com/askup-dev/askup-backend/internal/modules/notification/service"
	questionDto "github.com/askup-dev/askup-backend/internal/modules/question/dto"
	questionRepo "github.com/askup-dev/askup-backend/internal/modules/question/repository"
	questionService "github.com/askup-dev/askup-backend/internal/modules/question/service"
	userRepo "github.com/askup-dev/askup-backend/internal/modules/user/repository"
	"github.com/askup-dev/askup-backend/pkg/apperror"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

type AnswerService interface {
	CreateAnswer(ctx context.Context, authorID uuid.UUID, req answerDto.CreateAnswerRequest) (*questionDto.AnswerResponse, error)
	AcceptAnswer(ctx context.Context, actorID uuid.UUID, answerID uuid.UUID) (*questionDto.AnswerResponse, error)
	MarkHelpful(ctx context.Context, actorID uuid.UUID, answerID uuid.UUID) (*questionDto.AnswerResponse, error)
}

type answerService struct {
	repo         answerRepo.AnswerRepository
	questions    questionRepo.QuestionRepository
	users        userRepo.UserRepository
	gamification gamification.GamificationService
	notification notifService.NotificationService
	sanitizer    *bluemonday.Policy
}

func NewAnswerService(
	repo answerRepo.AnswerRepository,
	questions questionRepo.QuestionRepository,
	users userRepo.UserRepository,
	gamificationService gamification.GamificationService,
	notificationService notifService.NotificationService,
) AnswerService {
	return &answerService{
		repo:         repo,
		questions:    questions,
		users:        users,
		gamification: gamificationService,
		notification: notificationService,
		sanitizer:    bluemonday.UGCPolicy(),
	}
}

func (s *answerService) CreateAnswer(ctx context.Context, authorID uuid.UUID, req answerDto.CreateAnswerRequest) (*questionDto.AnswerResponse, error) {
	question, err := s.questions.GetByID(ctx, req.QuestionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	if question.Status == entity.QuestionStatusClosed {
		return nil, &apperror.AppError{Err: apperror.ErrBadRequest, Message: "question is closed"}
	}

	author, err := s.users.FindByID(ctx, authorID.String())
	if err != nil {
		return nil, err
	}

	answer := &entity.Answer{
		QuestionID:      question.ID,
		Content:         s.sanitizer.Sanitize(req.Content),
		AuthorID:        authorID,
		IsAdminResponse: author.IsStaff(),
	}

	if err := s.repo.Create(ctx, answer); err != nil {
		return nil, err
	}

	// An admin response settles the question.
	if author.IsStaff() && question.Status != entity.QuestionStatusAnswered {
		now := time.Now()
		question.Status = entity.QuestionStatusAnswered
		question.AnsweredAt = &now
		if err := s.questions.Save(ctx, question); err != nil {
			log.Printf("Failed to mark question %s answered: %v", question.ID, err)
		}
	}

	profile, err := s.users.GetProfile(ctx, authorID)
	if err != nil {
		return nil, err
	}
	activityType := gamification.ActivityAnswerGiven
	if profile.AnswersGiven == 0 {
		activityType = gamification.ActivityFirstAnswer
	}

	if err := s.users.IncrementProfileCounter(ctx, authorID, userRepo.CounterAnswersGiven); err != nil {
		log.Printf("Failed to bump answers_given counter: %v", err)
	}

	result, err := s.gamification.AwardPoints(ctx, authorID, activityType, nil)
	if err != nil {
		log.Printf("Failed to award points for answer %s: %v", answer.ID, err)
	} else if s.notification != nil {
		s.notification.NotifyAwardOutcome(ctx, authorID, result)
	}

	if s.notification != nil && question.AuthorID != authorID {
		actionURL := fmt.Sprintf("/questions/%s", question.ID)
		if err := s.notification.NotifyNewAnswer(ctx, question.AuthorID, author.DisplayName(), question.Title, actionURL); err != nil {
			log.Printf("Failed to create new-answer notification: %v", err)
		}
	}

	answer.Author = *author
	resp := questionService.ToAnswerResponse(answer)
	return &resp, nil
}

// AcceptAnswer lets the question author pick the answer that solved it. The
// answer author collects the acceptance reward.
func (s *answerService) AcceptAnswer(ctx context.Context, actorID uuid.UUID, answerID uuid.UUID) (*questionDto.AnswerResponse, error) {
	answer, err := s.repo.GetByID(ctx, answerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if answer.Question.AuthorID != actorID {
		return nil, apperror.ErrForbidden
	}

	if !answer.IsAccepted {
		if err := s.repo.ClearAccepted(ctx, answer.QuestionID); err != nil {
			return nil, err
		}

		answer.IsAccepted = true
		if err := s.repo.Save(ctx, answer); err != nil {
			return nil, err
		}

		result, err := s.gamification.AwardPoints(ctx, answer.AuthorID, gamification.ActivityAnswerAccepted, nil)
		if err != nil {
			log.Printf("Failed to award acceptance points: %v", err)
		} else if s.notification != nil {
			s.notification.NotifyAwardOutcome(ctx, answer.AuthorID, result)
		}
	}

	resp := questionService.ToAnswerResponse(answer)
	return &resp, nil
}

// MarkHelpful is the question author's lighter-weight endorsement. It can be
// given to many answers but each one rewards its author only once.
func (s *answerService) MarkHelpful(ctx context.Context, actorID uuid.UUID, answerID uuid.UUID) (*questionDto.AnswerResponse, error) {
	answer, err := s.repo.GetByID(ctx, answerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if answer.Question.AuthorID != actorID {
		return nil, apperror.ErrForbidden
	}

	if !answer.IsHelpful {
		answer.IsHelpful = true
		if err := s.repo.Save(ctx, answer); err != nil {
			return nil, err
		}

		result, err := s.gamification.AwardPoints(ctx, answer.AuthorID, gamification.ActivityHelpfulAnswer, nil)
		if err != nil {
			log.Printf("Failed to award helpful points: %v", err)
		} else if s.notification != nil {
			s.notification.NotifyAwardOutcome(ctx, answer.AuthorID, result)
		}
	}

	resp := questionService.ToAnswerResponse(answer)
	return &resp, nil
}

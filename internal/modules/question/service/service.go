package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/askup-dev/askup-backend/internal/entity"
	gamification "github.com/askup-dev/askup-backend/internal/modules/gamification/service"
	notifService "github.com/askup-dev/askup-backend/internal/modules/notification/service"
	questionDto "github.com/askup-dev/askup-backend/internal/modules/question/dto"
	questionRepo "github.com/askup-dev/askup-backend/internal/modules/question/repository"
	searchService "github.com/askup-dev/askup-backend/internal/modules/search/service"
	userRepo "github.com/askup-dev/askup-backend/internal/modules/user/repository"
	userService "github.com/askup-dev/askup-backend/internal/modules/user/service"
	"github.com/askup-dev/askup-backend/pkg/apperror"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

type QuestionService interface {
	CreateQuestion(ctx context.Context, authorID uuid.UUID, req questionDto.CreateQuestionRequest) (*questionDto.QuestionResponse, error)
	GetQuestion(ctx context.Context, viewerID uuid.UUID, id uuid.UUID) (*questionDto.QuestionResponse, error)
	ListQuestions(ctx context.Context, viewerID uuid.UUID, filter questionDto.QuestionListFilter) (*questionDto.QuestionListResponse, error)
	DeleteQuestion(ctx context.Context, actorID uuid.UUID, id uuid.UUID) error
	SearchQuestions(ctx context.Context, filter questionDto.SearchFilter) (*questionDto.SearchResponse, error)
	AssignQuestion(ctx context.Context, id uuid.UUID, req questionDto.AssignQuestionRequest) (*questionDto.QuestionResponse, error)
}

type questionService struct {
	repo         questionRepo.QuestionRepository
	users        userRepo.UserRepository
	gamification gamification.GamificationService
	notification notifService.NotificationService
	search       searchService.SearchService
	sanitizer    *bluemonday.Policy
}

func NewQuestionService(
	repo questionRepo.QuestionRepository,
	users userRepo.UserRepository,
	gamificationService gamification.GamificationService,
	notificationService notifService.NotificationService,
	search searchService.SearchService,
) QuestionService {
	return &questionService{
		repo:         repo,
		users:        users,
		gamification: gamificationService,
		notification: notificationService,
		search:       search,
		sanitizer:    bluemonday.UGCPolicy(),
	}
}

func (s *questionService) CreateQuestion(ctx context.Context, authorID uuid.UUID, req questionDto.CreateQuestionRequest) (*questionDto.QuestionResponse, error) {
	author, err := s.users.FindByID(ctx, authorID.String())
	if err != nil {
		return nil, err
	}

	question := &entity.Question{
		Title:     req.Title,
		Details:   s.sanitizer.Sanitize(req.Details),
		Category:  req.Category,
		AuthorID:  authorID,
		Status:    entity.QuestionStatusOpen,
		Priority:  req.Priority,
		IsPrivate: req.IsPrivate,
	}
	if question.Category == "" {
		question.Category = "other"
	}
	if question.Priority == "" {
		question.Priority = entity.PriorityMedium
	}

	if err := s.repo.Create(ctx, question); err != nil {
		return nil, err
	}

	// The very first question pays the bigger first-timer bonus.
	profile, err := s.users.GetProfile(ctx, authorID)
	if err != nil {
		return nil, err
	}
	activityType := gamification.ActivityQuestionAsked
	if profile.QuestionsAsked == 0 {
		activityType = gamification.ActivityFirstQuestion
	}

	if err := s.users.IncrementProfileCounter(ctx, authorID, userRepo.CounterQuestionsAsked); err != nil {
		log.Printf("Failed to bump questions_asked counter: %v", err)
	}

	result, err := s.gamification.AwardPoints(ctx, authorID, activityType, nil)
	if err != nil {
		log.Printf("Failed to award points for question %s: %v", question.ID, err)
	} else if s.notification != nil {
		s.notification.NotifyAwardOutcome(ctx, authorID, result)
	}

	if s.search != nil {
		if err := s.search.IndexQuestion(question, author.Username); err != nil {
			log.Printf("Failed to index question %s: %v", question.ID, err)
		}
	}

	question.Author = *author
	return toQuestionResponse(question, true), nil
}

func (s *questionService) GetQuestion(ctx context.Context, viewerID uuid.UUID, id uuid.UUID) (*questionDto.QuestionResponse, error) {
	question, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if question.IsPrivate && question.AuthorID != viewerID {
		staff, err := s.actorIsStaff(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		if !staff {
			return nil, apperror.ErrForbidden
		}
	}

	return toQuestionResponse(question, true), nil
}

func (s *questionService) ListQuestions(ctx context.Context, viewerID uuid.UUID, filter questionDto.QuestionListFilter) (*questionDto.QuestionListResponse, error) {
	repoFilter := questionRepo.QuestionFilter{
		Category: filter.Category,
		Status:   filter.Status,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	}
	if filter.Mine {
		repoFilter.AuthorID = &viewerID
	}
	if repoFilter.Limit <= 0 {
		repoFilter.Limit = 20
	}

	questions, total, err := s.repo.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	data := make([]questionDto.QuestionResponse, 0, len(questions))
	for i := range questions {
		data = append(data, *toQuestionResponse(&questions[i], false))
	}

	return &questionDto.QuestionListResponse{
		Data:   data,
		Total:  total,
		Limit:  repoFilter.Limit,
		Offset: repoFilter.Offset,
	}, nil
}

func (s *questionService) DeleteQuestion(ctx context.Context, actorID uuid.UUID, id uuid.UUID) error {
	question, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if question.AuthorID != actorID {
		staff, err := s.actorIsStaff(ctx, actorID)
		if err != nil {
			return err
		}
		if !staff {
			return apperror.ErrForbidden
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.search != nil {
		if err := s.search.DeleteQuestion(id.String()); err != nil {
			log.Printf("Failed to remove question %s from index: %v", id, err)
		}
	}

	// The author eats the penalty even when an admin removes the question.
	if err := s.gamification.PenalizeQuestionDeletion(ctx, question.AuthorID); err != nil {
		log.Printf("Failed to apply deletion penalty for question %s: %v", id, err)
	}

	return nil
}

func (s *questionService) SearchQuestions(ctx context.Context, filter questionDto.SearchFilter) (*questionDto.SearchResponse, error) {
	if s.search == nil {
		return nil, &apperror.AppError{Err: apperror.ErrInternal, Message: "search not configured"}
	}

	hits, err := s.search.SearchQuestions(filter.Query, filter.Category, filter.Status, filter.Limit)
	if err != nil {
		return nil, err
	}

	return &questionDto.SearchResponse{Query: filter.Query, Hits: hits}, nil
}

func (s *questionService) AssignQuestion(ctx context.Context, id uuid.UUID, req questionDto.AssignQuestionRequest) (*questionDto.QuestionResponse, error) {
	question, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	admin, err := s.users.FindByID(ctx, req.AdminID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperror.AppError{Err: apperror.ErrBadRequest, Message: "assignee not found"}
		}
		return nil, err
	}
	if !admin.IsStaff() {
		return nil, &apperror.AppError{Err: apperror.ErrBadRequest, Message: "assignee must be an admin"}
	}

	now := time.Now()
	question.AssignedAdminID = &admin.ID
	question.AssignedAdmin = admin
	question.Status = entity.QuestionStatusAssigned
	question.AssignedAt = &now

	if err := s.repo.Save(ctx, question); err != nil {
		return nil, err
	}

	if s.notification != nil {
		actionURL := fmt.Sprintf("/questions/%s", question.ID)
		if err := s.notification.NotifyQuestionAssigned(ctx, admin.ID, question.Title, actionURL); err != nil {
			log.Printf("Failed to create assignment notification: %v", err)
		}
	}

	if s.search != nil {
		if err := s.search.IndexQuestion(question, question.Author.Username); err != nil {
			log.Printf("Failed to reindex question %s: %v", question.ID, err)
		}
	}

	return toQuestionResponse(question, true), nil
}

func (s *questionService) actorIsStaff(ctx context.Context, actorID uuid.UUID) (bool, error) {
	actor, err := s.users.FindByID(ctx, actorID.String())
	if err != nil {
		return false, err
	}
	return actor.IsStaff(), nil
}

func toQuestionResponse(question *entity.Question, includeAnswers bool) *questionDto.QuestionResponse {
	resp := &questionDto.QuestionResponse{
		ID:          question.ID,
		Title:       question.Title,
		Details:     question.Details,
		Category:    question.Category,
		Status:      question.Status,
		Priority:    question.Priority,
		IsPrivate:   question.IsPrivate,
		Author:      userService.ToUserResponse(&question.Author),
		AnswerCount: len(question.Answers),
		CreatedAt:   question.CreatedAt,
		AssignedAt:  question.AssignedAt,
		AnsweredAt:  question.AnsweredAt,
	}
	resp.Author.Email = ""

	if question.AssignedAdmin != nil {
		admin := userService.ToUserResponse(question.AssignedAdmin)
		admin.Email = ""
		resp.AssignedAdmin = &admin
	}

	if includeAnswers {
		for i := range question.Answers {
			resp.Answers = append(resp.Answers, ToAnswerResponse(&question.Answers[i]))
		}
	}

	return resp
}

// ToAnswerResponse is shared with the answer module, which renders the same
// shape from its own endpoints.
func ToAnswerResponse(answer *entity.Answer) questionDto.AnswerResponse {
	author := userService.ToUserResponse(&answer.Author)
	author.Email = ""
	return questionDto.AnswerResponse{
		ID:              answer.ID,
		QuestionID:      answer.QuestionID,
		Content:         answer.Content,
		Author:          author,
		IsAdminResponse: answer.IsAdminResponse,
		IsAccepted:      answer.IsAccepted,
		IsHelpful:       answer.IsHelpful,
		CreatedAt:       answer.CreatedAt,
	}
}

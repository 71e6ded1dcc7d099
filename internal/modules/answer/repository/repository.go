package repository

import (
	"context"

	"github.com/askup-dev/askup-backend/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnswerRepository interface {
	Create(ctx context.Context, answer *entity.Answer) error
	Save(ctx context.Context, answer *entity.Answer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Answer, error)
	ClearAccepted(ctx context.Context, questionID uuid.UUID) error
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) Create(ctx context.Context, answer *entity.Answer) error {
	return r.db.WithContext(ctx).Create(answer).Error
}

func (r *answerRepository) Save(ctx context.Context, answer *entity.Answer) error {
	return r.db.WithContext(ctx).Save(answer).Error
}

func (r *answerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Answer, error) {
	var answer entity.Answer
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Question").
		Preload("Question.Author").
		First(&answer, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

// ClearAccepted drops the accepted mark from every answer of the question so
// at most one answer carries it.
func (r *answerRepository) ClearAccepted(ctx context.Context, questionID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.Answer{}).
		Where("question_id = ? AND is_accepted = ?", questionID, true).
		Update("is_accepted", false).Error
}

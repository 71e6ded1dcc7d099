package repository

import (
	"context"

	"github.com/askup-dev/askup-backend/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuestionFilter struct {
	Category string
	Status   string
	AuthorID *uuid.UUID
	Limit    int
	Offset   int
}

type QuestionRepository interface {
	Create(ctx context.Context, question *entity.Question) error
	Save(ctx context.Context, question *entity.Question) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Question, error)
	List(ctx context.Context, filter QuestionFilter) ([]entity.Question, int64, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(ctx context.Context, question *entity.Question) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *questionRepository) Save(ctx context.Context, question *entity.Question) error {
	return r.db.WithContext(ctx).Save(question).Error
}

func (r *questionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Question{}, "id = ?", id).Error
}

func (r *questionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Question, error) {
	var question entity.Question
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("AssignedAdmin").
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.created_at asc")
		}).
		Preload("Answers.Author").
		First(&question, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) List(ctx context.Context, filter QuestionFilter) ([]entity.Question, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Question{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.AuthorID != nil {
		query = query.Where("author_id = ?", *filter.AuthorID)
	} else {
		// Listings only surface public questions; owners fetch their
		// private ones through the author filter.
		query = query.Where("is_private = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	var questions []entity.Question
	err := query.
		Preload("Author").
		Order("created_at desc").
		Limit(limit).
		Offset(filter.Offset).
		Find(&questions).Error
	return questions, total, err
}

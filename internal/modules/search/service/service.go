package service

import (
	"html"
	"log"
	"strings"

	"github.com/askup-dev/askup-backend/internal/entity"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

type SearchService interface {
	IndexQuestion(question *entity.Question, authorUsername string) error
	DeleteQuestion(id string) error
	SearchQuestions(query, category, status string, limit int64) ([]QuestionHit, error)
}

type searchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &searchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	return s
}

func (s *searchService) initIndexes() {
	filterableAttrs := []string{"category", "status"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	_, err := s.client.Index("questions").UpdateFilterableAttributes(&filterableInterface)
	if err != nil {
		log.Printf("Failed to update questions filterable attributes: %v", err)
	}

	sortableAttrs := []string{"created_at"}
	_, err = s.client.Index("questions").UpdateSortableAttributes(&sortableAttrs)
	if err != nil {
		log.Printf("Failed to update questions sortable attributes: %v", err)
	}

	log.Println("Meilisearch indexes initialized")
}

type QuestionHit struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Details   string `json:"details"`
	Category  string `json:"category"`
	Status    string `json:"status"`
	Author    string `json:"author"`
	CreatedAt int64  `json:"created_at"`
}

func (s *searchService) cleanContentForIndex(content string) string {
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "</div>", " ")

	sanitized := s.sanitizer.Sanitize(content)
	cleanText := html.UnescapeString(sanitized)

	return strings.Join(strings.Fields(cleanText), " ")
}

// IndexQuestion adds or updates the question document. Private questions are
// never indexed; a previously indexed question that turned private is removed.
func (s *searchService) IndexQuestion(question *entity.Question, authorUsername string) error {
	if question.IsPrivate {
		return s.DeleteQuestion(question.ID.String())
	}

	doc := QuestionHit{
		ID:        question.ID.String(),
		Title:     question.Title,
		Details:   s.cleanContentForIndex(question.Details),
		Category:  question.Category,
		Status:    question.Status,
		Author:    authorUsername,
		CreatedAt: question.CreatedAt.Unix(),
	}

	task, err := s.client.Index("questions").AddDocuments([]QuestionHit{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed question %s, task id: %d", question.ID, task.TaskUID)
	return nil
}

func (s *searchService) DeleteQuestion(id string) error {
	_, err := s.client.Index("questions").DeleteDocument(id)
	return err
}

func (s *searchService) SearchQuestions(query, category, status string, limit int64) ([]QuestionHit, error) {
	if limit <= 0 {
		limit = 20
	}

	var filters []string
	if category != "" {
		filters = append(filters, "category = '"+category+"'")
	}
	if status != "" {
		filters = append(filters, "status = '"+status+"'")
	}

	req := &meilisearch.SearchRequest{
		Limit: limit,
	}
	if len(filters) > 0 {
		req.Filter = strings.Join(filters, " AND ")
	}

	resp, err := s.client.Index("questions").Search(query, req)
	if err != nil {
		return nil, err
	}

	hits := make([]QuestionHit, 0, len(resp.Hits))
	for _, raw := range resp.Hits {
		hit := QuestionHit{}
		_ = raw.Decode(&hit)
		hits = append(hits, hit)
	}

	return hits, nil
}

func strPtr(s string) *string {
	return &s
}

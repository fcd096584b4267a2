package trivia

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
)

// Store is the persistence capability the service needs. Implemented by
// internal/db/repository against Postgres; tests substitute a stub.
type Store interface {
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id int32) (Category, error)
	// ListQuestions returns matches ordered by id; limit <= 0 disables paging.
	ListQuestions(ctx context.Context, f QuestionFilter, limit, offset int) ([]Question, error)
	CountQuestions(ctx context.Context, f QuestionFilter) (int, error)
	InsertQuestion(ctx context.Context, q Question) (Question, error)
	DeleteQuestion(ctx context.Context, id int32) error
}

const DefaultPageSize = 10

type ServiceOptions struct {
	PageSize int
}

// Service holds the query-composition logic: pagination arithmetic, search
// filtering and category-scoped random selection with exclusion sets.
type Service struct {
	store    Store
	pageSize int
}

func NewService(store Store, opts ServiceOptions) *Service {
	size := opts.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	return &Service{store: store, pageSize: size}
}

// PageFromQuery parses the `page` query parameter. Absent, non-numeric or
// non-positive values all fall back to page 1.
func PageFromQuery(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page <= 0 {
		return 1
	}
	return page
}

// Categories returns all categories ordered by id.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	return s.store.ListCategories(ctx)
}

// ListQuestions returns one page of all questions. A zero overall total is
// ErrNotFound; a valid page past the end is an empty page, not an error.
func (s *Service) ListQuestions(ctx context.Context, page int) (QuestionPage, error) {
	result, err := s.pageOf(ctx, QuestionFilter{}, page)
	if err != nil {
		return QuestionPage{}, err
	}
	if result.Total == 0 {
		return QuestionPage{}, ErrNotFound
	}
	return result, nil
}

// SearchQuestions returns one page of questions whose text contains term,
// case-insensitively. Zero matches is a valid, empty result.
func (s *Service) SearchQuestions(ctx context.Context, term string, page int) (QuestionPage, error) {
	return s.pageOf(ctx, QuestionFilter{Search: term}, page)
}

// QuestionsByCategory returns one page of questions in the given category
// along with the category itself. A missing category is ErrNotFound.
func (s *Service) QuestionsByCategory(ctx context.Context, categoryID int32, page int) (QuestionPage, Category, error) {
	category, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		return QuestionPage{}, Category{}, err
	}
	result, err := s.pageOf(ctx, QuestionFilter{CategoryID: categoryID}, page)
	if err != nil {
		return QuestionPage{}, Category{}, err
	}
	return result, category, nil
}

// CreateQuestion inserts a question and returns it alongside a fresh page
// view. Field validation happens at the handler boundary; the insert failing
// surfaces as ErrStorageWrite from the store.
func (s *Service) CreateQuestion(ctx context.Context, req CreateQuestionRequest, page int) (Question, QuestionPage, error) {
	created, err := s.store.InsertQuestion(ctx, Question{
		Question:   req.Question,
		Answer:     req.Answer,
		Difficulty: req.Difficulty,
		Category:   req.Category,
	})
	if err != nil {
		return Question{}, QuestionPage{}, err
	}
	result, err := s.pageOf(ctx, QuestionFilter{}, page)
	if err != nil {
		return Question{}, QuestionPage{}, err
	}
	return created, result, nil
}

// DeleteQuestion removes a question by id and returns the remaining total.
func (s *Service) DeleteQuestion(ctx context.Context, id int32) (int, error) {
	if err := s.store.DeleteQuestion(ctx, id); err != nil {
		return 0, err
	}
	total, err := s.store.CountQuestions(ctx, QuestionFilter{})
	if err != nil {
		return 0, fmt.Errorf("count after delete: %w", err)
	}
	return total, nil
}

// NextQuizQuestion picks one random question not present in previous,
// scoped to categoryID when non-zero. A nil question with a nil error means
// the pool is exhausted and the quiz is over.
func (s *Service) NextQuizQuestion(ctx context.Context, previous []int32, categoryID int32) (*Question, error) {
	pool, err := s.store.ListQuestions(ctx, QuestionFilter{
		CategoryID: categoryID,
		ExcludeIDs: previous,
	}, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list quiz candidates: %w", err)
	}
	if len(pool) == 0 {
		return nil, nil
	}
	q := pool[rand.IntN(len(pool))]
	return &q, nil
}

// pageOf runs the filtered count plus a LIMIT/OFFSET page query. The total
// is always the full filtered match count, matching what the count query
// reports regardless of the requested page.
func (s *Service) pageOf(ctx context.Context, f QuestionFilter, page int) (QuestionPage, error) {
	total, err := s.store.CountQuestions(ctx, f)
	if err != nil {
		return QuestionPage{}, fmt.Errorf("count questions: %w", err)
	}
	if total == 0 {
		return QuestionPage{Questions: []Question{}}, nil
	}
	offset := (page - 1) * s.pageSize
	questions, err := s.store.ListQuestions(ctx, f, s.pageSize, offset)
	if err != nil {
		return QuestionPage{}, fmt.Errorf("list questions: %w", err)
	}
	if questions == nil {
		questions = []Question{}
	}
	return QuestionPage{Questions: questions, Total: total}, nil
}

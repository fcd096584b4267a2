package trivia

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	listCategories func(ctx context.Context) ([]Category, error)
	getCategory    func(ctx context.Context, id int32) (Category, error)
	listQuestions  func(ctx context.Context, f QuestionFilter, limit, offset int) ([]Question, error)
	countQuestions func(ctx context.Context, f QuestionFilter) (int, error)
	insertQuestion func(ctx context.Context, q Question) (Question, error)
	deleteQuestion func(ctx context.Context, id int32) error
}

func (s *stubStore) ListCategories(ctx context.Context) ([]Category, error) {
	if s.listCategories == nil {
		return nil, nil
	}
	return s.listCategories(ctx)
}

func (s *stubStore) GetCategory(ctx context.Context, id int32) (Category, error) {
	if s.getCategory == nil {
		return Category{}, ErrNotFound
	}
	return s.getCategory(ctx, id)
}

func (s *stubStore) ListQuestions(ctx context.Context, f QuestionFilter, limit, offset int) ([]Question, error) {
	if s.listQuestions == nil {
		return nil, nil
	}
	return s.listQuestions(ctx, f, limit, offset)
}

func (s *stubStore) CountQuestions(ctx context.Context, f QuestionFilter) (int, error) {
	if s.countQuestions == nil {
		return 0, nil
	}
	return s.countQuestions(ctx, f)
}

func (s *stubStore) InsertQuestion(ctx context.Context, q Question) (Question, error) {
	if s.insertQuestion == nil {
		return Question{}, errors.New("not implemented")
	}
	return s.insertQuestion(ctx, q)
}

func (s *stubStore) DeleteQuestion(ctx context.Context, id int32) error {
	if s.deleteQuestion == nil {
		return ErrNotFound
	}
	return s.deleteQuestion(ctx, id)
}

func sampleQuestions(ids ...int32) []Question {
	qs := make([]Question, 0, len(ids))
	for _, id := range ids {
		qs = append(qs, Question{ID: id, Question: "Q", Answer: "A"})
	}
	return qs
}

func TestPageFromQuery(t *testing.T) {
	cases := map[string]int{
		"":    1,
		"abc": 1,
		"0":   1,
		"-3":  1,
		"1":   1,
		"7":   7,
		"2.5": 1,
		" 2":  1,
	}
	for raw, want := range cases {
		assert.Equal(t, want, PageFromQuery(raw), "page %q", raw)
	}
}

func TestListQuestionsComputesOffset(t *testing.T) {
	var gotLimit, gotOffset int
	store := &stubStore{
		countQuestions: func(ctx context.Context, f QuestionFilter) (int, error) {
			return 25, nil
		},
		listQuestions: func(ctx context.Context, f QuestionFilter, limit, offset int) ([]Question, error) {
			gotLimit, gotOffset = limit, offset
			return sampleQuestions(21, 22, 23, 24, 25), nil
		},
	}
	svc := NewService(store, ServiceOptions{PageSize: 10})

	result, err := svc.ListQuestions(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, 10, gotLimit)
	assert.Equal(t, 20, gotOffset)
	assert.Equal(t, 25, result.Total)
	assert.Len(t, result.Questions, 5)
}

func TestListQuestionsEmptyStoreIsNotFound(t *testing.T) {
	store := &stubStore{
		countQuestions: func(ctx context.Context, f QuestionFilter) (int, error) {
			return 0, nil
		},
	}
	svc := NewService(store, ServiceOptions{})

	_, err := svc.ListQuestions(context.Background(), 1)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListQuestionsPastLastPageIsEmptyNotError(t *testing.T) {
	store := &stubStore{
		countQuestions: func(ctx context.Context, f QuestionFilter) (int, error) {
			return 12, nil
		},
		listQuestions: func(ctx context.Context, f QuestionFilter, limit, offset int) ([]Question, error) {
			return nil, nil
		},
	}
	svc := NewService(store, ServiceOptions{PageSize: 10})

	result, err := svc.ListQuestions(context.Background(), 9)

	require.NoError(t, err)
	assert.Equal(t, 12, result.Total)
	assert.Empty(t, result.Questions)
	assert.NotNil(t, result.Questions)
}

func TestSearchQuestionsPassesTerm(t *testing.T) {
	var countFilter, listFilter QuestionFilter
	store := &stubStore{
		countQuestions: func(ctx context.Context, f QuestionFilter) (int, error) {
			countFilter = f
			return 1, nil
		},
		listQuestions: func(ctx context.Context, f QuestionFilter, limit, offset int) ([]Question, error) {
			listFilter = f
			return sampleQuestions(4), nil
		},
	}
	svc := NewService(store, ServiceOptions{})

	result, err := svc.SearchQuestions(context.Background(), "piaget", 1)

	require.NoError(t, err)
	assert.Equal(t, "piaget", countFilter.Search)
	assert.Equal(t, "piaget", listFilter.Search)
	assert.Equal(t, 1, result.Total)
	assert.Len(t, result.Questions, 1)
}

func TestSearchQuestionsZeroMatchesIsEmptySuccess(t *testing.T) {
	store := &stubStore{
		countQuestions: func(ctx context.Context, f QuestionFilter) (int, error) {
			return 0, nil
		},
	}
	svc := NewService(store, ServiceOptions{})

	result, err := svc.SearchQuestions(context.Background(), "nomatch", 1)

	require.NoError(t, err)
	assert.Zero(t, result.Total)
	assert.Empty(t, result.Questions)
}

func TestQuestionsByCategoryScopesFilter(t *testing.T) {
	var listFilter QuestionFilter
	store := &stubStore{
		getCategory: func(ctx context.Context, id int32) (Category, error) {
			return Category{ID: id, Type: "Science"}, nil
		},
		countQuestions: func(ctx context.Context, f QuestionFilter) (int, error) {
			return 2, nil
		},
		listQuestions: func(ctx context.Context, f QuestionFilter, limit, offset int) ([]Question, error) {
			listFilter = f
			return sampleQuestions(1, 2), nil
		},
	}
	svc := NewService(store, ServiceOptions{})

	result, category, err := svc.QuestionsByCategory(context.Background(), 3, 1)

	require.NoError(t, err)
	assert.Equal(t, int32(3), listFilter.CategoryID)
	assert.Equal(t, "Science", category.Type)
	assert.Equal(t, 2, result.Total)
}

func TestQuestionsByCategoryMissingCategory(t *testing.T) {
	svc := NewService(&stubStore{}, ServiceOptions{})

	_, _, err := svc.QuestionsByCategory(context.Background(), 99, 1)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateQuestionReturnsCreatedAndFreshPage(t *testing.T) {
	store := &stubStore{
		insertQuestion: func(ctx context.Context, q Question) (Question, error) {
			q.ID = 42
			return q, nil
		},
		countQuestions: func(ctx context.Context, f QuestionFilter) (int, error) {
			return 11, nil
		},
		listQuestions: func(ctx context.Context, f QuestionFilter, limit, offset int) ([]Question, error) {
			return sampleQuestions(1, 2, 3), nil
		},
	}
	svc := NewService(store, ServiceOptions{})

	created, result, err := svc.CreateQuestion(context.Background(), CreateQuestionRequest{
		Question: "What?",
		Answer:   "That.",
	}, 1)

	require.NoError(t, err)
	assert.Equal(t, int32(42), created.ID)
	assert.Equal(t, 11, result.Total)
}

func TestCreateQuestionStorageFailure(t *testing.T) {
	store := &stubStore{
		insertQuestion: func(ctx context.Context, q Question) (Question, error) {
			return Question{}, ErrStorageWrite
		},
	}
	svc := NewService(store, ServiceOptions{})

	_, _, err := svc.CreateQuestion(context.Background(), CreateQuestionRequest{Question: "Q", Answer: "A"}, 1)

	assert.ErrorIs(t, err, ErrStorageWrite)
}

func TestDeleteQuestionReturnsNewTotal(t *testing.T) {
	var deletedID int32
	store := &stubStore{
		deleteQuestion: func(ctx context.Context, id int32) error {
			deletedID = id
			return nil
		},
		countQuestions: func(ctx context.Context, f QuestionFilter) (int, error) {
			return 7, nil
		},
	}
	svc := NewService(store, ServiceOptions{})

	total, err := svc.DeleteQuestion(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, int32(5), deletedID)
	assert.Equal(t, 7, total)
}

func TestDeleteQuestionMissing(t *testing.T) {
	svc := NewService(&stubStore{}, ServiceOptions{})

	_, err := svc.DeleteQuestion(context.Background(), 5)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNextQuizQuestionExcludesPrevious(t *testing.T) {
	previous := []int32{1, 3}
	var gotFilter QuestionFilter
	var gotLimit int
	store := &stubStore{
		listQuestions: func(ctx context.Context, f QuestionFilter, limit, offset int) ([]Question, error) {
			gotFilter = f
			gotLimit = limit
			return sampleQuestions(2, 4), nil
		},
	}
	svc := NewService(store, ServiceOptions{})

	question, err := svc.NextQuizQuestion(context.Background(), previous, 0)

	require.NoError(t, err)
	require.NotNil(t, question)
	assert.Equal(t, previous, gotFilter.ExcludeIDs)
	assert.LessOrEqual(t, gotLimit, 0, "quiz pool must not be paginated")
	assert.Contains(t, []int32{2, 4}, question.ID)
	assert.NotContains(t, previous, question.ID)
}

func TestNextQuizQuestionCategoryScope(t *testing.T) {
	var gotFilter QuestionFilter
	store := &stubStore{
		listQuestions: func(ctx context.Context, f QuestionFilter, limit, offset int) ([]Question, error) {
			gotFilter = f
			return sampleQuestions(8), nil
		},
	}
	svc := NewService(store, ServiceOptions{})

	question, err := svc.NextQuizQuestion(context.Background(), nil, 2)

	require.NoError(t, err)
	require.NotNil(t, question)
	assert.Equal(t, int32(2), gotFilter.CategoryID)
}

func TestNextQuizQuestionExhaustedPool(t *testing.T) {
	store := &stubStore{
		listQuestions: func(ctx context.Context, f QuestionFilter, limit, offset int) ([]Question, error) {
			return nil, nil
		},
	}
	svc := NewService(store, ServiceOptions{})

	question, err := svc.NextQuizQuestion(context.Background(), []int32{1, 2, 3}, 0)

	require.NoError(t, err)
	assert.Nil(t, question)
}

func TestNextQuizQuestionStorageFailure(t *testing.T) {
	store := &stubStore{
		listQuestions: func(ctx context.Context, f QuestionFilter, limit, offset int) ([]Question, error) {
			return nil, errors.New("db down")
		},
	}
	svc := NewService(store, ServiceOptions{})

	_, err := svc.NextQuizQuestion(context.Background(), nil, 0)

	assert.Error(t, err)
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/triviahub/trivia-api/internal/trivia"
)

// Repository is the pgx-backed store for questions and categories. It is the
// only component that owns SQL; concurrency control is left to Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListCategories returns all categories ordered by id. An empty slice is a
// valid result, not an error.
func (r *Repository) ListCategories(ctx context.Context) ([]trivia.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, type FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []trivia.Category
	for rows.Next() {
		var c trivia.Category
		if err := rows.Scan(&c.ID, &c.Type); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

// GetCategory returns the category with the given id, or trivia.ErrNotFound.
func (r *Repository) GetCategory(ctx context.Context, id int32) (trivia.Category, error) {
	var c trivia.Category
	err := r.pool.QueryRow(ctx, `SELECT id, type FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Type)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return trivia.Category{}, trivia.ErrNotFound
		}
		return trivia.Category{}, fmt.Errorf("query category %d: %w", id, err)
	}
	return c, nil
}

// ListQuestions returns questions matching the filter ordered by id. A
// non-positive limit disables paging and returns the full filtered set.
func (r *Repository) ListQuestions(ctx context.Context, f trivia.QuestionFilter, limit, offset int) ([]trivia.Question, error) {
	where, args := questionPredicates(f)
	query := `SELECT id, question, answer, difficulty, category FROM questions` + where + ` ORDER BY id`
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var questions []trivia.Question
	for rows.Next() {
		var q trivia.Question
		if err := rows.Scan(&q.ID, &q.Question, &q.Answer, &q.Difficulty, &q.Category); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return questions, nil
}

// CountQuestions returns the number of rows matching the filter.
func (r *Repository) CountQuestions(ctx context.Context, f trivia.QuestionFilter) (int, error) {
	where, args := questionPredicates(f)
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM questions`+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return count, nil
}

// InsertQuestion stores a new question and returns it with the assigned id.
func (r *Repository) InsertQuestion(ctx context.Context, q trivia.Question) (trivia.Question, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO questions (question, answer, difficulty, category) VALUES ($1, $2, $3, $4) RETURNING id`,
		q.Question, q.Answer, q.Difficulty, q.Category,
	).Scan(&q.ID)
	if err != nil {
		return trivia.Question{}, fmt.Errorf("%w: insert question: %v", trivia.ErrStorageWrite, err)
	}
	return q, nil
}

// DeleteQuestion removes the question with the given id. Returns
// trivia.ErrNotFound when no row matches.
func (r *Repository) DeleteQuestion(ctx context.Context, id int32) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: delete question %d: %v", trivia.ErrStorageWrite, id, err)
	}
	if tag.RowsAffected() == 0 {
		return trivia.ErrNotFound
	}
	return nil
}

// questionPredicates builds the WHERE clause for a filter. Predicates are
// ANDed; an empty filter yields no clause.
func questionPredicates(f trivia.QuestionFilter) (string, []any) {
	var conds []string
	var args []any
	if f.CategoryID != 0 {
		args = append(args, f.CategoryID)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		conds = append(conds, fmt.Sprintf("question ILIKE $%d", len(args)))
	}
	if len(f.ExcludeIDs) > 0 {
		args = append(args, f.ExcludeIDs)
		conds = append(conds, fmt.Sprintf("NOT (id = ANY($%d))", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

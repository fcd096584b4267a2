package trivia

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/triviahub/trivia-api/pkg/httpapi"
)

// HTTPHandlers provides the REST endpoints for categories, questions and the
// quiz flow. One method per endpoint: decode, validate, call the service,
// shape the envelope.
type HTTPHandlers struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHTTPHandlers(svc *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		svc:    svc,
		logger: logger.With().Str("component", "trivia_http").Logger(),
	}
}

// ListCategories handles GET /categories.
func (h *HTTPHandlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.Categories(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if len(categories) == 0 {
		h.respondError(w, r, ErrNotFound)
		return
	}

	httpapi.JSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"categories": categoryMap(categories),
	})
}

// ListQuestions handles GET /questions?page=N.
func (h *HTTPHandlers) ListQuestions(w http.ResponseWriter, r *http.Request) {
	page := PageFromQuery(r.URL.Query().Get("page"))

	result, err := h.svc.ListQuestions(r.Context(), page)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	categories, err := h.svc.Categories(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	httpapi.JSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"questions":       result.Questions,
		"total_questions": result.Total,
		"categories":      categoryMap(categories),
	})
}

// CreateQuestion handles POST /questions.
func (h *HTTPHandlers) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req CreateQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.Question == "" || req.Answer == "" {
		h.respondError(w, r, &ValidationError{Msg: "the question and answer fields cannot be empty"})
		return
	}

	page := PageFromQuery(r.URL.Query().Get("page"))
	created, result, err := h.svc.CreateQuestion(r.Context(), req, page)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	httpapi.JSON(w, http.StatusOK, map[string]any{
		"success":          true,
		"created":          created.ID,
		"question_created": created.Question,
		"questions":        result.Questions,
		"total_questions":  result.Total,
	})
}

// SearchQuestions handles POST /questions/search.
func (h *HTTPHandlers) SearchQuestions(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.SearchTerm == "" {
		h.respondError(w, r, &ValidationError{Msg: "search term cannot be empty"})
		return
	}

	page := PageFromQuery(r.URL.Query().Get("page"))
	result, err := h.svc.SearchQuestions(r.Context(), req.SearchTerm, page)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	httpapi.JSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"questions":       result.Questions,
		"total_questions": result.Total,
	})
}

// DeleteQuestion handles DELETE /questions/{id}.
func (h *HTTPHandlers) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 32)
	if err != nil {
		h.respondError(w, r, ErrNotFound)
		return
	}

	total, err := h.svc.DeleteQuestion(r.Context(), int32(id))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	httpapi.JSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"deleted":         int32(id),
		"total_questions": total,
	})
}

// QuestionsByCategory handles GET /categories/{id}/questions.
func (h *HTTPHandlers) QuestionsByCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 32)
	if err != nil {
		h.respondError(w, r, ErrNotFound)
		return
	}

	page := PageFromQuery(r.URL.Query().Get("page"))
	result, category, err := h.svc.QuestionsByCategory(r.Context(), int32(id), page)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	httpapi.JSON(w, http.StatusOK, map[string]any{
		"success":          true,
		"questions":        result.Questions,
		"total_questions":  result.Total,
		"current_category": category.Type,
	})
}

// Play handles POST /play. The request body is optional: an absent body or
// absent fields mean no exclusions and no category scope. A null question in
// the response tells the client the quiz is over.
func (h *HTTPHandlers) Play(w http.ResponseWriter, r *http.Request) {
	var req PlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		httpapi.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	var categoryID int32
	if req.QuizCategory != nil {
		categoryID = req.QuizCategory.ID
	}

	question, err := h.svc.NextQuizQuestion(r.Context(), req.PreviousQuestions, categoryID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	httpapi.JSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"question": question,
	})
}

// respondError maps the failure taxonomy onto the HTTP envelope. Raw storage
// errors never reach the client; anything uncategorized is logged and
// reported as a 500.
func (h *HTTPHandlers) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		httpapi.Error(w, http.StatusBadRequest, verr.Msg)
	case errors.Is(err, ErrNotFound):
		httpapi.Error(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, ErrStorageWrite):
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("storage write failed")
		httpapi.Error(w, http.StatusUnprocessableEntity, "unprocessable")
	default:
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		httpapi.Error(w, http.StatusInternalServerError, "internal server error")
	}
}

func categoryMap(categories []Category) map[int32]string {
	m := make(map[int32]string, len(categories))
	for _, c := range categories {
		m[c.ID] = c.Type
	}
	return m
}

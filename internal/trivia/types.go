package trivia

// Category is a labeled grouping for questions. Categories are read-only
// through the API; they are created by the seed migration.
type Category struct {
	ID   int32  `json:"id"`
	Type string `json:"type"`
}

// Question is a single quiz item. Difficulty and Category are nullable in
// the store and the API performs no referential check on Category.
type Question struct {
	ID         int32  `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Difficulty *int32 `json:"difficulty"`
	Category   *int32 `json:"category"`
}

// QuestionFilter narrows question queries. The zero value matches all rows.
// Endpoints compose at most two of the fields (category + exclusion for the
// quiz selector); the store applies whichever are set.
type QuestionFilter struct {
	CategoryID int32   // 0 matches any category
	Search     string  // case-insensitive substring match on question text
	ExcludeIDs []int32 // ids to skip, treated as a set
}

// QuestionPage is one page of results plus the full filtered match count.
type QuestionPage struct {
	Questions []Question
	Total     int
}

// CreateQuestionRequest is the POST /questions body.
type CreateQuestionRequest struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Difficulty *int32 `json:"difficulty"`
	Category   *int32 `json:"category"`
}

// SearchRequest is the POST /questions/search body.
type SearchRequest struct {
	SearchTerm string `json:"searchTerm"`
}

// QuizCategory carries the category scope for a quiz round. ID 0 means all
// categories.
type QuizCategory struct {
	ID int32 `json:"id"`
}

// PlayRequest is the POST /play body. Both fields are optional; absent
// previous_questions means an empty exclusion set and an absent quiz_category
// means all categories.
type PlayRequest struct {
	PreviousQuestions []int32       `json:"previous_questions"`
	QuizCategory      *QuizCategory `json:"quiz_category"`
}

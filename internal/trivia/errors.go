package trivia

import "errors"

// Sentinel errors for the failure taxonomy. Handlers translate these into
// the HTTP envelope: ErrNotFound -> 404, ErrStorageWrite -> 422, a
// ValidationError -> 400, anything else -> 500.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrStorageWrite = errors.New("storage write failed")
)

// ValidationError reports a missing or empty required request field. The
// message is returned verbatim to the client.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

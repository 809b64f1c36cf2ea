package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrQuizNotFound indicates no quiz exists under the requested id.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuizIDExhausted is returned when every generated id collided with an existing quiz.
	ErrQuizIDExhausted = errors.New("could not allocate a unique quiz id")
	// ErrInvalidQuestionType indicates a question type outside mcq, truefalse, text.
	ErrInvalidQuestionType = errors.New("invalid question type")
)

// ValidationError reports malformed input rejected at the domain boundary.
// Fields maps a JSON path (e.g. "questions[0].answer") to a message.
type ValidationError struct {
	Message string
	Fields  map[string]string
	Err     error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

func (e *ValidationError) Unwrap() error { return e.Err }

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

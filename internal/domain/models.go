package domain

import "fmt"

// QuestionType is the closed set of question variants a quiz may contain.
type QuestionType string

const (
	QuestionTypeMCQ       QuestionType = "mcq"
	QuestionTypeTrueFalse QuestionType = "truefalse"
	QuestionTypeText      QuestionType = "text"
)

// ParseQuestionType maps a raw string onto one of the known variants.
func ParseQuestionType(raw string) (QuestionType, error) {
	t := QuestionType(raw)
	if !t.Valid() {
		return "", &ValidationError{
			Message: fmt.Sprintf("unsupported question type %q", raw),
			Fields:  map[string]string{"type": "must be one of mcq, truefalse, text"},
			Err:     ErrInvalidQuestionType,
		}
	}
	return t, nil
}

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeMCQ, QuestionTypeTrueFalse, QuestionTypeText:
		return true
	}
	return false
}

// HasOptions reports whether the variant is answered by picking one of the question's options.
// Grading ignores it; clients use it to decide how to render the question.
func (t QuestionType) HasOptions() bool {
	switch t {
	case QuestionTypeMCQ, QuestionTypeTrueFalse:
		return true
	case QuestionTypeText:
		return false
	}
	return false
}

func (t QuestionType) String() string { return string(t) }

// UnmarshalText rejects values outside the variant set while decoding JSON or YAML.
func (t *QuestionType) UnmarshalText(text []byte) error {
	parsed, err := ParseQuestionType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Question is a single prompt with its canonical answer.
type Question struct {
	Text    string       `json:"text"`
	Type    QuestionType `json:"type"`
	Options []string     `json:"options,omitempty"` // absent for free-text questions
	Answer  string       `json:"answer"`
}

// Quiz is a named, ordered collection of questions. Question order defines grading positions.
type Quiz struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Clone returns a deep copy so stores never share slices with callers.
func (q Quiz) Clone() Quiz {
	out := Quiz{ID: q.ID, Title: q.Title, Questions: make([]Question, len(q.Questions))}
	for i, question := range q.Questions {
		out.Questions[i] = question
		if question.Options != nil {
			out.Questions[i].Options = append([]string(nil), question.Options...)
		}
	}
	return out
}

// CreateQuizPayload is a quiz without an identifier, as sent by clients.
type CreateQuizPayload struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Submission is an ordered list of answers aligned by position with a quiz's questions.
type Submission struct {
	Answers []string `json:"answers"`
}

// ScoreResult is the outcome of grading a submission. It is never persisted.
type ScoreResult struct {
	Score      int     `json:"score"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// GradedAnswer records how one question was graded.
type GradedAnswer struct {
	Index    int    `json:"index"`
	Given    string `json:"given"`
	Expected string `json:"expected"`
	Correct  bool   `json:"correct"`
}

// Review is a ScoreResult with a per-question breakdown.
type Review struct {
	ScoreResult
	Answers []GradedAnswer `json:"answers"`
}

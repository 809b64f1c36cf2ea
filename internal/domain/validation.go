package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Wire shapes use pointers so a missing field can be told apart from an empty string.
type createQuizRequest struct {
	Title     *string           `json:"title" validate:"required"`
	Questions []questionRequest `json:"questions" validate:"required,dive"`
}

type questionRequest struct {
	Text    *string  `json:"text" validate:"required"`
	Type    *string  `json:"type" validate:"required,questiontype"`
	Options []string `json:"options"`
	Answer  *string  `json:"answer" validate:"required"`
}

type submissionRequest struct {
	Answers []*string `json:"answers" validate:"required,dive,required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("questiontype", func(fl validator.FieldLevel) bool {
		return QuestionType(fl.Field().String()).Valid()
	})
	return v
}

// DecodeCreateQuizPayload parses and validates a quiz creation request body.
func DecodeCreateQuizPayload(r io.Reader) (CreateQuizPayload, error) {
	var req createQuizRequest
	if err := decodeStrict(r, &req); err != nil {
		return CreateQuizPayload{}, err
	}
	if err := validate.Struct(req); err != nil {
		return CreateQuizPayload{}, fieldErrors(err)
	}

	payload := CreateQuizPayload{
		Title:     *req.Title,
		Questions: make([]Question, len(req.Questions)),
	}
	for i, q := range req.Questions {
		payload.Questions[i] = Question{
			Text:    *q.Text,
			Type:    QuestionType(*q.Type),
			Options: q.Options,
			Answer:  *q.Answer,
		}
	}
	return payload, nil
}

// DecodeSubmission parses and validates a submission body.
func DecodeSubmission(r io.Reader) (Submission, error) {
	var req submissionRequest
	if err := decodeStrict(r, &req); err != nil {
		return Submission{}, err
	}
	if err := validate.Struct(req); err != nil {
		return Submission{}, fieldErrors(err)
	}

	answers := make([]string, len(req.Answers))
	for i, a := range req.Answers {
		answers[i] = *a
	}
	return Submission{Answers: answers}, nil
}

func decodeStrict(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	if err == nil {
		if extra := dec.Decode(&struct{}{}); extra != io.EOF {
			return &ValidationError{Message: "unexpected data after JSON body", Err: extra}
		}
		return nil
	}

	var (
		verr      *ValidationError
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)
	switch {
	case errors.As(err, &verr):
		return verr
	case errors.As(err, &typeErr):
		return &ValidationError{
			Message: "invalid field type",
			Fields:  map[string]string{typeErr.Field: "must be " + typeErr.Type.String()},
			Err:     err,
		}
	case errors.As(err, &syntaxErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return &ValidationError{Message: "invalid JSON body", Err: err}
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return &ValidationError{
			Message: "unknown field",
			Fields:  map[string]string{field: "is not allowed"},
			Err:     err,
		}
	}
	return &ValidationError{Message: "invalid request body", Err: err}
}

func fieldErrors(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	wrapped := err
	for _, fe := range verrs {
		path := fe.Namespace()
		// drop the wire struct name
		if i := strings.Index(path, "."); i >= 0 {
			path = path[i+1:]
		}
		switch fe.Tag() {
		case "required":
			fields[path] = "is required"
		case "questiontype":
			fields[path] = "must be one of mcq, truefalse, text"
			wrapped = errors.Join(ErrInvalidQuestionType, err)
		default:
			fields[path] = fmt.Sprintf("failed %q check", fe.Tag())
		}
	}
	return &ValidationError{Message: "validation failed", Fields: fields, Err: wrapped}
}

package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"quiz-hosting-service/internal/domain"

	"github.com/go-resty/resty/v2"
)

// APIError is a non-2xx response from the quiz API.
type APIError struct {
	Status int
	Detail string
	Fields map[string]string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("quiz api: status %d", e.Status)
	}
	return fmt.Sprintf("quiz api: status %d: %s", e.Status, e.Detail)
}

// Is makes a 404 match domain.ErrQuizNotFound.
func (e *APIError) Is(target error) bool {
	return target == domain.ErrQuizNotFound && e.Status == http.StatusNotFound
}

type errorBody struct {
	Detail string            `json:"detail"`
	Errors map[string]string `json:"errors"`
}

// Client talks to a running quiz API.
type Client struct {
	http *resty.Client
}

func New(baseURL string) *Client {
	return &Client{http: resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetHeader("Accept", "application/json")}
}

func (c *Client) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	var quizzes []domain.Quiz
	if err := c.do(ctx, http.MethodGet, "/quizzes", nil, &quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (c *Client) GetQuiz(ctx context.Context, id string) (domain.Quiz, error) {
	var quiz domain.Quiz
	if err := c.do(ctx, http.MethodGet, "/quizzes/"+url.PathEscape(id), nil, &quiz); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

func (c *Client) CreateQuiz(ctx context.Context, payload domain.CreateQuizPayload) (domain.Quiz, error) {
	if payload.Questions == nil {
		payload.Questions = []domain.Question{}
	}
	var quiz domain.Quiz
	if err := c.do(ctx, http.MethodPost, "/quizzes", payload, &quiz); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

func (c *Client) Submit(ctx context.Context, id string, submission domain.Submission) (domain.ScoreResult, error) {
	var result domain.ScoreResult
	if err := c.do(ctx, http.MethodPost, submitPath(id), withAnswers(submission), &result); err != nil {
		return domain.ScoreResult{}, err
	}
	return result, nil
}

func (c *Client) SubmitReview(ctx context.Context, id string, submission domain.Submission) (domain.Review, error) {
	var review domain.Review
	if err := c.do(ctx, http.MethodPost, submitPath(id)+"?review=true", withAnswers(submission), &review); err != nil {
		return domain.Review{}, err
	}
	return review, nil
}

func submitPath(id string) string {
	return "/quizzes/" + url.PathEscape(id) + "/submit"
}

// withAnswers sends an empty list rather than null.
func withAnswers(submission domain.Submission) domain.Submission {
	if submission.Answers == nil {
		submission.Answers = []string{}
	}
	return submission
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var apiErr errorBody
	req := c.http.R().
		SetContext(ctx).
		SetResult(out).
		SetError(&apiErr)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		return &APIError{Status: resp.StatusCode(), Detail: apiErr.Detail, Fields: apiErr.Errors}
	}
	if !resp.IsSuccess() {
		return errors.New("quiz api: unexpected status " + resp.Status())
	}
	return nil
}

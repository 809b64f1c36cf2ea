package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quiz-hosting-service/internal/app"
	"quiz-hosting-service/internal/domain"
	"quiz-hosting-service/internal/infra/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootAndHealth(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := serve(router, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Quiz API is running"}`, rec.Body.String())

	rec = serve(router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestHealthReportsStoreFailure(t *testing.T) {
	router := newTestRouter(t, pingFunc(func(context.Context) error { return errors.New("connection refused") }))

	rec := serve(router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetQuiz(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := serve(router, http.MethodGet, "/quizzes/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var quiz domain.Quiz
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quiz))
	assert.Equal(t, "General Knowledge Quiz", quiz.Title)
	assert.Len(t, quiz.Questions, 3)

	rec = serve(router, http.MethodGet, "/quizzes/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Quiz not found"}`, rec.Body.String())
}

func TestCreateQuizThenList(t *testing.T) {
	router := newTestRouter(t, nil)

	body := `{"title":"Colors","questions":[{"text":"Sky?","type":"text","answer":"blue"}]}`
	rec := serve(router, http.MethodPost, "/quizzes", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created domain.Quiz
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Len(t, created.ID, 8)
	assert.Equal(t, "Colors", created.Title)

	rec = serve(router, http.MethodGet, "/quizzes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []domain.Quiz
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, app.SampleQuizID, list[0].ID)
	assert.Equal(t, created.ID, list[1].ID)
}

func TestCreateQuizRejectsInvalidPayloads(t *testing.T) {
	router := newTestRouter(t, nil)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "missing title", body: `{"questions":[]}`, field: "title"},
		{name: "missing answer", body: `{"title":"x","questions":[{"text":"q","type":"text"}]}`, field: "questions[0].answer"},
		{name: "bad type", body: `{"title":"x","questions":[{"text":"q","type":"essay","answer":"a"}]}`, field: "questions[0].type"},
		{name: "trailing data", body: `{"title":"x","questions":[]}{"title":"y"}`},
		{name: "unknown field", body: `{"title":"x","questions":[],"owner":"me"}`, field: "owner"},
		{name: "malformed", body: `{"title":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, http.MethodPost, "/quizzes", tt.body)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

			var resp detailResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Detail)
			if tt.field != "" {
				assert.Contains(t, resp.Errors, tt.field)
			}
		})
	}
}

func TestCreateQuizRejectsOversizedBody(t *testing.T) {
	router := newTestRouter(t, nil)

	body := `{"title":"` + strings.Repeat("a", maxBodyBytes+1) + `","questions":[]}`
	rec := serve(router, http.MethodPost, "/quizzes", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestSubmitQuiz(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := serve(router, http.MethodPost, "/quizzes/1/submit", `{"answers":["paris"," FALSE ","4"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"score":3,"total":3,"percentage":100}`, rec.Body.String())

	rec = serve(router, http.MethodPost, "/quizzes/1/submit", `{"answers":["Paris"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"score":1,"total":3,"percentage":33.33}`, rec.Body.String())
}

func TestSubmitQuizReview(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := serve(router, http.MethodPost, "/quizzes/1/submit?review=true", `{"answers":["Paris","True"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var review domain.Review
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &review))
	assert.Equal(t, 1, review.Score)
	require.Len(t, review.Answers, 3)
	assert.True(t, review.Answers[0].Correct)
	assert.False(t, review.Answers[1].Correct)
	assert.Equal(t, "", review.Answers[2].Given)
	assert.Equal(t, "4", review.Answers[2].Expected)
}

func TestSubmitQuizErrors(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := serve(router, http.MethodPost, "/quizzes/nope/submit", `{"answers":[]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(router, http.MethodPost, "/quizzes/1/submit", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = serve(router, http.MethodGet, "/quizzes/1/submit", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStoreFailureIsInternalError(t *testing.T) {
	service := app.NewQuizService(brokenStore{}, discardLogger())
	router := NewRouter(service, RouterOptions{Logger: discardLogger()})

	rec := serve(router, http.MethodGet, "/quizzes", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail":"internal error"}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/quizzes", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/quizzes", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func newTestRouter(t *testing.T, pinger Pinger) http.Handler {
	t.Helper()
	service := app.NewQuizService(memory.NewQuizStore(), discardLogger())
	require.NoError(t, service.Seed(context.Background()))
	return NewRouter(service, RouterOptions{
		CORSOrigins: []string{"http://localhost:3000"},
		Pinger:      pinger,
		Logger:      discardLogger(),
	})
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type brokenStore struct{}

func (brokenStore) Find(context.Context, string) (domain.Quiz, error) {
	return domain.Quiz{}, errors.New("disk on fire")
}

func (brokenStore) List(context.Context) ([]domain.Quiz, error) {
	return nil, errors.New("disk on fire")
}

func (brokenStore) Upsert(context.Context, string, domain.Quiz) error {
	return errors.New("disk on fire")
}

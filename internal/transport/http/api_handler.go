package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"quiz-hosting-service/internal/app"
	"quiz-hosting-service/internal/domain"
)

const maxBodyBytes = 1 << 20

// Pinger is implemented by stores that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// APIHandler serves the REST quiz endpoints.
type APIHandler struct {
	service *app.QuizService
	pinger  Pinger
	logger  *slog.Logger
}

func NewAPIHandler(service *app.QuizService, pinger Pinger, logger *slog.Logger) *APIHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &APIHandler{service: service, pinger: pinger, logger: logger}
}

type detailResponse struct {
	Detail string            `json:"detail"`
	Errors map[string]string `json:"errors,omitempty"`
}

func (h *APIHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Quiz API is running"})
}

func (h *APIHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		if err := h.pinger.Ping(r.Context()); err != nil {
			h.logger.Warn("store ping failed", "err", err)
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	_, _ = w.Write([]byte("ok"))
}

func (h *APIHandler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quizzes)
}

func (h *APIHandler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.service.Lookup(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *APIHandler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	payload, err := domain.DecodeCreateQuizPayload(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	quiz, err := h.service.Create(r.Context(), payload)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, quiz)
}

// SubmitQuiz grades a submission. ?review=true returns the per-question breakdown.
func (h *APIHandler) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	submission, err := domain.DecodeSubmission(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	review, _ := strconv.ParseBool(r.URL.Query().Get("review"))
	if review {
		result, err := h.service.SubmitReview(r.Context(), id, submission)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
		return
	}

	result, err := h.service.Submit(r.Context(), id, submission)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *APIHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr    *domain.ValidationError
		sizeErr *http.MaxBytesError
	)
	switch {
	case errors.Is(err, domain.ErrQuizNotFound):
		writeJSON(w, http.StatusNotFound, detailResponse{Detail: "Quiz not found"})
	case errors.As(err, &sizeErr):
		writeJSON(w, http.StatusRequestEntityTooLarge, detailResponse{Detail: "request body too large"})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, detailResponse{Detail: verr.Message, Errors: verr.Fields})
	default:
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		writeJSON(w, http.StatusInternalServerError, detailResponse{Detail: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"quiz-hosting-service/internal/app"
	"quiz-hosting-service/internal/domain"

	"github.com/gorilla/websocket"
)

// WSHandler lets a client take a quiz over a websocket: the server sends the
// quiz, the client sends submissions, the server answers each with a review.
type WSHandler struct {
	service  *app.QuizService
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, allowedOrigins []string, logger *slog.Logger) *WSHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WSHandler{
		service: service,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return slices.Contains(allowed, "*") || slices.Contains(allowed, origin)
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// ServeWS upgrades the request and runs the quiz-taking loop until the client disconnects.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	if quizID == "" {
		http.Error(w, "missing quizId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxBodyBytes)

	// submissions are graded against the quiz as it was when the client connected
	quiz, err := h.service.Lookup(r.Context(), quizID)
	if err != nil {
		message := "internal error"
		if errors.Is(err, domain.ErrQuizNotFound) {
			message = "Quiz not found"
		} else {
			h.logger.Error("ws quiz lookup failed", "quiz_id", quizID, "err", err)
		}
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: message}})
		return
	}
	if err := conn.WriteJSON(outboundMessage[domain.Quiz]{Type: "quiz", Payload: quiz}); err != nil {
		h.logger.Warn("ws write error", "err", err)
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("ws read ended", "quiz_id", quizID, "err", err)
			}
			return
		}

		var reply any
		switch inbound.Type {
		case "submit":
			submission, err := domain.DecodeSubmission(bytes.NewReader(inbound.Payload))
			if err != nil {
				reply = outboundMessage[errorPayload]{Type: "error", Payload: validationPayload(err)}
				break
			}
			review := app.GradeReview(quiz, submission)
			h.logger.Debug("ws submission graded", "quiz_id", quizID, "score", review.Score, "total", review.Total)
			reply = outboundMessage[domain.Review]{Type: "review", Payload: review}
		default:
			reply = outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}

		if err := conn.WriteJSON(reply); err != nil {
			h.logger.Warn("ws write error", "err", err)
			return
		}
	}
}

func validationPayload(err error) errorPayload {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return errorPayload{Message: verr.Message, Errors: verr.Fields}
	}
	return errorPayload{Message: "invalid submit payload"}
}

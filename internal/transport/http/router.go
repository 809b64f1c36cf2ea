package http

import (
	"bufio"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"quiz-hosting-service/internal/app"

	"github.com/rs/cors"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	CORSOrigins []string
	Pinger      Pinger
	Logger      *slog.Logger
}

// NewRouter wires the REST and websocket endpoints behind CORS and request logging.
func NewRouter(service *app.QuizService, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	api := NewAPIHandler(service, opts.Pinger, logger)
	ws := NewWSHandler(service, opts.CORSOrigins, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", api.Root)
	mux.HandleFunc("GET /healthz", api.Health)
	mux.HandleFunc("GET /quizzes", api.ListQuizzes)
	mux.HandleFunc("POST /quizzes", api.CreateQuiz)
	mux.HandleFunc("GET /quizzes/{id}", api.GetQuiz)
	mux.HandleFunc("POST /quizzes/{id}/submit", api.SubmitQuiz)
	mux.HandleFunc("GET /ws", ws.ServeWS)

	c := cors.New(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return logRequests(logger, c.Handler(mux))
}

func logRequests(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Hijack lets the websocket upgrader take over the connection.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

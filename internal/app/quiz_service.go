package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"quiz-hosting-service/internal/domain"

	"github.com/google/uuid"
)

// QuizStore abstracts where quizzes live (in-memory, Postgres, Redis, SQLite).
type QuizStore interface {
	// Find returns domain.ErrQuizNotFound when no quiz has the id.
	Find(ctx context.Context, id string) (domain.Quiz, error)
	// List returns every quiz in insertion order.
	List(ctx context.Context) ([]domain.Quiz, error)
	// Upsert stores quiz under id, replacing any previous version.
	Upsert(ctx context.Context, id string, quiz domain.Quiz) error
}

const maxIDAttempts = 5

// QuizService contains the quiz use cases.
type QuizService struct {
	store  QuizStore
	logger *slog.Logger
	newID  func() string
}

func NewQuizService(store QuizStore, logger *slog.Logger) *QuizService {
	return NewQuizServiceWithIDs(store, logger, newQuizID)
}

// NewQuizServiceWithIDs is test-only for deterministic identifiers.
func NewQuizServiceWithIDs(store QuizStore, logger *slog.Logger, newID func() string) *QuizService {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuizService{store: store, logger: logger, newID: newID}
}

// newQuizID returns the first 8 characters of a random UUID.
func newQuizID() string {
	return uuid.NewString()[:8]
}

// Lookup fetches a quiz by id.
func (s *QuizService) Lookup(ctx context.Context, id string) (domain.Quiz, error) {
	quiz, err := s.store.Find(ctx, id)
	if err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

func (s *QuizService) List(ctx context.Context) ([]domain.Quiz, error) {
	quizzes, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	if quizzes == nil {
		quizzes = []domain.Quiz{}
	}
	return quizzes, nil
}

// Create stores a new quiz under a freshly generated id.
func (s *QuizService) Create(ctx context.Context, payload domain.CreateQuizPayload) (domain.Quiz, error) {
	id, err := s.allocateID(ctx)
	if err != nil {
		return domain.Quiz{}, err
	}

	questions := payload.Questions
	if questions == nil {
		questions = []domain.Question{}
	}
	quiz := domain.Quiz{ID: id, Title: payload.Title, Questions: questions}.Clone()

	if err := s.store.Upsert(ctx, id, quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("store quiz: %w", err)
	}
	s.logger.Info("quiz created", "quiz_id", id, "questions", len(quiz.Questions))
	return quiz, nil
}

func (s *QuizService) allocateID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := s.newID()
		_, err := s.store.Find(ctx, id)
		if errors.Is(err, domain.ErrQuizNotFound) {
			return id, nil
		}
		if err != nil {
			return "", fmt.Errorf("check quiz id: %w", err)
		}
		s.logger.Warn("quiz id collision", "quiz_id", id, "attempt", attempt+1)
	}
	return "", domain.ErrQuizIDExhausted
}

// Submit looks the quiz up and grades the submission against it.
func (s *QuizService) Submit(ctx context.Context, id string, submission domain.Submission) (domain.ScoreResult, error) {
	quiz, err := s.Lookup(ctx, id)
	if err != nil {
		return domain.ScoreResult{}, err
	}
	result := Grade(quiz, submission)
	s.logger.Debug("submission graded", "quiz_id", id, "score", result.Score, "total", result.Total)
	return result, nil
}

// SubmitReview is Submit with a per-question breakdown.
func (s *QuizService) SubmitReview(ctx context.Context, id string, submission domain.Submission) (domain.Review, error) {
	quiz, err := s.Lookup(ctx, id)
	if err != nil {
		return domain.Review{}, err
	}
	return GradeReview(quiz, submission), nil
}

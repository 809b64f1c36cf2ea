package memory

import (
	"context"
	"sync"

	"quiz-hosting-service/internal/domain"
)

// QuizStore keeps quizzes in process memory (useful for tests/demos).
// Copies go in and out so callers never share slices with the store.
type QuizStore struct {
	mu      sync.RWMutex
	quizzes map[string]domain.Quiz
	order   []string
}

func NewQuizStore(seed ...domain.Quiz) *QuizStore {
	s := &QuizStore{quizzes: make(map[string]domain.Quiz)}
	for _, quiz := range seed {
		s.put(quiz.ID, quiz)
	}
	return s
}

func (s *QuizStore) Find(_ context.Context, id string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[id]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz.Clone(), nil
}

func (s *QuizStore) List(_ context.Context) ([]domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Quiz, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.quizzes[id].Clone())
	}
	return out, nil
}

func (s *QuizStore) Upsert(_ context.Context, id string, quiz domain.Quiz) error {
	s.put(id, quiz)
	return nil
}

func (s *QuizStore) put(id string, quiz domain.Quiz) {
	quiz = quiz.Clone()
	quiz.ID = id

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[id]; !ok {
		s.order = append(s.order, id)
	}
	s.quizzes[id] = quiz
}

func (s *QuizStore) Ping(context.Context) error { return nil }

func (s *QuizStore) Close() error { return nil }

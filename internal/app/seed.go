package app

import (
	"context"
	"fmt"

	"quiz-hosting-service/internal/domain"
)

// SampleQuizID is the fixed id the sample quiz is seeded under.
const SampleQuizID = "1"

// SampleQuiz is the quiz upserted at startup so a fresh deployment has something to take.
func SampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID:    SampleQuizID,
		Title: "General Knowledge Quiz",
		Questions: []domain.Question{
			{
				Text:    "What is the capital of France?",
				Type:    domain.QuestionTypeMCQ,
				Options: []string{"London", "Berlin", "Paris", "Madrid"},
				Answer:  "Paris",
			},
			{
				Text:    "The Earth is flat.",
				Type:    domain.QuestionTypeTrueFalse,
				Options: []string{"True", "False"},
				Answer:  "False",
			},
			{
				Text:   "What is 2 + 2?",
				Type:   domain.QuestionTypeText,
				Answer: "4",
			},
		},
	}
}

// Seed upserts the sample quiz. Running it repeatedly leaves a single copy.
func (s *QuizService) Seed(ctx context.Context) error {
	if err := s.store.Upsert(ctx, SampleQuizID, SampleQuiz()); err != nil {
		return fmt.Errorf("seed sample quiz: %w", err)
	}
	s.logger.Info("sample quiz seeded", "quiz_id", SampleQuizID)
	return nil
}

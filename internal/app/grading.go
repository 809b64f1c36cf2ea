package app

import (
	"strconv"
	"strings"

	"quiz-hosting-service/internal/domain"
)

// Grade scores a submission against the quiz answer key by position.
// Missing answers count as incorrect and extra answers are ignored; grading never fails.
func Grade(quiz domain.Quiz, submission domain.Submission) domain.ScoreResult {
	total := len(quiz.Questions)
	score := 0
	for i := range quiz.Questions {
		if correct, _ := gradeAt(quiz, submission, i); correct {
			score++
		}
	}
	return domain.ScoreResult{
		Score:      score,
		Total:      total,
		Percentage: percentage(score, total),
	}
}

// GradeReview grades like Grade and also reports the outcome of every question.
func GradeReview(quiz domain.Quiz, submission domain.Submission) domain.Review {
	answers := make([]domain.GradedAnswer, len(quiz.Questions))
	score := 0
	for i, question := range quiz.Questions {
		correct, given := gradeAt(quiz, submission, i)
		if correct {
			score++
		}
		answers[i] = domain.GradedAnswer{
			Index:    i,
			Given:    given,
			Expected: question.Answer,
			Correct:  correct,
		}
	}
	total := len(quiz.Questions)
	return domain.Review{
		ScoreResult: domain.ScoreResult{
			Score:      score,
			Total:      total,
			Percentage: percentage(score, total),
		},
		Answers: answers,
	}
}

func gradeAt(quiz domain.Quiz, submission domain.Submission, i int) (bool, string) {
	given := ""
	if i < len(submission.Answers) {
		given = submission.Answers[i]
	}
	return normalize(given) == normalize(quiz.Questions[i].Answer), given
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// percentage rounds the float score/total*100 to two places, ties to even on the
// exact binary value: 23/160 gives 14.37 and 1/32 gives 3.12.
func percentage(score, total int) float64 {
	if total == 0 {
		return 0
	}
	p := float64(score) / float64(total) * 100
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(p, 'f', 2, 64), 64)
	return rounded
}

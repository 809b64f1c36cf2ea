package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"quiz-hosting-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuizStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	_, err := store.Find(ctx, "1")
	assert.ErrorIs(t, err, domain.ErrQuizNotFound)

	require.NoError(t, store.Upsert(ctx, "1", sampleQuiz()))

	got, err := store.Find(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID)
	assert.Equal(t, sampleQuiz().Questions, got.Questions)
}

func TestQuizStoreUpsertKeepsPosition(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	for _, id := range []string{"b", "a", "c"} {
		require.NoError(t, store.Upsert(ctx, id, sampleQuiz()))
	}
	renamed := sampleQuiz()
	renamed.Title = "Renamed"
	require.NoError(t, store.Upsert(ctx, "b", renamed))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{list[0].ID, list[1].ID, list[2].ID})
	assert.Equal(t, "Renamed", list[0].Title)
}

func TestQuizStoreReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "quizzes.db")

	store, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Upsert(ctx, "1", sampleQuiz()))
	require.NoError(t, store.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Find(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "General Knowledge", got.Title)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.Error(t, err)
}

func openTestStore(t *testing.T) *QuizStore {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "quizzes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		Title: "General Knowledge",
		Questions: []domain.Question{
			{Text: "The Earth is flat.", Type: domain.QuestionTypeTrueFalse, Options: []string{"True", "False"}, Answer: "False"},
			{Text: "What is 2 + 2?", Type: domain.QuestionTypeText, Answer: "4"},
		},
	}
}

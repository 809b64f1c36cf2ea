package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"quiz-hosting-service/internal/app"
	"quiz-hosting-service/internal/config"
	"quiz-hosting-service/internal/infra/memory"
	transport "quiz-hosting-service/internal/transport/http"

	"github.com/alicebob/miniredis/v2"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStoreBackends(t *testing.T) {
	ctx := context.Background()

	cfg := config.Default()
	store, backend, err := openStore(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, config.BackendMemory, backend)
	assert.NoError(t, store.Ping(ctx))

	cfg = config.Default()
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "quizzes.db")
	store, backend, err = openStore(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, config.BackendSQLite, backend)
	assert.NoError(t, store.Ping(ctx))
	require.NoError(t, store.Close())

	mr := miniredis.RunT(t)
	cfg = config.Default()
	cfg.Redis.Addr = mr.Addr()
	store, backend, err = openStore(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, config.BackendRedis, backend)
	assert.NoError(t, store.Ping(ctx))
	require.NoError(t, store.Close())
}

func TestOpenStoreRejectsIncompleteConfig(t *testing.T) {
	ctx := context.Background()

	for _, backend := range []string{config.BackendPostgres, config.BackendRedis, config.BackendSQLite, "mongo"} {
		cfg := config.Default()
		cfg.Store.Backend = backend
		_, _, err := openStore(ctx, cfg)
		assert.Error(t, err, backend)
	}
}

func TestSeedThenPing(t *testing.T) {
	clearStoreEnv(t)
	color.NoColor = true

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "store:\n  backend: sqlite\nsqlite:\n  path: " + filepath.Join(dir, "quizzes.db") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	out, err := runCLI(t, "ping", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "OK sqlite: 0 quizzes")

	out, err = runCLI(t, "seed", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "seeded quiz 1 into sqlite")

	out, err = runCLI(t, "ping", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "OK sqlite: 1 quizzes")
}

func TestQuizzesCommands(t *testing.T) {
	color.NoColor = true
	server := newAPIServer(t)

	out, err := runCLI(t, "quizzes", "list", "--server", server.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "General Knowledge Quiz")

	out, err = runCLI(t, "quizzes", "get", "1", "--server", server.URL)
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "General Knowledge Quiz"`)

	out, err = runCLI(t, "quizzes", "submit", "1", "paris", "false", "5", "--server", server.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "score 2/3 (66.67%)")

	out, err = runCLI(t, "quizzes", "submit", "1", "Paris", "--review", "--server", server.URL)
	require.NoError(t, err)
	assert.Contains(t, out, `✓ 1. "Paris"`)
	assert.Contains(t, out, `✗ 3. "" (expected "4")`)

	file := filepath.Join(t.TempDir(), "quiz.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"title":"Math","questions":[{"text":"3 * 3?","type":"text","answer":"9"}]}`), 0o600))
	out, err = runCLI(t, "quizzes", "create", "-f", file, "--server", server.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "(1 questions)")

	_, err = runCLI(t, "quizzes", "get", "missing", "--server", server.URL)
	assert.Error(t, err)
}

func TestCreateValidatesFileLocally(t *testing.T) {
	file := filepath.Join(t.TempDir(), "quiz.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"questions":[]}`), 0o600))

	_, err := runCLI(t, "quizzes", "create", "-f", file, "--server", "http://127.0.0.1:1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := app.NewQuizService(memory.NewQuizStore(), logger)
	require.NoError(t, service.Seed(context.Background()))
	server := httptest.NewServer(transport.NewRouter(service, transport.RouterOptions{Logger: logger}))
	t.Cleanup(server.Close)
	return server
}

func clearStoreEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"STORE_BACKEND", "POSTGRES_URL", "REDIS_ADDR", "SQLITE_PATH", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}
}

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quiz-hosting-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

// QuizStore keeps quizzes in Redis.
// Documents are stored as: SET  quiz:{quizID} {json}
// Insertion order as:      ZADD quizzes:index NX {first upsert, unix micros} {quizID}
type QuizStore struct {
	client *redis.Client
	clock  func() time.Time
}

const indexKey = "quizzes:index"

func NewQuizStore(client *redis.Client) *QuizStore {
	return &QuizStore{client: client, clock: time.Now}
}

func (s *QuizStore) Find(ctx context.Context, id string) (domain.Quiz, error) {
	raw, err := s.client.Get(ctx, quizKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("get quiz: %w", err)
	}
	return decodeQuiz(id, raw)
}

func (s *QuizStore) List(ctx context.Context) ([]domain.Quiz, error) {
	ids, err := s.client.ZRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read quiz index: %w", err)
	}
	quizzes := make([]domain.Quiz, 0, len(ids))
	if len(ids) == 0 {
		return quizzes, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = quizKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get quizzes: %w", err)
	}
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			// indexed but the document is gone
			continue
		}
		quiz, err := decodeQuiz(ids[i], []byte(raw))
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, nil
}

func (s *QuizStore) Upsert(ctx context.Context, id string, quiz domain.Quiz) error {
	quiz.ID = id
	data, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, quizKey(id), data, 0)
	pipe.ZAddNX(ctx, indexKey, redis.Z{Score: float64(s.clock().UnixMicro()), Member: id})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("upsert quiz: %w", err)
	}
	return nil
}

func (s *QuizStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *QuizStore) Close() error {
	return s.client.Close()
}

func quizKey(id string) string {
	return "quiz:" + id
}

func decodeQuiz(id string, raw []byte) (domain.Quiz, error) {
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("unmarshal quiz %s: %w", id, err)
	}
	quiz.ID = id
	if quiz.Questions == nil {
		quiz.Questions = []domain.Question{}
	}
	return quiz, nil
}

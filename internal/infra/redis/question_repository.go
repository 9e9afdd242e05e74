package redis

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"proctor-scoring-service/internal/domain"
)

// QuestionLoader fetches question banks from a backing store.
type QuestionLoader interface {
	LoadQuestionSet(ctx context.Context, setID string) (domain.QuestionSet, error)
}

// QuestionRepository caches answer keys in Redis (hash per question set)
// and falls back to a loader on cache miss.
// Answer keys are stored as:  HSET qset:{setID}:answers      {questionID} {correctAnswer}
// Competency tags are stored: HSET qset:{setID}:competencies {questionID} {competency}
type QuestionRepository struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuestionRepository(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) GetQuestionSet(ctx context.Context, setID string) (domain.QuestionSet, error) {
	answerKey := r.answersKey(setID)
	compKey := r.competenciesKey(setID)

	answers, err := r.client.HGetAll(ctx, answerKey).Result()
	if err == nil && len(answers) > 0 {
		comps, _ := r.client.HGetAll(ctx, compKey).Result()
		return buildSetFromCache(setID, answers, comps), nil
	}

	result, err, _ := r.sf.Do(setID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		answers, err := r.client.HGetAll(ctx, answerKey).Result()
		if err == nil && len(answers) > 0 {
			comps, _ := r.client.HGetAll(ctx, compKey).Result()
			return buildSetFromCache(setID, answers, comps), nil
		}

		set, err := r.loader.LoadQuestionSet(ctx, setID)
		if err != nil {
			return domain.QuestionSet{}, err
		}

		ttl := r.ttlWithJitter()
		pipe := r.client.Pipeline()
		for _, q := range set.Questions {
			pipe.HSet(ctx, answerKey, q.ID, q.CorrectAnswer)
			pipe.HSet(ctx, compKey, q.ID, string(q.Competency))
		}
		if ttl > 0 {
			pipe.Expire(ctx, answerKey, ttl)
			pipe.Expire(ctx, compKey, ttl)
		}
		_, _ = pipe.Exec(ctx)

		return set, nil
	})
	if err != nil {
		return domain.QuestionSet{}, err
	}
	return result.(domain.QuestionSet), nil
}

func (r *QuestionRepository) answersKey(setID string) string {
	return "qset:" + setID + ":answers"
}

func (r *QuestionRepository) competenciesKey(setID string) string {
	return "qset:" + setID + ":competencies"
}

// buildSetFromCache reconstructs the grading view of a question set from
// the two hashes. Prompts are not cached in this lightweight form; the
// engine only needs keys and tags. Hash iteration order is random, so
// questions are re-sorted by ID for deterministic grading warnings.
func buildSetFromCache(setID string, answers map[string]string, comps map[string]string) domain.QuestionSet {
	questions := make([]domain.Question, 0, len(answers))
	for questionID, correct := range answers {
		questions = append(questions, domain.Question{
			ID:            questionID,
			CorrectAnswer: correct,
			Competency:    domain.Competency(comps[questionID]),
		})
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })
	return domain.QuestionSet{ID: setID, Questions: questions}
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sanctuarysound/api/internal/model"
)

var ErrJobNotFound = errors.New("job not found")

// jobTTL bounds how long job records and results stay readable.
const jobTTL = 24 * time.Hour

// JobStore persists recommendation job records.
type JobStore interface {
	Save(ctx context.Context, job *model.Job) error
	Get(ctx context.Context, jobID string) (*model.Job, error)
}

// RedisJobStore keeps jobs as JSON under job:<id>.
type RedisJobStore struct {
	redis *redis.Client
}

func NewRedisJobStore(redisClient *redis.Client) *RedisJobStore {
	return &RedisJobStore{redis: redisClient}
}

func (s *RedisJobStore) Save(ctx context.Context, job *model.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	return s.redis.Set(ctx, jobKey(job.ID), data, jobTTL).Err()
}

func (s *RedisJobStore) Get(ctx context.Context, jobID string) (*model.Job, error) {
	data, err := s.redis.Get(ctx, jobKey(jobID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	var job model.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}
	return &job, nil
}

func jobKey(id string) string {
	return fmt.Sprintf("job:%s", id)
}

// MemoryJobStore is an in-process JobStore for the CLI and tests.
type MemoryJobStore struct {
	mu   sync.Mutex
	jobs map[string]model.Job
}

func NewMemoryJobStore() *MemoryJobStore {
	return &MemoryJobStore{jobs: make(map[string]model.Job)}
}

func (s *MemoryJobStore) Save(_ context.Context, job *model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = *job
	return nil
}

func (s *MemoryJobStore) Get(_ context.Context, jobID string) (*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return nil, ErrJobNotFound
	}
	return &job, nil
}

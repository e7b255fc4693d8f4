package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/sanctuarysound/api/internal/model"
	"github.com/sanctuarysound/api/internal/recommend"
)

const (
	TaskTypeRecommend = "recommend:generate"
	QueueRecommend    = "recommend"
)

var (
	ErrJobNotCompleted = errors.New("job not completed")
	ErrJobSuperseded   = errors.New("job superseded by a newer request")
	ErrJobFailed       = errors.New("job failed")
)

// Enqueuer is the part of *asynq.Client the service needs.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// RecommendTask is the asynq payload of a recommendation job.
type RecommendTask struct {
	JobID   string                    `json:"jobId"`
	Payload model.RecommendJobPayload `json:"payload"`
}

// RecommendationService runs the recommendation engine synchronously and
// manages the async, last-call-wins job flow around it.
type RecommendationService struct {
	tuning recommend.Tuning
	jobs   JobStore
	gens   Generations
	queue  Enqueuer
	log    *zap.Logger
}

func NewRecommendationService(tuning recommend.Tuning, jobs JobStore, gens Generations, queue Enqueuer, log *zap.Logger) *RecommendationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &RecommendationService{
		tuning: tuning,
		jobs:   jobs,
		gens:   gens,
		queue:  queue,
		log:    log.Named("recommend"),
	}
}

// Generate computes a recommendation in the request path.
func (s *RecommendationService) Generate(svc model.Service) model.MixerSettingRecommendation {
	return s.tuning.Generate(svc)
}

// StartJob queues an async generation. Each call advances the service's
// generation; earlier jobs for the same service will be discarded by the
// worker when they finish. A service without an ID gets a fresh one.
func (s *RecommendationService) StartJob(ctx context.Context, svc model.Service) (*model.RecommendJobResponse, error) {
	if s.queue == nil {
		return nil, fmt.Errorf("job queue not configured")
	}
	if svc.ID == "" {
		svc.ID = uuid.New().String()
	}

	gen, err := s.gens.Next(ctx, svc.ID)
	if err != nil {
		return nil, err
	}

	jobID := uuid.New().String()
	now := time.Now()
	job := &model.Job{
		ID:         jobID,
		Type:       model.JobTypeRecommend,
		ServiceID:  svc.ID,
		Generation: gen,
		Status:     model.JobStatusQueued,
		CreatedAt:  now,
	}
	if err := s.jobs.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}

	task, err := newRecommendTask(RecommendTask{
		JobID:   jobID,
		Payload: model.RecommendJobPayload{ServiceID: svc.ID, Generation: gen, Service: svc},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if _, err := s.queue.Enqueue(task,
		asynq.Queue(QueueRecommend),
		asynq.MaxRetry(3),
		asynq.Retention(jobTTL),
	); err != nil {
		return nil, fmt.Errorf("failed to enqueue task: %w", err)
	}

	s.log.Info("recommendation queued",
		zap.String("jobId", jobID),
		zap.String("serviceId", svc.ID),
		zap.Int64("generation", gen),
	)

	return &model.RecommendJobResponse{
		JobID:      jobID,
		ServiceID:  svc.ID,
		Generation: gen,
		Status:     model.JobStatusQueued,
		CreatedAt:  now,
	}, nil
}

// GetStatus returns the current status of a recommendation job
func (s *RecommendationService) GetStatus(ctx context.Context, jobID string) (*model.RecommendStatusResponse, error) {
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	return &model.RecommendStatusResponse{
		JobID:       job.ID,
		ServiceID:   job.ServiceID,
		Generation:  job.Generation,
		Status:      job.Status,
		Progress:    job.Progress,
		CurrentStep: job.CurrentStep,
		Error:       job.Error,
		CreatedAt:   job.CreatedAt,
		StartedAt:   job.StartedAt,
		CompletedAt: job.CompletedAt,
	}, nil
}

// GetResult returns the recommendation of a succeeded job
func (s *RecommendationService) GetResult(ctx context.Context, jobID string) (*model.MixerSettingRecommendation, error) {
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	switch job.Status {
	case model.JobStatusSucceeded:
	case model.JobStatusSuperseded:
		return nil, ErrJobSuperseded
	case model.JobStatusFailed:
		return nil, ErrJobFailed
	default:
		return nil, ErrJobNotCompleted
	}

	var result model.MixerSettingRecommendation
	if err := json.Unmarshal(job.Result, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &result, nil
}

// IsCurrent reports whether generation is still the newest for serviceID,
// along with the newest generation.
func (s *RecommendationService) IsCurrent(ctx context.Context, serviceID string, generation int64) (bool, int64, error) {
	current, err := s.gens.Current(ctx, serviceID)
	if err != nil {
		return false, 0, err
	}
	return generation >= current, current, nil
}

// UpdateJobProgress updates job progress (called by worker)
func (s *RecommendationService) UpdateJobProgress(ctx context.Context, jobID string, progress int, step string) error {
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return err
	}

	job.Progress = progress
	job.CurrentStep = step

	if job.Status == model.JobStatusQueued {
		job.Status = model.JobStatusRunning
		now := time.Now()
		job.StartedAt = &now
	}

	return s.jobs.Save(ctx, job)
}

// CompleteJob stores the result and marks the job succeeded (called by worker)
func (s *RecommendationService) CompleteJob(ctx context.Context, jobID string, result model.MixerSettingRecommendation) error {
	resultBytes, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	return s.finish(ctx, jobID, model.JobStatusSucceeded, func(job *model.Job) {
		job.Progress = 100
		job.Result = resultBytes
	})
}

// SupersedeJob marks a job whose result was discarded (called by worker)
func (s *RecommendationService) SupersedeJob(ctx context.Context, jobID string) error {
	return s.finish(ctx, jobID, model.JobStatusSuperseded, func(job *model.Job) {
		job.Result = nil
	})
}

// FailJob marks job as failed (called by worker)
func (s *RecommendationService) FailJob(ctx context.Context, jobID string, errMsg string) error {
	return s.finish(ctx, jobID, model.JobStatusFailed, func(job *model.Job) {
		job.Error = &errMsg
	})
}

func (s *RecommendationService) finish(ctx context.Context, jobID string, status model.JobStatus, apply func(*model.Job)) error {
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return err
	}

	job.Status = status
	apply(job)
	now := time.Now()
	job.CompletedAt = &now

	return s.jobs.Save(ctx, job)
}

func newRecommendTask(t RecommendTask) (*asynq.Task, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeRecommend, data), nil
}

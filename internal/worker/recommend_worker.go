package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/sanctuarysound/api/internal/model"
	"github.com/sanctuarysound/api/internal/service"
)

// Notifier pushes job updates to subscribed clients.
type Notifier interface {
	BroadcastProgress(jobID string, progress int, status model.JobStatus, step string)
	BroadcastComplete(jobID string, result interface{})
	BroadcastSuperseded(jobID string, generation, current int64)
	BroadcastError(jobID string, code, message string)
}

// RecommendWorker processes recommendation jobs
type RecommendWorker struct {
	recommendations *service.RecommendationService
	notifier        Notifier
	log             *zap.Logger
}

func NewRecommendWorker(recommendations *service.RecommendationService, notifier Notifier, log *zap.Logger) *RecommendWorker {
	if log == nil {
		log = zap.NewNop()
	}
	return &RecommendWorker{
		recommendations: recommendations,
		notifier:        notifier,
		log:             log.Named("worker"),
	}
}

// ProcessTask generates the recommendation and stores it unless a newer
// request for the same service arrived in the meantime.
func (w *RecommendWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var task service.RecommendTask
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %v: %w", err, asynq.SkipRetry)
	}

	jobID := task.JobID
	p := task.Payload
	log := w.log.With(
		zap.String("jobId", jobID),
		zap.String("serviceId", p.ServiceID),
		zap.Int64("generation", p.Generation),
	)
	log.Info("recommendation started")

	if stale, err := w.supersededBy(ctx, jobID, p, log); stale || err != nil {
		return err
	}

	w.updateProgress(ctx, jobID, 30, "Generating channel recommendations")
	rec := w.recommendations.Generate(p.Service)

	// A newer request may have arrived while generating.
	w.updateProgress(ctx, jobID, 90, "Saving")
	if stale, err := w.supersededBy(ctx, jobID, p, log); stale || err != nil {
		return err
	}

	if err := w.recommendations.CompleteJob(ctx, jobID, rec); err != nil {
		w.failJob(ctx, jobID, "Failed to save result", log)
		return err
	}

	w.notifier.BroadcastComplete(jobID, rec)
	log.Info("recommendation completed", zap.Int("channels", len(rec.Channels)))
	return nil
}

// supersededBy marks the job superseded when its generation is stale.
func (w *RecommendWorker) supersededBy(ctx context.Context, jobID string, p model.RecommendJobPayload, log *zap.Logger) (bool, error) {
	current, latest, err := w.recommendations.IsCurrent(ctx, p.ServiceID, p.Generation)
	if err != nil {
		log.Error("generation check failed", zap.Error(err))
		return false, err
	}
	if current {
		return false, nil
	}

	if err := w.recommendations.SupersedeJob(ctx, jobID); err != nil {
		log.Error("failed to mark job superseded", zap.Error(err))
		return true, err
	}
	w.notifier.BroadcastSuperseded(jobID, p.Generation, latest)
	log.Info("recommendation superseded", zap.Int64("current", latest))
	return true, nil
}

func (w *RecommendWorker) updateProgress(ctx context.Context, jobID string, progress int, step string) {
	if err := w.recommendations.UpdateJobProgress(ctx, jobID, progress, step); err != nil {
		w.log.Warn("failed to update progress", zap.String("jobId", jobID), zap.Error(err))
	}
	w.notifier.BroadcastProgress(jobID, progress, model.JobStatusRunning, step)
}

func (w *RecommendWorker) failJob(ctx context.Context, jobID, errMsg string, log *zap.Logger) {
	if err := w.recommendations.FailJob(ctx, jobID, errMsg); err != nil {
		log.Error("failed to mark job failed", zap.Error(err))
	}
	w.notifier.BroadcastError(jobID, "JOB_FAILED", errMsg)
}

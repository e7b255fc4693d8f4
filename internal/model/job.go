package model

import (
	"encoding/json"
	"time"
)

// Job represents a background job in the system
type Job struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	ServiceID   string          `json:"serviceId"`
	Generation  int64           `json:"generation"`
	Status      JobStatus       `json:"status"`
	Progress    int             `json:"progress"`
	CurrentStep string          `json:"currentStep,omitempty"`
	Error       *string         `json:"error,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	StartedAt   *time.Time      `json:"startedAt,omitempty"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
	RetryCount  int             `json:"retryCount"`
}

// Job types
const (
	JobTypeRecommend = "recommend"
)

// RecommendJobPayload contains the data for a recommendation job
type RecommendJobPayload struct {
	ServiceID  string  `json:"serviceId"`
	Generation int64   `json:"generation"`
	Service    Service `json:"service"`
}

// Done reports whether the job reached a terminal status.
func (j *Job) Done() bool {
	switch j.Status {
	case JobStatusSucceeded, JobStatusFailed, JobStatusSuperseded:
		return true
	}
	return false
}

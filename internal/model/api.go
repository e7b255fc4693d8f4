package model

import "time"

// GenerateRequest is the body of POST /api/recommendations/generate and /jobs
type GenerateRequest struct {
	Service Service `json:"service" validate:"required"`
}

// RecommendJobResponse is returned when an async recommendation is queued
type RecommendJobResponse struct {
	JobID      string    `json:"jobId"`
	ServiceID  string    `json:"serviceId"`
	Generation int64     `json:"generation"`
	Status     JobStatus `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// RecommendStatusResponse represents the status of a recommendation job
type RecommendStatusResponse struct {
	JobID       string     `json:"jobId"`
	ServiceID   string     `json:"serviceId"`
	Generation  int64      `json:"generation"`
	Status      JobStatus  `json:"status"`
	Progress    int        `json:"progress"`
	CurrentStep string     `json:"currentStep,omitempty"`
	Error       *string    `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// AnalyzeRequest is the body of POST /api/analysis
type AnalyzeRequest struct {
	Snapshot       MixerSnapshot              `json:"snapshot" validate:"required"`
	Recommendation MixerSettingRecommendation `json:"recommendation" validate:"required"`
	Mapping        ChannelMapping             `json:"mapping,omitempty"`
	SPL            *SPLPreference             `json:"spl,omitempty"`
}

// InferRequest is the body of POST /api/inference
type InferRequest struct {
	Labels []string `json:"labels" validate:"required,min=1,max=256,dive,max=64"`
}

// InferredLabel is one inference result. Source is omitted when unmapped.
type InferredLabel struct {
	Label  string       `json:"label"`
	Source *InputSource `json:"source,omitempty"`
	Mapped bool         `json:"mapped"`
}

// InferResponse is returned by POST /api/inference
type InferResponse struct {
	Results []InferredLabel `json:"results"`
}

// SnapshotImportResponse is returned by POST /api/snapshots/import
type SnapshotImportResponse struct {
	Snapshot   MixerSnapshot `json:"snapshot"`
	ArchiveURL string        `json:"archiveUrl,omitempty"`
	Skipped    []int         `json:"skippedRows,omitempty"`
	ImportedAt time.Time     `json:"importedAt"`
}

// ConsoleListResponse is returned by GET /api/consoles
type ConsoleListResponse struct {
	Consoles []ConsoleProfile `json:"consoles"`
}

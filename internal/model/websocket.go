package model

// WebSocket message types
const (
	WSMessageTypeProgress   = "progress"
	WSMessageTypeComplete   = "complete"
	WSMessageTypeSuperseded = "superseded"
	WSMessageTypeError      = "error"
	WSMessageTypePing       = "ping"
	WSMessageTypePong       = "pong"
)

// WSMessage represents a generic WebSocket message
type WSMessage struct {
	Type string `json:"type"`
}

// WSProgressMessage represents a progress update
type WSProgressMessage struct {
	Type        string    `json:"type"`
	JobID       string    `json:"jobId"`
	Progress    int       `json:"progress"`
	Status      JobStatus `json:"status"`
	CurrentStep string    `json:"currentStep,omitempty"`
}

// WSCompleteMessage represents job completion
type WSCompleteMessage struct {
	Type   string      `json:"type"`
	JobID  string      `json:"jobId"`
	Result interface{} `json:"result"`
}

// WSSupersededMessage tells subscribers a newer generation replaced the job
type WSSupersededMessage struct {
	Type              string `json:"type"`
	JobID             string `json:"jobId"`
	Generation        int64  `json:"generation"`
	CurrentGeneration int64  `json:"currentGeneration"`
}

// WSErrorMessage represents an error
type WSErrorMessage struct {
	Type  string  `json:"type"`
	JobID string  `json:"jobId"`
	Error WSError `json:"error"`
}

// WSError represents error details
type WSError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

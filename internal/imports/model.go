package imports

import "time"

// Status is the lifecycle state of an import.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Import tracks one uploaded resume file through text extraction and structuring.
type Import struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	FileName  string    `json:"fileName"`
	SourceKey string    `json:"sourceKey"`
	MimeType  string    `json:"mimeType"`
	SizeBytes int64     `json:"sizeBytes"`
	Status    Status    `json:"status"`
	ResumeID  string    `json:"resumeId,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Done reports whether the import reached a terminal status.
func (i Import) Done() bool {
	return i.Status == StatusCompleted || i.Status == StatusFailed
}

package jobs

import "time"

// Job is a posting a tailored resume is written for.
type Job struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CompanyName string    `json:"company_name"`
	Position    string    `json:"position"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	JobURL      string    `json:"job_url,omitempty"`
	Keywords    []string  `json:"keywords"`
	CreatedAt   time.Time `json:"created_at"`
}

package model

import "time"

type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Job is one orchestrated request: source URL in, persisted site versions out.
// The pipeline runner is the only writer after creation.
type Job struct {
	ID           string
	SiteID       string // empty until the fetch stage created the Site
	Status       JobStatus
	Error        string // set only when Status == failed
	VersionsDone int    // how many versions were persisted; meaningful once completed
	SourceURL    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewJob(id, sourceURL string) *Job {
	now := time.Now()
	return &Job{
		ID:        id,
		Status:    JobStatusPending,
		SourceURL: sourceURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Terminal reports whether the job reached completed or failed.
// Terminal jobs are never re-processed; a retry is a new Job.
func (j *Job) Terminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// Package analysis implements the content-verification pipeline: job
// submission with a per-user busy guard, queued execution through a
// detector, and verdict presentation.
package analysis

import "time"

type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

type ContentKind string

const (
	ContentFile ContentKind = "file"
	ContentText ContentKind = "text"
)

type Job struct {
	ID string `gorm:"primaryKey;size:26"` // ULID length

	UserID uint64 `gorm:"index;not null"`

	ContentKind ContentKind `gorm:"type:varchar(8);not null"`
	FileName    string      `gorm:"type:varchar(255)"`
	FileSize    int64
	MimeType    string `gorm:"type:varchar(64)"`
	TextBody    string `gorm:"type:text"`

	Status JobStatus `gorm:"type:varchar(16);index;not null"`

	// Filled when succeeded
	IsReal      *bool
	Confidence  *int
	Explanation *string `gorm:"type:text"`

	// Filled when failed
	Error *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Job) TableName() string { return "analysis_jobs" }

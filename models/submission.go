package models

import "time"

// Submission statuses. Transitions are enforced by the workflow engine;
// nothing else may write the status column.
const (
	SubmissionPending   = "pending"
	SubmissionReviewing = "reviewing"
	SubmissionApproved  = "approved"
	SubmissionRejected  = "rejected"
)

// Submission is a user's proof-of-work (a PR link) for a task. task_id,
// user_id and pr_url are immutable after creation; rows are never deleted.
type Submission struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TaskID    uint      `gorm:"not null;index" json:"task_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	PrURL     string    `gorm:"column:pr_url;type:varchar(512);not null" json:"pr_url"`
	Status    string    `gorm:"type:enum('pending','reviewing','approved','rejected');not null;default:'pending'" json:"status"`
	Note      *string   `gorm:"type:text" json:"note"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Submission) TableName() string {
	return "task_submissions"
}

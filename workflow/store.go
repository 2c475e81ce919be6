package workflow

import (
	"context"

	"github.com/zhiming817/learn2earn/models"
)

// Page is the paginated submission listing shape shared with the HTTP layer.
type Page struct {
	Data       []models.Submission `json:"data"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	Total      int64               `json:"total"`
	TotalPages int                 `json:"total_pages"`
}

// Store is the single source of truth for workflow state. All status
// writes go through UpdateStatus, which is a compare-and-set: the write
// succeeds only if the stored status still equals the expected one, so two
// reviewers cannot both win the same transition.
type Store interface {
	CreateSubmission(ctx context.Context, sub *models.Submission) error
	GetSubmission(ctx context.Context, id uint) (*models.Submission, error)

	// ListByTask returns submissions for a task ordered by created_at
	// descending, ties broken by id ascending. status filters when non-empty.
	ListByTask(ctx context.Context, taskID uint, page, pageSize int, status string) (*Page, error)

	// UpdateStatus moves the submission from expect to to and writes the
	// note column (nil clears it). Returns ErrConflict when the stored
	// status no longer matches expect, ErrNotFound when the row is gone.
	UpdateStatus(ctx context.Context, id uint, expect, to string, note *string) error

	GetTask(ctx context.Context, id uint) (*models.Task, error)

	// GetClaim returns ErrNotFound when the user has not claimed the task.
	GetClaim(ctx context.Context, userID, taskID uint) (*models.TaskClaim, error)

	// CreateClaim returns ErrConflict when a claim for the pair exists.
	CreateClaim(ctx context.Context, claim *models.TaskClaim) error

	// UpdateClaimStatus is the compare-and-set for the claim sub-machine.
	UpdateClaimStatus(ctx context.Context, userID, taskID uint, expect, to string) error
}

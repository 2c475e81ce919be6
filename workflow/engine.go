package workflow

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/zhiming817/learn2earn/authz"
	"github.com/zhiming817/learn2earn/models"
)

// Policy holds the configurable workflow knobs loaded from settings.
type Policy struct {
	// RequireClaim rejects a submission unless the submitter has a
	// claimed or completed record for the task.
	RequireClaim bool
}

// Engine enforces the submission state machine:
//
//	(none) -> pending -> reviewing -> approved
//	                  \-> approved      |
//	                  \-> rejected <----/ (from pending or reviewing)
//
// approved and rejected are terminal for review. Every transition goes
// through the store's compare-and-set, so a concurrent reviewer loses with
// ErrConflict instead of silently overwriting.
type Engine struct {
	store  Store
	policy Policy
}

func NewEngine(store Store, policy Policy) *Engine {
	return &Engine{store: store, policy: policy}
}

// Submit creates a pending submission for the actor's own proof-of-work.
func (e *Engine) Submit(ctx context.Context, actor authz.Actor, taskID uint, prURL string) (*models.Submission, error) {
	if !actor.IsAuthenticated() {
		return nil, ErrUnauthorized
	}
	if err := validatePrURL(prURL); err != nil {
		return nil, err
	}
	if _, err := e.store.GetTask(ctx, taskID); err != nil {
		return nil, err
	}
	if e.policy.RequireClaim {
		if _, err := e.store.GetClaim(ctx, actor.UserID, taskID); err != nil {
			if err == ErrNotFound {
				return nil, fmt.Errorf("%w: task must be claimed before submitting", ErrValidation)
			}
			return nil, err
		}
	}

	sub := &models.Submission{
		TaskID: taskID,
		UserID: actor.UserID,
		PrURL:  prURL,
		Status: models.SubmissionPending,
	}
	if err := e.store.CreateSubmission(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// StartReview takes the advisory review lock on a pending submission so a
// second reviewer cannot open it concurrently.
func (e *Engine) StartReview(ctx context.Context, actor authz.Actor, id uint) (*models.Submission, error) {
	if !authz.CanPerform(actor, authz.ActionSubmissionReview, authz.Resource{Kind: "submission", ID: id}) {
		return nil, ErrUnauthorized
	}
	sub, err := e.store.GetSubmission(ctx, id)
	if err != nil {
		return nil, err
	}
	switch sub.Status {
	case models.SubmissionPending:
		// fall through to the CAS below
	case models.SubmissionReviewing:
		return nil, ErrConflict
	default:
		return nil, ErrInvalidState
	}
	if err := e.store.UpdateStatus(ctx, id, models.SubmissionPending, models.SubmissionReviewing, sub.Note); err != nil {
		return nil, err
	}
	return e.store.GetSubmission(ctx, id)
}

// Approve moves a pending or reviewing submission to approved and clears
// the note. Approving an already-approved submission is a no-op success;
// payout is a separate, operator-initiated step, so nothing double-fires.
func (e *Engine) Approve(ctx context.Context, actor authz.Actor, id uint) (*models.Submission, error) {
	if !authz.CanPerform(actor, authz.ActionSubmissionReview, authz.Resource{Kind: "submission", ID: id}) {
		return nil, ErrUnauthorized
	}
	sub, err := e.store.GetSubmission(ctx, id)
	if err != nil {
		return nil, err
	}
	switch sub.Status {
	case models.SubmissionApproved:
		return sub, nil
	case models.SubmissionRejected:
		return nil, ErrInvalidState
	}
	if err := e.store.UpdateStatus(ctx, id, sub.Status, models.SubmissionApproved, nil); err != nil {
		return nil, err
	}
	return e.store.GetSubmission(ctx, id)
}

// Reject moves a pending or reviewing submission to rejected, storing the
// reviewer note verbatim. Rejected is terminal: the user must create a new
// submission. Rejecting an already-rejected submission is a no-op that
// leaves the stored note untouched.
func (e *Engine) Reject(ctx context.Context, actor authz.Actor, id uint, note *string) (*models.Submission, error) {
	if !authz.CanPerform(actor, authz.ActionSubmissionReview, authz.Resource{Kind: "submission", ID: id}) {
		return nil, ErrUnauthorized
	}
	sub, err := e.store.GetSubmission(ctx, id)
	if err != nil {
		return nil, err
	}
	switch sub.Status {
	case models.SubmissionRejected:
		return sub, nil
	case models.SubmissionApproved:
		return nil, ErrInvalidState
	}
	if err := e.store.UpdateStatus(ctx, id, sub.Status, models.SubmissionRejected, note); err != nil {
		return nil, err
	}
	return e.store.GetSubmission(ctx, id)
}

// Claim records the actor's intent to work on a task. Once per user per
// task; a duplicate claim reports a validation failure.
func (e *Engine) Claim(ctx context.Context, actor authz.Actor, taskID uint) (*models.TaskClaim, error) {
	if !actor.IsAuthenticated() {
		return nil, ErrUnauthorized
	}
	if _, err := e.store.GetTask(ctx, taskID); err != nil {
		return nil, err
	}
	claim := &models.TaskClaim{
		UserID: actor.UserID,
		TaskID: taskID,
		Status: models.ClaimStatusClaimed,
	}
	if err := e.store.CreateClaim(ctx, claim); err != nil {
		if err == ErrConflict {
			return nil, fmt.Errorf("%w: task already claimed", ErrValidation)
		}
		return nil, err
	}
	return claim, nil
}

// Complete marks the actor's own claim as completed. Only the claiming
// user may complete it; completing twice is a no-op success.
func (e *Engine) Complete(ctx context.Context, actor authz.Actor, taskID uint) (*models.TaskClaim, error) {
	if !actor.IsAuthenticated() {
		return nil, ErrUnauthorized
	}
	claim, err := e.store.GetClaim(ctx, actor.UserID, taskID)
	if err != nil {
		if err == ErrNotFound {
			return nil, fmt.Errorf("%w: task has not been claimed", ErrInvalidState)
		}
		return nil, err
	}
	if claim.Status == models.ClaimStatusCompleted {
		return claim, nil
	}
	if err := e.store.UpdateClaimStatus(ctx, actor.UserID, taskID, models.ClaimStatusClaimed, models.ClaimStatusCompleted); err != nil {
		return nil, err
	}
	claim.Status = models.ClaimStatusCompleted
	return claim, nil
}

// Get fetches a submission for display.
func (e *Engine) Get(ctx context.Context, id uint) (*models.Submission, error) {
	return e.store.GetSubmission(ctx, id)
}

// ListByTask pages through a task's submissions, newest first.
func (e *Engine) ListByTask(ctx context.Context, taskID uint, page, pageSize int, status string) (*Page, error) {
	if status != "" && !validStatusFilter(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	return e.store.ListByTask(ctx, taskID, page, pageSize, status)
}

func validStatusFilter(status string) bool {
	switch status {
	case models.SubmissionPending, models.SubmissionReviewing, models.SubmissionApproved, models.SubmissionRejected:
		return true
	}
	return false
}

func validatePrURL(prURL string) error {
	prURL = strings.TrimSpace(prURL)
	if prURL == "" {
		return fmt.Errorf("%w: pr_url is required", ErrValidation)
	}
	u, err := url.Parse(prURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: pr_url must be a valid http(s) URL", ErrValidation)
	}
	return nil
}

package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhiming817/learn2earn/authz"
	"github.com/zhiming817/learn2earn/models"
)

var (
	member   = authz.Actor{UserID: 10, Username: "dev"}
	reviewer = authz.Actor{UserID: 20, Username: "rev", Permissions: []string{authz.ActionSubmissionReview}}
	admin    = authz.Actor{UserID: 1, Username: "root", Roles: []string{authz.RoleAdmin}}
)

func newTestEngine(t *testing.T, policy Policy) (*Engine, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	store.PutTask(&models.Task{ID: 1, Code: "T-001", Name: "Fix parser"})
	return NewEngine(store, policy), store
}

func submitPending(t *testing.T, e *Engine) *models.Submission {
	t.Helper()
	sub, err := e.Submit(context.Background(), member, 1, "https://github.com/org/repo/pull/7")
	require.NoError(t, err)
	require.Equal(t, models.SubmissionPending, sub.Status)
	return sub
}

func TestSubmit_CreatesPending(t *testing.T) {
	e, _ := newTestEngine(t, Policy{})
	sub := submitPending(t, e)
	assert.Equal(t, uint(1), sub.TaskID)
	assert.Equal(t, member.UserID, sub.UserID)
	assert.Nil(t, sub.Note)
}

func TestSubmit_RequiresAuthentication(t *testing.T) {
	e, _ := newTestEngine(t, Policy{})
	_, err := e.Submit(context.Background(), authz.Actor{}, 1, "https://github.com/org/repo/pull/7")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSubmit_RejectsBadURL(t *testing.T) {
	e, _ := newTestEngine(t, Policy{})
	for _, bad := range []string{"", "   ", "ftp://host/x", "github.com/pr/1", "https://"} {
		_, err := e.Submit(context.Background(), member, 1, bad)
		assert.ErrorIs(t, err, ErrValidation, "url %q", bad)
	}
}

func TestSubmit_UnknownTask(t *testing.T) {
	e, _ := newTestEngine(t, Policy{})
	_, err := e.Submit(context.Background(), member, 42, "https://github.com/org/repo/pull/7")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmit_RequireClaimPolicy(t *testing.T) {
	e, _ := newTestEngine(t, Policy{RequireClaim: true})

	_, err := e.Submit(context.Background(), member, 1, "https://github.com/org/repo/pull/7")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = e.Claim(context.Background(), member, 1)
	require.NoError(t, err)

	sub, err := e.Submit(context.Background(), member, 1, "https://github.com/org/repo/pull/7")
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionPending, sub.Status)
}

func TestStartReview_LocksPending(t *testing.T) {
	e, _ := newTestEngine(t, Policy{})
	sub := submitPending(t, e)

	got, err := e.StartReview(context.Background(), reviewer, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionReviewing, got.Status)

	// a second reviewer cannot open it again
	_, err = e.StartReview(context.Background(), admin, sub.ID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestStartReview_RequiresPermission(t *testing.T) {
	e, _ := newTestEngine(t, Policy{})
	sub := submitPending(t, e)
	_, err := e.StartReview(context.Background(), member, sub.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestApprove_FromPendingAndReviewing(t *testing.T) {
	e, _ := newTestEngine(t, Policy{})

	// pending -> approved directly
	sub := submitPending(t, e)
	got, err := e.Approve(context.Background(), reviewer, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionApproved, got.Status)

	// pending -> reviewing -> approved
	sub2 := submitPending(t, e)
	_, err = e.StartReview(context.Background(), reviewer, sub2.ID)
	require.NoError(t, err)
	got2, err := e.Approve(context.Background(), reviewer, sub2.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionApproved, got2.Status)
}

func TestApprove_IdempotentOnApproved(t *testing.T) {
	e, _ := newTestEngine(t, Policy{})
	sub := submitPending(t, e)
	_, err := e.Approve(context.Background(), reviewer, sub.ID)
	require.NoError(t, err)

	got, err := e.Approve(context.Background(), reviewer, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionApproved, got.Status)
}

func TestApprove_RejectedIsTerminal(t *testing.T) {
	e, _ := newTestEngine(t, Policy{})
	sub := submitPending(t, e)
	note := "does not build"
	_, err := e.Reject(context.Background(), reviewer, sub.ID, &note)
	require.NoError(t, err)

	_, err = e.Approve(context.Background(), reviewer, sub.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestReject_StoresNoteVerbatim(t *testing.T) {
	e, _ := newTestEngine(t, Policy{})
	sub := submitPending(t, e)
	note := "  PR touches unrelated files; see comment #3\n"
	got, err := e.Reject(context.Background(), reviewer, sub.ID, &note)
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionRejected, got.Status)
	require.NotNil(t, got.Note)
	assert.Equal(t, note, *got.Note)
}

func TestReject_NilNoteAllowed(t *testing.T) {
	e, _ := newTestEngine(t, Policy{})
	sub := submitPending(t, e)
	got, err := e.Reject(context.Background(), reviewer, sub.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, got.Note)
}

func TestReject_IdempotentKeepsFirstNote(t *testing.T) {
	e, _ := newTestEngine(t, Policy{})
	sub := submitPending(t, e)
	first := "first reason"
	_, err := e.Reject(context.Background(), reviewer, sub.ID, &first)
	require.NoError(t, err)

	second := "second reason"
	got, err := e.Reject(context.Background(), reviewer, sub.ID, &second)
	require.NoError(t, err)
	require.NotNil(t, got.Note)
	assert.Equal(t, first, *got.Note)
}

func TestReject_ApprovedIsTerminal(t *testing.T) {
	e, _ := newTestEngine(t, Policy{})
	sub := submitPending(t, e)
	_, err := e.Approve(context.Background(), reviewer, sub.ID)
	require.NoError(t, err)

	note := "too late"
	_, err = e.Reject(context.Background(), reviewer, sub.ID, &note)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestApprove_ConcurrentReviewersOneWins(t *testing.T) {
	e, _ := newTestEngine(t, Policy{})
	sub := submitPending(t, e)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, errs[i] = e.Approve(context.Background(), reviewer, sub.ID)
			} else {
				note := "no"
				_, errs[i] = e.Reject(context.Background(), reviewer, sub.ID, &note)
			}
		}(i)
	}
	wg.Wait()

	// the submission landed in exactly one terminal state and every loser
	// got a definite answer, not silent overwrite
	final, err := e.Get(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.Contains(t, []string{models.SubmissionApproved, models.SubmissionRejected}, final.Status)
	for _, raceErr := range errs {
		if raceErr != nil {
			assert.True(t, errors.Is(raceErr, ErrConflict) || errors.Is(raceErr, ErrInvalidState),
				"unexpected error: %v", raceErr)
		}
	}
}

func TestClaim_DuplicateFails(t *testing.T) {
	e, _ := newTestEngine(t, Policy{})
	_, err := e.Claim(context.Background(), member, 1)
	require.NoError(t, err)
	_, err = e.Claim(context.Background(), member, 1)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestComplete_RequiresClaim(t *testing.T) {
	e, _ := newTestEngine(t, Policy{})
	_, err := e.Complete(context.Background(), member, 1)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestComplete_Idempotent(t *testing.T) {
	e, _ := newTestEngine(t, Policy{})
	_, err := e.Claim(context.Background(), member, 1)
	require.NoError(t, err)

	claim, err := e.Complete(context.Background(), member, 1)
	require.NoError(t, err)
	assert.Equal(t, models.ClaimStatusCompleted, claim.Status)

	again, err := e.Complete(context.Background(), member, 1)
	require.NoError(t, err)
	assert.Equal(t, models.ClaimStatusCompleted, again.Status)
}

func TestListByTask_FilterAndPaging(t *testing.T) {
	e, _ := newTestEngine(t, Policy{})
	for i := 0; i < 5; i++ {
		submitPending(t, e)
	}
	sub := submitPending(t, e)
	_, err := e.Approve(context.Background(), reviewer, sub.ID)
	require.NoError(t, err)

	page, err := e.ListByTask(context.Background(), 1, 1, 4, "")
	require.NoError(t, err)
	assert.Len(t, page.Data, 4)
	assert.Equal(t, int64(6), page.Total)
	assert.Equal(t, 2, page.TotalPages)

	approved, err := e.ListByTask(context.Background(), 1, 1, 10, models.SubmissionApproved)
	require.NoError(t, err)
	assert.Len(t, approved.Data, 1)

	_, err = e.ListByTask(context.Background(), 1, 1, 10, "bogus")
	assert.ErrorIs(t, err, ErrValidation)
}

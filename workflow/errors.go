package workflow

import "errors"

// Error taxonomy for workflow operations. Handlers map these onto HTTP
// statuses and reason codes; nothing else should be surfaced to callers.
var (
	// ErrUnauthorized means the actor lacks the permission for the action.
	ErrUnauthorized = errors.New("insufficient permission")

	// ErrInvalidState means the requested transition is not legal from the
	// submission's current status. Callers must refresh and must not retry.
	ErrInvalidState = errors.New("transition not allowed from current status")

	// ErrConflict means a compare-and-set lost a race with a concurrent
	// reviewer. Callers should refetch and may retry the action.
	ErrConflict = errors.New("submission was modified concurrently")

	// ErrValidation covers malformed input: empty or non-URL pr_url,
	// missing task reference, duplicate claim.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound means the referenced task or submission does not exist.
	ErrNotFound = errors.New("not found")
)

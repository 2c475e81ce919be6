// Package authz decides whether an actor may perform a lifecycle action.
// It is a pure predicate over the actor context extracted from the JWT;
// it never touches storage and has no side effects.
package authz

// Action keys. These match the perm_key values seeded in the permissions
// table; the frontend gates its buttons on the same strings.
const (
	ActionTaskCreate       = "task:create"
	ActionTaskUpdate       = "task:update"
	ActionTaskDelete       = "task:delete"
	ActionSubmissionReview = "submission:review"
	ActionSubmissionSettle = "submission:settle"

	// ActionUserManage is deliberately never seeded as a permission row, so
	// only the admin role bypass grants it.
	ActionUserManage = "user:manage"
)

const RoleAdmin = "admin"

// Actor is the authenticated caller. Populated by the auth middleware from
// token claims; workflow operations take it explicitly instead of reading
// any ambient session state.
type Actor struct {
	UserID      uint
	Username    string
	Roles       []string
	Permissions []string
}

// Resource describes what the action targets. Currently only used for
// logging and future per-resource policies; the policy itself is global.
type Resource struct {
	Kind string
	ID   uint
}

// CanPerform reports whether the actor may perform the action. An actor
// holding the admin role is authorized for every action; otherwise the
// action key must appear in the actor's permission set.
func CanPerform(actor Actor, action string, _ Resource) bool {
	for _, r := range actor.Roles {
		if r == RoleAdmin {
			return true
		}
	}
	for _, p := range actor.Permissions {
		if p == action {
			return true
		}
	}
	return false
}

// IsAuthenticated reports whether the actor carries a real user identity.
// Claim, complete and submit require only this, not a specific permission.
func (a Actor) IsAuthenticated() bool {
	return a.UserID != 0
}

package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanPerform_AdminBypassesPermissions(t *testing.T) {
	actor := Actor{UserID: 1, Roles: []string{RoleAdmin}}
	assert.True(t, CanPerform(actor, ActionSubmissionReview, Resource{}))
	assert.True(t, CanPerform(actor, ActionSubmissionSettle, Resource{}))
	assert.True(t, CanPerform(actor, ActionTaskDelete, Resource{}))
	assert.True(t, CanPerform(actor, ActionUserManage, Resource{}))
}

func TestCanPerform_PermissionMatch(t *testing.T) {
	actor := Actor{
		UserID:      2,
		Roles:       []string{"reviewer"},
		Permissions: []string{ActionSubmissionReview},
	}
	assert.True(t, CanPerform(actor, ActionSubmissionReview, Resource{Kind: "submission", ID: 9}))
	assert.False(t, CanPerform(actor, ActionSubmissionSettle, Resource{}))
	assert.False(t, CanPerform(actor, ActionTaskCreate, Resource{}))
}

func TestCanPerform_NoRolesNoPermissions(t *testing.T) {
	actor := Actor{UserID: 3}
	assert.False(t, CanPerform(actor, ActionSubmissionReview, Resource{}))
}

func TestCanPerform_RoleNameIsNotAPermission(t *testing.T) {
	// holding a role whose key equals the action string grants nothing
	actor := Actor{UserID: 4, Roles: []string{ActionSubmissionReview}}
	assert.False(t, CanPerform(actor, ActionSubmissionReview, Resource{}))
}

func TestIsAuthenticated(t *testing.T) {
	assert.False(t, Actor{}.IsAuthenticated())
	assert.True(t, Actor{UserID: 1}.IsAuthenticated())
}

package middleware

import (
	"net/http"

	"github.com/zhiming817/learn2earn/authz"
	"github.com/zhiming817/learn2earn/utils"
)

// RequirePermission gates a route behind a single action key. Actors holding
// the admin role pass regardless of their permission set.
func RequirePermission(action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := utils.GetActor(r)
			if !ok {
				utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
					Success: false,
					Message: "Unauthorized",
					Code:    utils.CodeUnauthorized,
				})
				return
			}
			if !authz.CanPerform(actor, action, authz.Resource{}) {
				utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{
					Success: false,
					Message: "Forbidden: missing permission " + action,
					Code:    utils.CodeUnauthorized,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/zhiming817/learn2earn/utils"
)

// AuthMiddleware validates the Bearer token and puts the resolved actor
// (user id, roles, permission keys) into the request context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
				Success: false,
				Message: "Unauthorized: No token provided",
				Code:    utils.CodeUnauthorized,
			})
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		// Centralized validation checks signature, aud/iss/exp/nbf and jti revocation.
		_, claims, err := utils.ValidateAccessToken(tokenString)
		if err != nil {
			msg := "Unauthorized: Invalid token"
			if strings.Contains(err.Error(), "expired") {
				msg = "Session expired, please log in again"
			}
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
				Success: false,
				Message: msg,
				Code:    utils.CodeUnauthorized,
			})
			return
		}

		actor := utils.ActorFromClaims(claims)
		if !actor.IsAuthenticated() {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
				Success: false,
				Message: "Unauthorized: Invalid token subject",
				Code:    utils.CodeUnauthorized,
			})
			return
		}

		ctx := context.WithValue(r.Context(), utils.ActorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

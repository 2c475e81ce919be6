package routes

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/zhiming817/learn2earn/controllers/auth"
	"github.com/zhiming817/learn2earn/controllers/users"
	"github.com/zhiming817/learn2earn/middleware"
)

// UsersRoutes mounts the public auth endpoints and the authenticated user
// surface: task catalog, claims and submissions.
func UsersRoutes(api *mux.Router) {
	// login endpoints are IP limited, everything else per user
	authLimiter := middleware.NewIPRateLimiter(50, time.Minute)
	userLimiter := middleware.NewUserRateLimiter(100, 30, 60)

	api.Handle("/auth/login", authLimiter.Middleware(http.HandlerFunc(auth.LoginHandler))).Methods(http.MethodPost)
	api.Handle("/auth/refresh", authLimiter.Middleware(http.HandlerFunc(auth.RefreshHandler))).Methods(http.MethodPost)
	api.Handle("/auth/logout", http.HandlerFunc(auth.LogoutHandler)).Methods(http.MethodPost)
	api.Handle("/auth/profile", middleware.AuthMiddleware(http.HandlerFunc(auth.ProfileHandler))).Methods(http.MethodGet)

	protect := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(userLimiter.Middleware(h))
	}

	api.Handle("/tasks", protect(users.TaskListHandler)).Methods(http.MethodGet)
	api.Handle("/tasks/all", protect(users.TaskListAllHandler)).Methods(http.MethodGet)
	api.Handle("/tasks/{id:[0-9]+}", protect(users.TaskDetailHandler)).Methods(http.MethodGet)
	api.Handle("/tasks/{id:[0-9]+}/claim", protect(users.ClaimTaskHandler)).Methods(http.MethodPost)
	api.Handle("/tasks/{id:[0-9]+}/complete", protect(users.CompleteTaskHandler)).Methods(http.MethodPost)
	api.Handle("/tasks/{id:[0-9]+}/submissions", protect(users.TaskSubmissionsHandler)).Methods(http.MethodGet)

	api.Handle("/submissions", protect(users.SubmitHandler)).Methods(http.MethodPost)
	api.Handle("/submissions/{id:[0-9]+}", protect(users.SubmissionDetailHandler)).Methods(http.MethodGet)
}

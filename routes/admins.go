package routes

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/zhiming817/learn2earn/authz"
	"github.com/zhiming817/learn2earn/controllers/admins"
	"github.com/zhiming817/learn2earn/middleware"
)

// AdminRoutes mounts the permission-gated management surface: task CRUD,
// user administration, submission review and settlement.
func AdminRoutes(api *mux.Router) {
	adminLimiter := middleware.NewIPRateLimiter(300, time.Minute)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(adminLimiter.Middleware)
	admin.Use(middleware.AuthMiddleware)

	gate := func(action string, h http.HandlerFunc) http.Handler {
		return middleware.RequirePermission(action)(h)
	}

	// user administration is admin-role only; ActionUserManage has no
	// standalone permission row, so only the admin bypass opens it
	admin.Handle("/users", gate(authz.ActionUserManage, admins.CreateUserHandler)).Methods(http.MethodPost)
	admin.Handle("/users", gate(authz.ActionUserManage, admins.UserListHandler)).Methods(http.MethodGet)

	admin.Handle("/tasks", gate(authz.ActionTaskCreate, admins.CreateTaskHandler)).Methods(http.MethodPost)
	admin.Handle("/tasks", gate(authz.ActionSubmissionReview, admins.TaskListHandler)).Methods(http.MethodGet)
	admin.Handle("/tasks/{id:[0-9]+}", gate(authz.ActionTaskUpdate, admins.UpdateTaskHandler)).Methods(http.MethodPut)
	admin.Handle("/tasks/{id:[0-9]+}", gate(authz.ActionTaskDelete, admins.DeleteTaskHandler)).Methods(http.MethodDelete)

	admin.Handle("/tasks/{id:[0-9]+}/submissions", gate(authz.ActionSubmissionReview, admins.TaskSubmissionsHandler)).Methods(http.MethodGet)
	admin.Handle("/submissions/{id:[0-9]+}/review", gate(authz.ActionSubmissionReview, admins.StartReviewHandler)).Methods(http.MethodPost)
	admin.Handle("/submissions/{id:[0-9]+}/approve", gate(authz.ActionSubmissionReview, admins.ApproveHandler)).Methods(http.MethodPost)
	admin.Handle("/submissions/{id:[0-9]+}/reject", gate(authz.ActionSubmissionReview, admins.RejectHandler)).Methods(http.MethodPost)

	admin.Handle("/submissions/{id:[0-9]+}/settle", gate(authz.ActionSubmissionSettle, admins.SettleHandler)).Methods(http.MethodPost)
	admin.Handle("/submissions/{id:[0-9]+}/payouts", gate(authz.ActionSubmissionSettle, admins.PayoutHistoryHandler)).Methods(http.MethodGet)
}

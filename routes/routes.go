package routes

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/zhiming817/learn2earn/controllers/admins"
	"github.com/zhiming817/learn2earn/controllers/users"
	"github.com/zhiming817/learn2earn/database"
	"github.com/zhiming817/learn2earn/models"
	"github.com/zhiming817/learn2earn/settlement"
	"github.com/zhiming817/learn2earn/workflow"
)

func optionsHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"service":   "learn2earn-api",
	})
}

// loadPolicy reads the workflow knobs from the settings table. Missing
// settings fall back to the permissive defaults.
func loadPolicy() workflow.Policy {
	policy := workflow.Policy{}
	if database.DB == nil {
		return policy
	}
	sqlDB, err := database.DB.DB()
	if err != nil {
		return policy
	}
	setting, err := models.GetSetting(sqlDB)
	if err != nil {
		return policy
	}
	policy.RequireClaim = setting.RequireClaim
	return policy
}

func InitRouter() *mux.Router {
	r := mux.NewRouter()

	// Health check endpoint for Docker health checks (root level)
	r.Handle("/health", http.HandlerFunc(healthHandler)).Methods(http.MethodGet)

	// CORS origins from CORS_ALLOWED_ORIGINS (comma-separated) or defaults
	originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	origins := []string{
		"http://localhost:3000", "http://localhost:5173", "http://127.0.0.1:3000", "http://127.0.0.1:5173",
	}
	if originsEnv != "" {
		for _, p := range strings.Split(originsEnv, ",") {
			if o := strings.TrimSpace(p); o != "" {
				origins = append(origins, o)
			}
		}
	}
	r.Use(func(next http.Handler) http.Handler {
		return handlers.CORS(
			handlers.AllowedOrigins(origins),
			handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}),
			handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Requested-With", "X-Request-ID"}),
			handlers.AllowCredentials(),
		)(next)
	})

	api := r.PathPrefix("/api").Subrouter()

	// catch-all OPTIONS handler for CORS preflight
	api.PathPrefix("/").HandlerFunc(optionsHandler).Methods(http.MethodOptions)

	api.Handle("/health", http.HandlerFunc(healthHandler)).Methods(http.MethodGet)

	// Domain wiring: one engine and one coordinator shared by all handlers.
	store := workflow.NewGormStore(database.DB)
	engine := workflow.NewEngine(store, loadPolicy())
	wallet := settlement.NewSuiWalletFromEnv()
	coordinator := settlement.NewCoordinator(
		store,
		settlement.NewGormPayoutStore(database.DB),
		wallet,
		wallet.OperatorAddress(),
	)
	users.Init(engine)
	admins.Init(engine, coordinator)

	UsersRoutes(api)
	AdminRoutes(api)

	return r
}

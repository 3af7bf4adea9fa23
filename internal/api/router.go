package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/kanbanlab/goban/internal/api/dto"
	"github.com/kanbanlab/goban/internal/api/handlers"
	"github.com/kanbanlab/goban/internal/api/middleware"
	"github.com/kanbanlab/goban/internal/auth"
	"github.com/kanbanlab/goban/internal/perms"
	"github.com/kanbanlab/goban/internal/repository"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB             *gorm.DB
	Logger         *slog.Logger
	JWTService     *auth.JWTService
	AuthService    *auth.Service
	AllowedOrigins []string // CORS allowed origins
	RateLimitReqs  int      // Rate limit requests per window
	RateLimitSecs  int      // Rate limit window in seconds
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	// Rate limiting - applied globally to prevent abuse
	if cfg.RateLimitReqs > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitReqs, cfg.RateLimitSecs))
	}

	// CORS - restrict to configured origins, or allow all in development
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		// Default to localhost for development - configure in production
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Location", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Unmatched routes still answer with the error envelope
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Initialize repositories and services
	boardRepo := repository.NewBoardRepository(cfg.DB)
	columnRepo := repository.NewColumnRepository(cfg.DB)
	taskRepo := repository.NewTaskRepository(cfg.DB)
	grantRepo := repository.NewGrantRepository(cfg.DB)
	userRepo := repository.NewUserRepository(cfg.DB)

	permsService := perms.NewService(grantRepo, boardRepo, userRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB)
	authHandler := handlers.NewAuthHandler(cfg.AuthService)
	boardHandler := handlers.NewBoardHandler(boardRepo, permsService)
	columnHandler := handlers.NewColumnHandler(columnRepo, boardRepo, permsService)
	taskHandler := handlers.NewTaskHandler(taskRepo, columnRepo, boardRepo, permsService)
	permissionHandler := handlers.NewPermissionHandler(permsService)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Public auth endpoints
	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/login", authHandler.Login)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTService))

		r.Get("/permissions", permissionHandler.Catalog)

		r.Route("/boards", func(r chi.Router) {
			r.Get("/", boardHandler.List)
			r.Post("/", boardHandler.Create)

			r.Route("/{boardId}", func(r chi.Router) {
				r.Get("/", boardHandler.Get)
				r.Patch("/", boardHandler.Update)
				r.Delete("/", boardHandler.Delete)

				r.Route("/columns", func(r chi.Router) {
					r.Get("/", columnHandler.List)
					r.Post("/", columnHandler.Create)
					r.Get("/{columnId}", columnHandler.Get)
					r.Patch("/{columnId}", columnHandler.Update)
					r.Delete("/{columnId}", columnHandler.Delete)
				})

				r.Route("/tasks", func(r chi.Router) {
					r.Get("/", taskHandler.List)
					r.Post("/", taskHandler.Create)
					r.Get("/{taskId}", taskHandler.Get)
					r.Patch("/{taskId}", taskHandler.Update)
					r.Delete("/{taskId}", taskHandler.Delete)
				})

				r.Route("/permissions/{userId}", func(r chi.Router) {
					r.Get("/", permissionHandler.ListGrants)
					r.Put("/", permissionHandler.ReplaceGrants)
					r.Delete("/", permissionHandler.ClearGrants)
				})
			})
		})
	})

	return &Router{r}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Status: status, Message: message})
}

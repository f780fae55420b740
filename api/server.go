/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:      Unique ID per request for tracing
  2. RequestLogger:  httplog access log, ECS field names
  3. Logger context: Puts the service logger in the request context
  4. CleanPath:      Normalizes double slashes
  5. Recoverer:      Panic recovery (500 instead of crash)
  6. Heartbeat:      GET /healthz for load balancers
  7. CORS:           Cross-origin requests for the frontend

ROUTE GROUPS:
  /api/timeoff/*        Authenticated; /admin/* additionally ADMIN or HR
  /api/employees/*      ADMIN or HR
  /api/scenarios/*      ADMIN, only with EnableScenarios

SEE ALSO:
  - handlers.go: Handler implementations
  - auth.go: Token verification and role checks
  - cmd/server/serve.go: Server startup
*/
package api

import (
	"log/slog"
	"net/http"

	"github.com/dayflow/hr-engine/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	Logger          *slog.Logger
	Auth            *Auth
	AllowedOrigins  []string
	EnableScenarios bool
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:8080"}
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logging.WithContext(r.Context(), logger.With(
				slog.String("request_id", middleware.GetReqID(r.Context()))))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	r.Use(middleware.CleanPath)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/healthz"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(jwtauth.Verifier(opts.Auth.JWTAuth()))
		r.Use(Authenticate)

		// Time-off routes
		r.Route("/timeoff", func(r chi.Router) {
			r.Get("/me", h.GetMyTimeOff)
			r.Post("/me", h.CreateTimeOff)
			r.Get("/types", h.ListTypes)

			r.Route("/admin", func(r chi.Router) {
				r.Use(RequireAdminOrHR)
				r.Get("/", h.ListAllTimeOff)
				r.Post("/{id}/approve", h.ApproveTimeOff)
				r.Post("/{id}/reject", h.RejectTimeOff)
				r.Get("/balances/{employeeId}", h.GetEmployeeBalances)
				r.Post("/balances/{employeeId}/initialize", h.InitializeEmployeeBalances)
			})
		})

		// Employee and salary routes
		r.Route("/employees", func(r chi.Router) {
			r.Use(RequireAdminOrHR)
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Get("/{id}/salary", h.GetSalary)
			r.Put("/{id}/salary", h.UpdateSalary)
		})

		// Scenario routes
		if opts.EnableScenarios {
			r.Route("/scenarios", func(r chi.Router) {
				r.Use(RequireAdmin)
				r.Get("/", h.ListScenarios)
				r.Post("/load", h.LoadScenario)
			})
		}
	})

	return r
}

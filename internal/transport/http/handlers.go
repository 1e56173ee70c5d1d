// @title Mortian API
// @version 1.0.0
// @description Multi-tenant construction project and finance management
// @BasePath /api/v1

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name mortian_session

package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/audit"
	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/finance"
	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/identity"
	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/observability/metrics"
	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/project"
	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/rbac"
	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/session"
	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/team"
	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/tenant"
)

// Handler holds HTTP handlers and dependencies
type Handler struct {
	identityService *identity.Service
	sessionService  *session.Service
	tenantService   *tenant.Service
	projectService  *project.Service
	financeService  *finance.Service
	teamService     *team.Service
	auditRepo       audit.Repository
	auditLogger     audit.Logger
	tokens          *identity.TokenIssuer
	counters        *metrics.DomainCounters
	sessionConfig   SessionConfig
}

// SessionConfig holds session cookie configuration
type SessionConfig struct {
	CookieName     string
	CookieDomain   string
	CookiePath     string
	CookieSecure   bool
	CookieHTTPOnly bool
	CookieSameSite http.SameSite
}

// NewHandler creates a new HTTP handler
func NewHandler(
	identityService *identity.Service,
	sessionService *session.Service,
	tenantService *tenant.Service,
	projectService *project.Service,
	financeService *finance.Service,
	teamService *team.Service,
	auditRepo audit.Repository,
	auditLogger audit.Logger,
	tokens *identity.TokenIssuer,
	counters *metrics.DomainCounters,
	sessionConfig SessionConfig,
) *Handler {
	return &Handler{
		identityService: identityService,
		sessionService:  sessionService,
		tenantService:   tenantService,
		projectService:  projectService,
		financeService:  financeService,
		teamService:     teamService,
		auditRepo:       auditRepo,
		auditLogger:     auditLogger,
		tokens:          tokens,
		counters:        counters,
		sessionConfig:   sessionConfig,
	}
}

// NewRouter creates a new HTTP router
func NewRouter(h *Handler, rateLimiter *RateLimiter) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(RateLimitMiddleware(rateLimiter))
	r.Use(func(handler http.Handler) http.Handler {
		return otelhttp.NewHandler(handler, "http_request",
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	})
	r.Use(LoggingMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check
	r.Get("/health", h.HealthCheck)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/login", h.Login)
		r.Post("/auth/token", h.Token)

		// Protected routes (FAIL-CLOSED)
		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)
			r.Use(h.CSRFMiddleware)

			r.Post("/auth/logout", h.Logout)
			r.Get("/auth/me", h.GetCurrentUser)

			// User profile
			r.Put("/user/profile", h.UpdateProfile)
			r.Post("/user/change-password", h.ChangePassword)

			// Tenant administration
			r.Route("/tenants", func(r chi.Router) {
				r.Use(h.RequirePermission(rbac.PermTenantManage))
				r.Post("/", h.CreateTenant)
				r.Get("/", h.ListTenants)
				r.Get("/{tenantID}", h.GetTenant)
			})

			// User and role management within the caller's tenant
			r.Route("/users", func(r chi.Router) {
				r.Use(h.RequirePermission(rbac.PermUserManage))
				r.Post("/", h.ProvisionUser)
				r.Get("/", h.ListUsers)
				r.Post("/{userID}/role", h.AssignRole)
				r.Delete("/{userID}/role", h.RevokeRole)
			})

			// Projects and budgets
			r.Route("/projects", func(r chi.Router) {
				r.Get("/", h.ListProjects)
				r.With(h.RequirePermission(rbac.PermProjectCreation)).Post("/", h.CreateProject)

				r.Route("/{projectID}", func(r chi.Router) {
					r.Get("/", h.GetProject)
					r.With(h.RequirePermission(rbac.PermProjectEdit)).Put("/", h.UpdateProject)
					r.With(h.RequirePermission(rbac.PermProjectDelete)).Delete("/", h.DeleteProject)

					r.Get("/budget", h.GetBudget)
					r.With(h.RequirePermission(rbac.PermBudgetManage)).Put("/budget", h.SetBudget)

					r.Get("/allocations", h.ListAllocations)
					r.Get("/summary", h.GetSpendSummary)
				})
			})

			// Fund allocations
			r.Route("/allocations", func(r chi.Router) {
				r.Use(h.RequirePermission(rbac.PermFundAllocation))
				r.Post("/", h.CreateAllocation)
				r.Delete("/{allocationID}", h.RevokeAllocation)
			})

			// Transactions
			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", h.ListTransactions)
				r.With(h.RequirePermission(rbac.PermTransactionCreate)).Post("/", h.CreateTransaction)
				r.With(h.RequirePermission(rbac.PermTransactionDelete)).Delete("/{transactionID}", h.DeleteTransaction)
			})

			// Teams
			r.Route("/teams", func(r chi.Router) {
				r.Get("/", h.ListTeams)
				r.With(h.RequirePermission(rbac.PermTeamManage)).Post("/", h.CreateTeam)

				r.Route("/{teamID}", func(r chi.Router) {
					r.Get("/", h.GetTeam)
					r.With(h.RequirePermission(rbac.PermTeamManage)).Delete("/", h.DeleteTeam)

					r.Get("/members", h.ListTeamMembers)
					r.With(h.RequirePermission(rbac.PermTeamManage)).Post("/members", h.AddTeamMember)
					r.With(h.RequirePermission(rbac.PermTeamManage)).Delete("/members/{userID}", h.RemoveTeamMember)
				})
			})

			// Materials catalog
			r.Route("/materials", func(r chi.Router) {
				r.Get("/", h.ListMaterials)
				r.With(h.RequirePermission(rbac.PermMaterialManage)).Post("/", h.CreateMaterial)
				r.With(h.RequirePermission(rbac.PermMaterialManage)).Delete("/{materialID}", h.DeleteMaterial)
			})

			// CSV export and import
			r.Route("/export", func(r chi.Router) {
				r.Use(h.RequirePermission(rbac.PermCSVExport))
				r.Get("/projects.csv", h.ExportProjects)
				r.Get("/transactions.csv", h.ExportTransactions)
				r.Get("/allocations.csv", h.ExportAllocations)
				r.Get("/materials.csv", h.ExportMaterials)
			})
			r.With(h.RequirePermission(rbac.PermCSVImport)).Post("/import/transactions", h.ImportTransactions)

			// Audit trail
			r.With(h.RequirePermission(rbac.PermAuditView)).Get("/audit", h.ListAuditEvents)
		})
	})

	return r
}

// HealthCheck returns the health status
// @Summary Health Check
// @Description Checks if the service is up and running
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "mortian",
	})
}

// Cookie helpers
func (h *Handler) setSessionCookie(w http.ResponseWriter, sessionID string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.sessionConfig.CookieName,
		Value:    sessionID,
		Path:     h.sessionConfig.CookiePath,
		Domain:   h.sessionConfig.CookieDomain,
		Secure:   h.sessionConfig.CookieSecure,
		HttpOnly: h.sessionConfig.CookieHTTPOnly,
		SameSite: h.sessionConfig.CookieSameSite,
		MaxAge:   maxAge,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   h.sessionConfig.CookieName,
		Value:  "",
		Path:   h.sessionConfig.CookiePath,
		Domain: h.sessionConfig.CookieDomain,
		MaxAge: -1,
	})
}

func (h *Handler) getSessionFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(h.sessionConfig.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

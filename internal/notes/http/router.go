package http

import (
	"log/slog"
	"net/http"

	"github.com/harborview/notesvc/internal/notes/domain"
	"github.com/harborview/notesvc/internal/notes/service"
	"github.com/harborview/notesvc/internal/notes/store"
	"github.com/harborview/notesvc/pkg/httpx"
	"github.com/harborview/notesvc/pkg/jwtx"
	"github.com/harborview/notesvc/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier jwtx.Verifier
	baseURL  string
	logger   *slog.Logger

	store         store.Store
	AuthService   *service.AuthService
	InviteService *service.InviteService
	NoteService   *service.NoteService
	TenantService *service.TenantService
}

func NewRouter(verifier jwtx.Verifier, baseURL string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:      http.NewServeMux(),
		verifier: verifier,
		baseURL:  baseURL,
		store:    st,
		logger:   logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerInvites()
	r.registerNotes()
	r.registerTenant()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /api/auth/login - strict rate limit by IP (authentication attempts)
	loginHandler := &LoginHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /api/auth/register - strict rate limit by IP (public signup)
	registerHandler := &RegisterHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /api/auth/register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerInvites() {
	createHandler := &InviteCreateHandler{
		InviteService: r.InviteService,
		BaseURL:       r.baseURL,
	}
	listHandler := &InviteListHandler{InviteService: r.InviteService}
	acceptHandler := &InviteAcceptHandler{InviteService: r.InviteService}

	// POST /api/invite - admin only, moderate rate limit by user
	securedCreate := httpx.Chain(createHandler,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireRole(string(domain.RoleAdmin)),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)
	r.Mux.Handle("POST /api/invite", securedCreate)

	// GET /api/invitations - admin only, lenient rate limit by user
	securedList := httpx.Chain(listHandler,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireRole(string(domain.RoleAdmin)),
		httpx.RateLimitByUser(httpx.LenientLimit),
	)
	r.Mux.Handle("GET /api/invitations", securedList)

	// POST /api/accept/{token} - strict rate limit by IP (public signup
	// endpoint, tokens must not be guessable by brute force)
	r.Mux.Handle("POST /api/accept/{token}",
		httpx.Chain(acceptHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerNotes() {
	h := &NotesHandler{NoteService: r.NoteService}

	secured := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		)
	}

	r.Mux.Handle("POST /api/notes", secured(h.HandleCreate))
	r.Mux.Handle("GET /api/notes", secured(h.HandleList))
	r.Mux.Handle("GET /api/notes/{id}", secured(h.HandleGet))
	r.Mux.Handle("PUT /api/notes/{id}", secured(h.HandleUpdate))
	r.Mux.Handle("DELETE /api/notes/{id}", secured(h.HandleDelete))
}

func (r *Router) registerTenant() {
	h := &TenantHandler{TenantService: r.TenantService}

	// GET /api/tenant/info - any authenticated member
	r.Mux.Handle("GET /api/tenant/info",
		httpx.Chain(http.HandlerFunc(h.HandleInfo),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// Upgrade and user listing are admin operations.
	securedUpgrade := httpx.Chain(http.HandlerFunc(h.HandleUpgrade),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireRole(string(domain.RoleAdmin)),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)
	r.Mux.Handle("POST /api/tenant/upgrade", securedUpgrade)

	securedUpgradeBySlug := httpx.Chain(http.HandlerFunc(h.HandleUpgradeBySlug),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireRole(string(domain.RoleAdmin)),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)
	r.Mux.Handle("POST /tenants/{slug}/upgrade", securedUpgradeBySlug)

	securedUsers := httpx.Chain(http.HandlerFunc(h.HandleUsers),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireRole(string(domain.RoleAdmin)),
		httpx.RateLimitByUser(httpx.LenientLimit),
	)
	r.Mux.Handle("GET /api/tenant/users", securedUsers)
}

func (r *Router) registerSystem() {
	// Health check endpoint - lenient rate limit (monitoring systems may
	// poll frequently)
	r.Mux.Handle("GET /health",
		httpx.Chain(HealthHandler(r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// Anything not matched above is an unknown route.
	r.Mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(w, http.StatusNotFound, "Route not found")
	})
}

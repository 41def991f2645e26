package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/editauth/internal/editauth/service"
	"github.com/aussiebroadwan/editauth/pkg/httpx"
	"github.com/aussiebroadwan/editauth/pkg/jwtx"
	"github.com/aussiebroadwan/editauth/pkg/slogx"

	_ "github.com/aussiebroadwan/editauth/api/editauth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	signer        jwtx.Signer
	verifier      jwtx.Verifier
	userHeader    string
	permissionURL string
	buildVersion  string
	startTime     time.Time
	logger        *slog.Logger

	TokenService *service.TokenService
}

func NewRouter(
	signer jwtx.Signer,
	verifier jwtx.Verifier,
	userHeader, permissionURL, buildVersion string,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		signer:        signer,
		verifier:      verifier,
		userHeader:    userHeader,
		permissionURL: permissionURL,
		buildVersion:  buildVersion,
		startTime:     time.Now(),
		logger:        logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Edit Token Service API
//	@version		0.1.0
//	@description	Issues short-lived HS256 edit tokens for records, after the metadata service confirms the caller may update them.
//	@description
//	@description	The caller's identity is taken from a header set by the SSO proxy in front of the service.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/editauth
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	RemoteUser
//	@in							header
//	@name						X-Remote-User
//	@description				Authenticated user id, set by the SSO proxy.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	identity := httpx.TrustedIdentity(r.userHeader)

	// GET /auth/_perm/{recordId} - moderate limit by user, every request
	// costs a call to the metadata service
	tokenHandler := &EditTokenHandler{TokenService: r.TokenService}
	r.Mux.Handle("GET /auth/_perm/{recordId...}",
		httpx.Chain(tokenHandler,
			identity,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// GET /auth/username - lenient limit by user
	r.Mux.Handle("GET /auth/username",
		httpx.Chain(UsernameHandler(),
			identity,
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// POST /auth/introspect - called by resource servers, limited by IP
	introspectHandler := &IntrospectHandler{Verifier: r.verifier}
	r.Mux.Handle("POST /auth/introspect",
		httpx.Chain(introspectHandler,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.signer, r.permissionURL),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

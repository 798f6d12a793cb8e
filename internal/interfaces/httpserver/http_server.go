package httpserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/daosail/daosail-server/internal/config"
	"github.com/daosail/daosail-server/internal/domain/profile"
	"github.com/daosail/daosail-server/internal/domain/user"
	"github.com/daosail/daosail-server/internal/infrastructure"
	middleware "github.com/daosail/daosail-server/internal/interfaces/httpserver/middlewares"
	v1 "github.com/daosail/daosail-server/internal/interfaces/httpserver/routes/v1"
)

type HTTPServer struct {
	engine   *gin.Engine
	infra    *infrastructure.Infrastructure
	v1Route  *v1.V1Route
	users    *user.Service
	profiles *profile.Service
	config   *config.Config
}

func NewHTTPServer(
	v1Route *v1.V1Route,
	infra *infrastructure.Infrastructure,
	users *user.Service,
	profiles *profile.Service,
	cfg *config.Config,
) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)
	server := &HTTPServer{
		engine:   gin.New(),
		infra:    infra,
		v1Route:  v1Route,
		users:    users,
		profiles: profiles,
		config:   cfg,
	}
	server.engine.Use(middleware.RequestID())
	server.engine.Use(middleware.TracingMiddleware(cfg.ServiceName))
	server.engine.Use(middleware.LoggingMiddleware(infra.Logger))
	server.engine.Use(middleware.MetricsMiddleware())
	server.engine.Use(middleware.CORSMiddleware())

	// Root health checks for orchestrators
	server.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	server.engine.GET("/readyz", func(c *gin.Context) {
		if !infra.Validator.Ready() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if cfg.EnableSwagger {
		server.bindSwagger()
	}
	return server
}

func (s *HTTPServer) bindSwagger() {
	g := s.engine.Group("/")
	g.GET("/api/swagger/*any", func(c *gin.Context) {
		if c.Param("any") == "/doc.json" {
			ServeOpenAPISpec()(c)
			return
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler)(c)
	})
}

func (s *HTTPServer) Run() error {
	// Open endpoints: guests pass with X-Guest-ID, members with a token.
	public := s.engine.Group("/")
	public.Use(middleware.OptionalAuthMiddleware(s.infra.Validator, s.users, s.profiles, s.infra.Logger))

	// Member-only endpoints.
	protected := s.engine.Group("/")
	protected.Use(middleware.AuthMiddleware(s.infra.Validator, s.users, s.profiles, s.infra.Logger))

	s.v1Route.RegisterPublicRouter(public)
	s.v1Route.RegisterRouter(protected)

	return s.engine.Run(fmt.Sprintf(":%d", s.config.HTTPPort))
}

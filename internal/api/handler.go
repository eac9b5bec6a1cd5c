package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/angelolockdev/trading-signals-generator/internal/events"
	"github.com/angelolockdev/trading-signals-generator/internal/price"
	"github.com/angelolockdev/trading-signals-generator/internal/refresh"
	"github.com/angelolockdev/trading-signals-generator/internal/store"
	"github.com/angelolockdev/trading-signals-generator/pkg/db"
)

// Server wires HTTP endpoints around the store, price source and event bus.
type Server struct {
	Router    *gin.Engine
	Bus       *events.Bus
	DB        *db.Database
	Store     *store.Store
	Source    *price.Source
	Refresher *refresh.Orchestrator
	JWTSecret string
	Meta      SystemMeta
}

// SystemMeta describes runtime status exposed to the UI.
type SystemMeta struct {
	Symbol  string
	Version string
}

func NewServer(bus *events.Bus, database *db.Database, signals *store.Store, source *price.Source, refresher *refresh.Orchestrator, meta SystemMeta, jwtSecret string) *Server {
	r := gin.New()

	// Middleware stack (order matters!)
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(RequestLogger())
	r.Use(RateLimitMiddleware())
	r.Use(CORSMiddleware())

	s := &Server{
		Router:    r,
		Bus:       bus,
		DB:        database,
		Store:     signals,
		Source:    source,
		Refresher: refresher,
		JWTSecret: jwtSecret,
		Meta:      meta,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.GET("/health", s.health)
	s.Router.GET("/ws", s.websocket)

	// The websocket stream stays open far longer than any request deadline,
	// so the timeout guard covers only the plain HTTP API.
	api := s.Router.Group("/api")
	api.Use(TimeoutMiddleware(30 * time.Second))
	{
		// Auth endpoints (no auth required)
		auth := api.Group("/auth")
		{
			auth.POST("/register", s.registerUser)
			auth.POST("/login", s.loginUser)
		}

		// Protected API
		protected := api.Group("")
		protected.Use(AuthMiddleware(s.JWTSecret))
		{
			protected.GET("/signals", s.listSignals)
			protected.POST("/signals", s.createSignal)
			protected.POST("/signals/levels", s.previewLevels)
			protected.GET("/signals/:id", s.getSignal)
			protected.PUT("/signals/:id", s.updateSignal)
			protected.DELETE("/signals/:id", s.deleteSignal)
			protected.GET("/signals/:id/share", s.shareSignal)

			protected.GET("/stats", s.getStats)
			protected.GET("/price", s.getPrice)
			protected.POST("/refresh", s.triggerRefresh)
		}
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "symbol": s.Meta.Symbol, "version": s.Meta.Version})
}

func (s *Server) Start(addr string) error {
	return s.Router.Run(addr)
}

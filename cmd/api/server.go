package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kayden-vs/katasweets/internal/auth"
	"github.com/kayden-vs/katasweets/internal/models"
	"github.com/rs/zerolog"
)

type serverDeps struct {
	logger      zerolog.Logger
	users       models.UserModelInterface
	categories  models.CategoryModelInterface
	sweets      models.SweetModelInterface
	tokens      *auth.Issuer
	corsOrigins []string
}

type server struct {
	router     *gin.Engine
	logger     zerolog.Logger
	users      models.UserModelInterface
	categories models.CategoryModelInterface
	sweets     models.SweetModelInterface
	tokens     *auth.Issuer
}

func newServer(deps serverDeps) *server {
	s := &server{
		logger:     deps.logger,
		users:      deps.users,
		categories: deps.categories,
		sweets:     deps.sweets,
		tokens:     deps.tokens,
	}
	s.setupRouter(deps.corsOrigins)
	return s
}

func (s *server) setupRouter(origins []string) {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	if len(origins) > 0 {
		s.router.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	s.router.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "Not found")
	})

	s.router.GET("/health", func(c *gin.Context) {
		ok(c, http.StatusOK, gin.H{"service": "sweets-api", "timestamp": time.Now().UTC()}, "")
	})

	authRoutes := s.router.Group("/api/auth")
	{
		authRoutes.POST("/register", s.register)
		authRoutes.POST("/login", s.login)
	}

	sweets := s.router.Group("/api/sweets")
	sweets.Use(s.requireToken())
	{
		sweets.GET("", s.listSweets)
		sweets.POST("", s.createSweet)
		sweets.GET("/search", s.searchSweets)
		sweets.GET("/categories", s.listCategories)
		sweets.POST("/categories", s.createCategory)
		sweets.PUT("/:id", s.updateSweet)
		sweets.POST("/:id/purchase", s.purchaseSweet)

		admin := sweets.Group("")
		admin.Use(s.requireAdmin())
		{
			admin.DELETE("/:id", s.deleteSweet)
			admin.POST("/:id/restock", s.restockSweet)
		}
	}
}

func (s *server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

// Package server exposes the application over HTTP and WebSocket: JSON
// endpoints for accounts, groups and expenses, and a websocket feed that
// streams live expense history snapshots.
package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hisaab-app/hisaab/internal/auth"
	"github.com/hisaab-app/hisaab/internal/middleware"
	"github.com/hisaab-app/hisaab/internal/service"
)

// Server bundles the services behind the HTTP surface.
type Server struct {
	auth     *service.AuthService
	groups   *service.GroupService
	expenses *service.ExpenseService
	tokens   *auth.JWTManager
	ws       *wsHandler
}

// New creates a Server over the given services.
func New(authSvc *service.AuthService, groups *service.GroupService, expenses *service.ExpenseService, tokens *auth.JWTManager) *Server {
	return &Server{
		auth:     authSvc,
		groups:   groups,
		expenses: expenses,
		tokens:   tokens,
		ws:       newWSHandler(expenses),
	}
}

// Router builds the gin engine with all routes and middleware attached.
func (s *Server) Router(allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/register", s.handleRegister)
		v1.POST("/auth/login", s.handleLogin)

		authed := v1.Group("")
		authed.Use(middleware.RequireAuth(s.tokens))
		{
			authed.GET("/groups", s.handleListGroups)
			authed.POST("/groups", s.handleCreateGroup)
			authed.POST("/groups/join", s.handleJoinGroup)
			authed.GET("/groups/:id", s.handleGetGroup)
			authed.GET("/groups/:id/expenses", s.handleListExpenses)
			authed.POST("/groups/:id/expenses", s.handleAddExpense)
			authed.GET("/groups/:id/feed", s.handleFeed)
		}
	}

	return router
}

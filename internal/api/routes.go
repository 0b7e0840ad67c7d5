package api

import (
	"baakh/internal/api/handlers"
	"baakh/internal/api/interfaces"
	"baakh/internal/api/middlewares"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes with proper middleware
func SetupRoutes(router *gin.Engine, services interfaces.Services, limiter *middlewares.RateLimiter) {
	log := services.GetLogger()
	cfg := services.GetConfig()

	// Global middleware
	router.Use(log.RequestLogger())
	router.Use(middlewares.Recovery(log))
	router.Use(middlewares.CORS(cfg.API.CORS))
	router.Use(middlewares.Security())
	router.Use(middlewares.RequestLogging(log))

	// Health check (no auth, no rate limit)
	router.GET("/health", handlers.HealthCheck(services))
	router.GET("/ping", handlers.HealthCheck(services))

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(middlewares.RateLimit(limiter))
	v1.Use(middlewares.Timeout(cfg.API.Timeout))
	{
		setupPublicRoutes(v1, services)
		setupTextRoutes(v1, services)
		setupAuthRoutes(v1, services)
		setupAdminRoutes(v1, services)
		setupWebSocketRoutes(v1, services)
	}

	router.NoRoute(handlers.NotFound())
}

// setupPublicRoutes configures routes that don't require authentication
func setupPublicRoutes(rg *gin.RouterGroup, services interfaces.Services) {
	public := rg.Group("/public")
	{
		public.GET("/status", handlers.GetSystemStatus(services))
	}
}

// setupTextRoutes configures the normalization endpoints
func setupTextRoutes(rg *gin.RouterGroup, services interfaces.Services) {
	text := rg.Group("/text")
	{
		text.POST("/romanize", handlers.Romanize(services))
		text.POST("/hesudhar", handlers.Hesudhar(services))
		text.POST("/transliterate", handlers.Transliterate(services))
	}
}

// setupAuthRoutes configures login and token routes
func setupAuthRoutes(rg *gin.RouterGroup, services interfaces.Services) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", handlers.Login(services))

		authenticated := auth.Group("")
		authenticated.Use(middlewares.AuthRequired(services))
		{
			authenticated.GET("/me", handlers.Me(services))
			authenticated.POST("/refresh", handlers.RefreshToken(services))
		}
	}
}

// setupAdminRoutes configures back-office routes
func setupAdminRoutes(rg *gin.RouterGroup, services interfaces.Services) {
	admin := rg.Group("/admin")
	admin.Use(middlewares.AuthRequired(services))
	admin.Use(middlewares.RoleRequired(services.GetConfig().Security.AdminRoles...))
	{
		dictionary := admin.Group("/dictionary")
		{
			dictionary.GET("", handlers.GetDictionaryStatus(services))
			dictionary.POST("/reload", handlers.ReloadDictionary(services))
			dictionary.POST("/export", handlers.ExportDictionary(services))
		}

		admin.GET("/audit", handlers.GetAuditLogs(services))
	}
}

// setupWebSocketRoutes configures WebSocket endpoints
func setupWebSocketRoutes(rg *gin.RouterGroup, services interfaces.Services) {
	ws := rg.Group("/ws")
	{
		ws.GET("/romanize", handlers.RomanizeWebSocket(services))
	}
}

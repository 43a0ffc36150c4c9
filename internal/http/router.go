package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"compass/internal/metrics"
	"compass/internal/service"
)

const (
	serviceName       = "compass"
	defaultCORSOrigin = "http://localhost:3000"
)

// RouterDeps agrupa los handlers y colaboradores que necesita el router.
type RouterDeps struct {
	Auth            *AuthHandler
	Families        *FamilyHandler
	Children        *ChildHandler
	Recommendations *RecommendationHandler
	Activities      *ActivityHandler
	JWT             *service.JWTService
	CORSOrigins     []string
}

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(logger *zap.Logger, deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(
		otelgin.Middleware(serviceName),
		zapLoggerMiddleware(logger),
		gin.Recovery(),
		metricsMiddleware(),
		corsMiddleware(deps.CORSOrigins),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("", jsonContentTypeMiddleware())

	auth := api.Group("/auth")
	auth.POST("/register", deps.Auth.Register)
	auth.POST("/login", deps.Auth.Login)
	auth.POST("/refresh", deps.Auth.RefreshToken)
	auth.POST("/logout", deps.Auth.Logout)

	api.GET("/children/goals", deps.Children.ListGoals)
	api.GET("/activities", deps.Activities.ListActivities)
	api.GET("/activities/:id", deps.Activities.GetActivity)

	protected := api.Group("", JWTAuthMiddleware(deps.JWT))
	protected.GET("/auth/me", deps.Auth.Me)

	protected.POST("/families", deps.Families.CreateFamily)
	protected.GET("/families/me", deps.Families.GetMyFamily)
	protected.PATCH("/families/me", deps.Families.UpdateMyFamily)
	protected.DELETE("/families/me", deps.Families.DeleteMyFamily)

	protected.POST("/children", deps.Children.CreateChild)
	protected.GET("/children", deps.Children.ListChildren)
	protected.GET("/children/:id", deps.Children.GetChild)
	protected.PATCH("/children/:id", deps.Children.UpdateChild)
	protected.DELETE("/children/:id", deps.Children.DeleteChild)

	protected.POST("/recommendations", deps.Recommendations.Generate)
	protected.GET("/recommendations/:child_id", deps.Recommendations.List)

	protected.POST("/activities", deps.Activities.CreateActivity)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// metricsMiddleware cuenta requests por ruta registrada. Las rutas desconocidas se agrupan.
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// corsMiddleware acepta "*" como comodin; en ese caso no se permiten credenciales.
func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Requested-With"},
		MaxAge:       12 * time.Hour,
	}
	allowed := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cors.New(cfg)
		}
		if origin != "" {
			allowed = append(allowed, origin)
		}
	}
	if len(allowed) == 0 {
		allowed = []string{defaultCORSOrigin}
	}
	cfg.AllowOrigins = allowed
	cfg.AllowCredentials = true
	return cors.New(cfg)
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}

package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tara/internal/service"
)

const requestIDHeader = "X-Request-ID"

// Pinger lo implementa *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	allowedOrigins []string,
	jwtSvc *service.JWTService,
	db Pinger,
	h Handlers,
) *gin.Engine {
	r := gin.New()

	r.Use(
		requestIDMiddleware(),
		zapLoggerMiddleware(logger),
		gin.Recovery(),
		corsMiddleware(allowedOrigins),
		jsonContentTypeMiddleware(),
	)

	r.GET("/healthz", healthHandler(db))

	r.POST("/users", h.Users.CreateUser)

	auth := r.Group("/auth")
	auth.POST("/login", h.Users.Login)
	auth.POST("/oauth", h.Users.OAuthLogin)
	auth.POST("/refresh", h.Users.RefreshToken)
	auth.POST("/logout", h.Users.Logout)

	api := r.Group("", JWTAuthMiddleware(jwtSvc))
	api.GET("/me", h.Users.Me)

	api.POST("/moods", h.Moods.CheckIn)
	api.GET("/moods", h.Moods.List)
	api.GET("/moods/history", h.Moods.History)
	api.GET("/moods/meter", h.Moods.Meter)

	api.POST("/journals", h.Journals.Create)
	api.GET("/journals", h.Journals.List)
	api.GET("/journals/:id", h.Journals.Get)
	api.PUT("/journals/:id", h.Journals.Update)
	api.DELETE("/journals/:id", h.Journals.Delete)
	api.GET("/journals/:id/related", h.Journals.Related)

	api.GET("/records", h.Insights.Records)
	api.GET("/insights/emotions", h.Insights.Emotions)
	api.GET("/insights/radar", h.Insights.Radar)
	api.POST("/insights/reflection", h.Insights.Reflection)

	api.GET("/assessments/dass21/questions", h.Assessments.Dass21Questions)
	api.POST("/assessments/dass21", h.Assessments.SubmitDass21)
	api.POST("/assessments/life-areas", h.Assessments.SubmitLifeAreas)
	api.GET("/assessments/latest", h.Assessments.Latest)
	api.GET("/assessments/life-areas/radar", h.Assessments.LifeAreasRadar)

	return r
}

func healthHandler(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": "database unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	var origins []string
	for _, o := range allowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// requestIDMiddleware respeta el X-Request-ID entrante o genera uno.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString("request_id")),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Warn("request", fields...)
			return
		}
		logger.Info("request", fields...)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}

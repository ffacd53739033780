package http

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tara/internal/service"
)

const defaultRadarRadius = 100.0

// InsightHandler sirve los graficos de emociones y la reflexion.
type InsightHandler struct {
	logger      *zap.Logger
	insights    *service.InsightService
	reflections *service.ReflectionService
}

func NewInsightHandler(logger *zap.Logger, insights *service.InsightService, reflections *service.ReflectionService) *InsightHandler {
	return &InsightHandler{
		logger:      logger,
		insights:    insights,
		reflections: reflections,
	}
}

// Records maneja GET /records: el snapshot {moods, journals} del usuario.
func (h *InsightHandler) Records(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	set, err := h.insights.Records(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("fetch records failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load records"})
		return
	}
	c.JSON(http.StatusOK, set)
}

// Emotions maneja GET /insights/emotions. Siempre responde 200.
func (h *InsightHandler) Emotions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.insights.EmotionDistribution(c.Request.Context(), userID))
}

// Radar maneja GET /insights/radar?radius=120.
func (h *InsightHandler) Radar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	radius, ok := parseRadius(c)
	if !ok {
		return
	}
	points, insight := h.insights.Radar(c.Request.Context(), userID, radius)
	c.JSON(http.StatusOK, gin.H{"points": points, "insight": insight})
}

// Reflection maneja POST /insights/reflection.
func (h *InsightHandler) Reflection(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if h.reflections == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": service.ErrReflectionDisabled.Error()})
		return
	}
	out, err := h.reflections.Reflect(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReflectionDisabled):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
		case errors.Is(err, service.ErrReflectionParse):
			c.JSON(http.StatusBadGateway, gin.H{"error": "reflection unavailable"})
		default:
			h.logger.Error("reflection failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate reflection"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"reflection": out})
}

func parseRadius(c *gin.Context) (float64, bool) {
	raw := c.Query("radius")
	if raw == "" {
		return defaultRadarRadius, true
	}
	r, err := strconv.ParseFloat(raw, 64)
	// NaN e Inf no se pueden serializar en JSON.
	if err != nil || math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius"})
		return 0, false
	}
	return r, true
}

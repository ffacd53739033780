package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tara/internal/domain"
	"tara/internal/service"
)

// MoodHandler expone el check-in de animo.
type MoodHandler struct {
	logger *zap.Logger
	moods  *service.MoodService
}

func NewMoodHandler(logger *zap.Logger, moods *service.MoodService) *MoodHandler {
	return &MoodHandler{logger: logger, moods: moods}
}

// CheckIn maneja POST /moods.
func (h *MoodHandler) CheckIn(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req service.MoodInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid mood request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	entry, err := h.moods.CheckIn(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMoodInvalid), errors.Is(err, service.ErrIntensityOutOfRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("mood check-in failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save mood"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"mood": entry})
}

// List maneja GET /moods: historial plano, mas reciente primero.
func (h *MoodHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	days, err := h.moods.History(c.Request.Context(), userID, time.UTC)
	if err != nil {
		h.logger.Error("list moods failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load moods"})
		return
	}
	out := []domain.MoodEntry{}
	for _, d := range days {
		out = append(out, d.Entries...)
	}
	c.JSON(http.StatusOK, gin.H{"moods": out})
}

// History maneja GET /moods/history?tz=America/Argentina/Buenos_Aires.
func (h *MoodHandler) History(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	loc := time.UTC
	if tz := strings.TrimSpace(c.Query("tz")); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tz"})
			return
		}
		loc = l
	}

	days, err := h.moods.History(c.Request.Context(), userID, loc)
	if err != nil {
		h.logger.Error("mood history failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load history"})
		return
	}
	if days == nil {
		days = []service.MoodDay{}
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}

// Meter maneja GET /moods/meter?days=7.
func (h *MoodHandler) Meter(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	days := 0
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days"})
			return
		}
		days = n
	}

	meter, err := h.moods.Meter(c.Request.Context(), userID, days)
	if err != nil {
		h.logger.Error("mood meter failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load meter"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"meter": meter})
}

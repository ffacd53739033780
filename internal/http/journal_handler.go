package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tara/internal/service"
)

// JournalHandler expone el CRUD del diario.
type JournalHandler struct {
	logger   *zap.Logger
	journals *service.JournalService
}

func NewJournalHandler(logger *zap.Logger, journals *service.JournalService) *JournalHandler {
	return &JournalHandler{logger: logger, journals: journals}
}

// Create maneja POST /journals.
func (h *JournalHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req service.JournalInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid journal request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	entry, err := h.journals.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.writeError(c, "create journal failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"journal": entry})
}

// List maneja GET /journals.
func (h *JournalHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	entries, err := h.journals.List(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, "list journals failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"journals": entries})
}

// Get maneja GET /journals/:id.
func (h *JournalHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	entry, err := h.journals.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.writeError(c, "get journal failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"journal": entry})
}

// Update maneja PUT /journals/:id.
func (h *JournalHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req service.JournalInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid journal request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	entry, err := h.journals.Update(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		h.writeError(c, "update journal failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"journal": entry})
}

// Delete maneja DELETE /journals/:id.
func (h *JournalHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.journals.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.writeError(c, "delete journal failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Related maneja GET /journals/:id/related?k=5.
func (h *JournalHandler) Related(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	k := 0
	if raw := c.Query("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid k"})
			return
		}
		k = n
	}
	related, err := h.journals.Related(c.Request.Context(), userID, c.Param("id"), k)
	if err != nil {
		h.writeError(c, "related journals failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"journals": related})
}

func (h *JournalHandler) writeError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, service.ErrJournalEmpty):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrJournalNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "journal not found"})
	case errors.Is(err, service.ErrEmbeddingsUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		h.logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "journal operation failed"})
	}
}

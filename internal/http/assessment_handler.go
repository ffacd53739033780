package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tara/internal/domain"
	"tara/internal/emotion"
	"tara/internal/service"
)

// AssessmentHandler expone los cuestionarios de onboarding.
type AssessmentHandler struct {
	logger      *zap.Logger
	assessments *service.AssessmentService
}

func NewAssessmentHandler(logger *zap.Logger, assessments *service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{logger: logger, assessments: assessments}
}

// Dass21Questions maneja GET /assessments/dass21/questions.
func (h *AssessmentHandler) Dass21Questions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"questions": h.assessments.Dass21Questions(),
		"scale":     []string{"did not apply to me at all", "applied to me to some degree", "applied to me a considerable degree", "applied to me very much"},
	})
}

// SubmitDass21 maneja POST /assessments/dass21.
func (h *AssessmentHandler) SubmitDass21(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		Answers []int `json:"answers" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	result, err := h.assessments.SubmitDass21(c.Request.Context(), userID, req.Answers)
	if err != nil {
		h.writeError(c, "dass21 submit failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"result": result})
}

// SubmitLifeAreas maneja POST /assessments/life-areas.
func (h *AssessmentHandler) SubmitLifeAreas(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		Answers map[string][]int `json:"answers" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	result, err := h.assessments.SubmitLifeAreas(c.Request.Context(), userID, req.Answers)
	if err != nil {
		h.writeError(c, "life areas submit failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"result": result,
		"radar":  emotion.RadarLayout(service.LifeAreas, result.Scores, defaultRadarRadius),
	})
}

// Latest maneja GET /assessments/latest?kind=DASS21.
func (h *AssessmentHandler) Latest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	a, err := h.assessments.Latest(c.Request.Context(), userID, c.Query("kind"))
	if err != nil {
		h.writeError(c, "latest assessment failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assessment": a})
}

// LifeAreasRadar maneja GET /assessments/life-areas/radar?radius=120.
func (h *AssessmentHandler) LifeAreasRadar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	radius, ok := parseRadius(c)
	if !ok {
		return
	}
	a, err := h.assessments.Latest(c.Request.Context(), userID, domain.AssessmentLifeAreas)
	if err != nil {
		h.writeError(c, "life areas radar failed", err)
		return
	}
	result, _ := a.Result.(*domain.LifeAreaResult)
	var scores map[string]int
	if result != nil {
		scores = result.Scores
	}
	c.JSON(http.StatusOK, gin.H{"points": emotion.RadarLayout(service.LifeAreas, scores, radius)})
}

func (h *AssessmentHandler) writeError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, service.ErrAssessmentInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAssessmentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "assessment not found"})
	default:
		h.logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "assessment operation failed"})
	}
}

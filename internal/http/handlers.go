package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers agrupa los handlers que monta el router.
type Handlers struct {
	Users       *UserHandler
	Moods       *MoodHandler
	Journals    *JournalHandler
	Insights    *InsightHandler
	Assessments *AssessmentHandler
}

// currentUserID sale del middleware, nunca del body.
func currentUserID(c *gin.Context) (string, bool) {
	userID, ok := AuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return "", false
	}
	return userID, true
}

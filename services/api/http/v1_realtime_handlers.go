package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/melmove/parking-viewer/services/api/logging"
	"github.com/melmove/parking-viewer/services/api/parking"
)

// handleParkingSummary returns availability counts for the filtered set
// GET /api/v1/parking/summary
func (s *Server) handleParkingSummary(c *gin.Context) {
	records, sourceName, err := s.loadParking(c)
	if err != nil {
		logging.Ctx(c.Request.Context()).Error().Err(err).Str("source", sourceName).Msg("parking pipeline failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": errDataLoading})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": parking.Summarize(records),
		"meta": gin.H{
			"source":       sourceName,
			"generated_at": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

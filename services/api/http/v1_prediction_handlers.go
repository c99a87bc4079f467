package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/melmove/parking-viewer/services/api/logging"
	"github.com/melmove/parking-viewer/services/api/prediction"
)

// handlePredict relays an occupancy forecast
// GET /api/predict?zone=CBD&hours=3
func (s *Server) handlePredict(c *gin.Context) {
	s.forwardPrediction(c, prediction.EndpointPredict)
}

// handlePredictPlot relays the forecast chart (PNG)
// GET /api/predict_plot?zone=CBD&hours=3
func (s *Server) handlePredictPlot(c *gin.Context) {
	s.forwardPrediction(c, prediction.EndpointPlot)
}

func (s *Server) forwardPrediction(c *gin.Context, endpoint prediction.Endpoint) {
	resp, err := s.predictor.Forward(c.Request.Context(), endpoint, c.Request.URL.RawQuery)
	if err != nil {
		logging.Ctx(c.Request.Context()).Warn().Err(err).Str("endpoint", string(endpoint)).Msg("prediction upstream failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "prediction service unavailable",
			"code":  "UPSTREAM_ERROR",
		})
		return
	}

	c.Data(resp.Status, resp.ContentType, resp.Body)
}

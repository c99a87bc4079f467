package http

import "github.com/gin-gonic/gin"

const apiVersion = "v1"

// registerV1Routes sets up the versioned API
// Groups: /api/v1/parking, /api/v1/prediction
func (s *Server) registerV1Routes() {
	v1 := s.engine.Group("/api/v1")
	v1.Use(apiVersionMiddleware())

	bays := v1.Group("/parking")
	{
		bays.GET("", s.handleListParking)
		bays.GET("/summary", s.handleParkingSummary)
	}

	predict := v1.Group("/prediction")
	{
		predict.GET("", s.handlePredict)
		predict.GET("/plot", s.handlePredictPlot)
	}
}

func apiVersionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-API-Version", apiVersion)
		c.Next()
	}
}

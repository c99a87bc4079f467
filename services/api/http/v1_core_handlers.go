package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/melmove/parking-viewer/services/api/logging"
	"github.com/melmove/parking-viewer/services/api/metrics"
	"github.com/melmove/parking-viewer/services/api/parking"
)

// errDataLoading is the only message clients see when the pipeline cannot run.
const errDataLoading = "Data loading failed"

var errNoSource = errors.New("no parking source registered")

// loadParking resolves the request's source, fetches merged records and
// applies the keyword and radius filters. It returns the adapter name used.
func (s *Server) loadParking(c *gin.Context) ([]parking.Record, string, error) {
	selector := c.Query("source")
	if selector == "" {
		selector = string(s.cfg.DefaultSource)
	}

	adapter, ok := s.sources.Select(selector)
	if !ok {
		return nil, "", errNoSource
	}

	ctx := c.Request.Context()
	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}

	records, err := adapter.Fetch(ctx)
	if err != nil {
		return nil, adapter.Name(), err
	}

	filtered := parking.Apply(records, parking.Filter{
		Keyword: c.Query("keyword"),
		Radius:  parking.ParseRadiusQuery(c.Query("lat"), c.Query("lng"), c.Query("radiusKm")),
	})
	if filtered == nil {
		filtered = []parking.Record{}
	}
	return filtered, adapter.Name(), nil
}

// handleListParking returns merged, filtered parking records
// GET /api/merged-parking
// GET /api/v1/parking?source=local&keyword=king&lat=-37.81&lng=144.96&radiusKm=1
func (s *Server) handleListParking(c *gin.Context) {
	records, sourceName, err := s.loadParking(c)
	if err != nil {
		logging.Ctx(c.Request.Context()).Error().Err(err).Str("source", sourceName).Msg("parking pipeline failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": errDataLoading})
		return
	}

	metrics.RecordsServed.Observe(float64(len(records)))

	c.JSON(http.StatusOK, gin.H{
		"data": records,
		"meta": gin.H{
			"count":        len(records),
			"source":       sourceName,
			"generated_at": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

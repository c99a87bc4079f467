package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/melmove/parking-viewer/services/api/config"
	"github.com/melmove/parking-viewer/services/api/logging"
	"github.com/melmove/parking-viewer/services/api/metrics"
	"github.com/melmove/parking-viewer/services/api/prediction"
	"github.com/melmove/parking-viewer/services/api/source"
)

const (
	requestIDHeader   = "X-Request-ID"
	maxRequestIDBytes = 128
)

// SourceSelector resolves a request's source parameter to an adapter.
type SourceSelector interface {
	Select(selector string) (source.Adapter, bool)
}

// Predictor forwards prediction queries upstream.
type Predictor interface {
	Forward(ctx context.Context, endpoint prediction.Endpoint, rawQuery string) (*prediction.Response, error)
}

// Server bundles router and dependencies for the REST API.
type Server struct {
	cfg       config.Config
	sources   SourceSelector
	predictor Predictor
	engine    *gin.Engine
}

// New constructs a server with routes and middleware.
func New(cfg config.Config, sources SourceSelector, predictor Predictor) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestMiddleware())
	engine.Use(corsMiddleware())

	server := &Server{cfg: cfg, sources: sources, predictor: predictor, engine: engine}
	server.registerRoutes()
	server.registerV1Routes()
	return server
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Paths served to the existing map client.
	api := s.engine.Group("/api")
	{
		api.GET("/merged-parking", s.handleListParking)
		api.GET("/predict", s.handlePredict)
		api.GET("/predict_plot", s.handlePredictPlot)
	}
}

// requestMiddleware tags each request with an ID, logs it on completion and
// records its latency.
func requestMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if !validRequestID(requestID) {
			requestID = uuid.New().String()
		}
		c.Header(requestIDHeader, requestID)
		c.Request = c.Request.WithContext(logging.ContextWithRequestID(c.Request.Context(), requestID))

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())

		logging.Ctx(c.Request.Context()).Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", elapsed).
			Msg("request")
	}
}

// validRequestID accepts client IDs of at most 128 bytes drawn from
// [A-Za-z0-9._:-].
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDBytes {
		return false
	}
	for i := 0; i < len(id); i++ {
		switch b := id[i]; {
		case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		case b == '.', b == '_', b == ':', b == '-':
		default:
			return false
		}
	}
	return true
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

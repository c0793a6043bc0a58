// Package httpapi exposes the planner over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/piwi3910/StripCut/internal/model"
	"github.com/piwi3910/StripCut/internal/planner"
	"github.com/piwi3910/StripCut/internal/report"
)

// RequestIDHeader carries the id of every request and response.
const RequestIDHeader = "X-Request-ID"

// Server is the HTTP front end. Each request runs its own plan; the server
// holds no state between requests.
type Server struct {
	cfg     model.AppConfig
	planner *planner.Planner
	log     *slog.Logger
	router  *gin.Engine
}

// New builds a server whose requests start from the defaults in cfg.
func New(cfg model.AppConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:     cfg,
		planner: planner.New(logger),
		log:     logger,
		router:  gin.New(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.requestIDMiddleware())
	s.router.Use(s.loggingMiddleware())

	s.router.GET("/healthz", s.healthCheck)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/plan", s.plan)
		v1.POST("/plan/csv", s.planCSV)
		v1.POST("/compare", s.compare)
	}
}

// Handler returns the router for use with net/http or httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// Middleware

func (s *Server) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			"request_id", c.GetString("request_id"),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

// Handlers

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// PlanResponse is the body of a successful /plan call.
type PlanResponse struct {
	RequestID string         `json:"request_id"`
	Result    planner.Result `json:"result"`
	Report    report.Report  `json:"report"`
}

func (s *Server) plan(c *gin.Context) {
	res, ok := s.runPlan(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, PlanResponse{
		RequestID: c.GetString("request_id"),
		Result:    res,
		Report:    report.Build(res),
	})
}

func (s *Server) planCSV(c *gin.Context) {
	table := c.DefaultQuery("table", report.TableCuts)
	res, ok := s.runPlan(c)
	if !ok {
		return
	}
	records, err := report.Build(res).Records(table)
	if err != nil {
		s.fail(c, fmt.Errorf("%w: %v", model.ErrInvalidInput, err))
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", table+".csv"))
	c.Status(http.StatusOK)
	if err := report.WriteCSV(c.Writer, records); err != nil {
		s.log.Error("csv write failed", "request_id", c.GetString("request_id"), "error", err)
	}
}

func (s *Server) compare(c *gin.Context) {
	req, ok := s.bindRequest(c)
	if !ok {
		return
	}
	cmp, err := s.planner.Compare(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cmp)
}

// bindRequest decodes the body over the configured defaults, so omitted
// fields keep their default values.
func (s *Server) bindRequest(c *gin.Context) (planner.Request, bool) {
	req := planner.NewRequest(s.cfg)
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, fmt.Errorf("%w: malformed request body: %v", model.ErrInvalidInput, err))
		return planner.Request{}, false
	}
	return req, true
}

func (s *Server) runPlan(c *gin.Context) (planner.Result, bool) {
	req, ok := s.bindRequest(c)
	if !ok {
		return planner.Result{}, false
	}
	res, err := s.planner.Run(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return planner.Result{}, false
	}
	return res, true
}

// ErrorResponse is the body of every failed call.
type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	RequestID string `json:"request_id"`
}

// fail maps terminal planning errors to 400 and anything else to 500.
func (s *Server) fail(c *gin.Context, err error) {
	kind := model.ErrorKind(err)
	status := http.StatusBadRequest
	if kind == "internal" {
		status = http.StatusInternalServerError
		s.log.Error("request failed", "request_id", c.GetString("request_id"), "error", err)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     err.Error(),
		Kind:      kind,
		RequestID: c.GetString("request_id"),
	})
}

// Package http provides the HTTP API for decisiond.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/decisiond/internal/analysis"
	"github.com/fyrsmithlabs/decisiond/internal/classifier"
	"github.com/fyrsmithlabs/decisiond/internal/decision"
	"github.com/fyrsmithlabs/decisiond/internal/lifecycle"
	"github.com/fyrsmithlabs/decisiond/internal/report"
)

// Server provides HTTP endpoints for decision tracking.
type Server struct {
	echo       *echo.Echo
	store      *decision.Store
	lifecycle  *lifecycle.Service
	classifier *classifier.Classifier
	analyzer   *analysis.Analyzer
	reports    *report.Service
	logger     *zap.Logger
	config     *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// NewServer creates the HTTP server over the given services.
func NewServer(store *decision.Store, lc *lifecycle.Service, cls *classifier.Classifier, analyzer *analysis.Analyzer, reports *report.Service, logger *zap.Logger, cfg *Config) (*Server, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if lc == nil {
		return nil, fmt.Errorf("lifecycle service is required")
	}
	if cls == nil {
		return nil, fmt.Errorf("classifier is required")
	}
	if analyzer == nil {
		return nil, fmt.Errorf("analyzer is required")
	}
	if reports == nil {
		return nil, fmt.Errorf("report service is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{Host: "localhost", Port: 8600}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:       e,
		store:      store,
		lifecycle:  lc,
		classifier: cls,
		analyzer:   analyzer,
		reports:    reports,
		logger:     logger,
		config:     cfg,
	}

	s.registerRoutes()

	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1")
	v1.GET("/decisions", s.handleListDecisions)
	v1.POST("/decisions", s.handleCreateDecision)
	v1.GET("/decisions/:id", s.handleGetDecision)
	v1.POST("/decisions/:id/status", s.handleUpdateStatus)
	v1.POST("/decisions/:id/complete", s.handleComplete)
	v1.GET("/stats", s.handleStats)
	v1.POST("/risk-check", s.handleRiskCheck)
	v1.GET("/patterns/:name", s.handlePattern)
	v1.POST("/reports/weekly", s.handleWeeklyReport)
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleListDecisions lists decisions, optionally windowed and filtered by
// status.
func (s *Server) handleListDecisions(c echo.Context) error {
	var req decision.ListRequest

	if days := c.QueryParam("days"); days != "" {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			return s.fail(c, http.StatusBadRequest, fmt.Errorf("invalid days parameter %q", days))
		}
		req.WindowDays = n
	}

	if status := c.QueryParam("status"); status != "" {
		st := decision.Status(status)
		if !st.Valid() {
			return s.fail(c, http.StatusBadRequest, fmt.Errorf("%w: %q", decision.ErrInvalidStatus, status))
		}
		req.Status = st
	}

	decisions, err := s.store.List(c.Request().Context(), req)
	if err != nil {
		return s.failErr(c, err)
	}

	return s.ok(c, decisions)
}

// handleCreateDecision records a new decision.
func (s *Server) handleCreateDecision(c echo.Context) error {
	var req CreateDecisionRequest
	if err := c.Bind(&req); err != nil {
		return s.fail(c, http.StatusBadRequest, fmt.Errorf("invalid request body"))
	}
	if req.Description == "" {
		return s.fail(c, http.StatusBadRequest, fmt.Errorf("description is required"))
	}
	if req.Type == "" {
		req.Type = string(decision.TypeImportant)
	}

	d, err := s.store.Create(c.Request().Context(), decision.CreateRequest{
		Description:      req.Description,
		Type:             decision.Type(req.Type),
		RationalAnalysis: req.RationalAnalysis,
		EmotionalFactors: req.EmotionalFactors,
		AIWarning:        req.AIWarning,
	})
	if err != nil {
		return s.failErr(c, err)
	}

	return s.ok(c, d)
}

// handleGetDecision retrieves one decision by ID.
func (s *Server) handleGetDecision(c echo.Context) error {
	d, err := s.store.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.failErr(c, err)
	}
	return s.ok(c, d)
}

// handleUpdateStatus moves a decision to a new lifecycle status.
func (s *Server) handleUpdateStatus(c echo.Context) error {
	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return s.fail(c, http.StatusBadRequest, fmt.Errorf("invalid request body"))
	}

	d, err := s.lifecycle.UpdateStatus(c.Request().Context(), c.Param("id"), decision.Status(req.Status), req.Note)
	if err != nil {
		return s.failErr(c, err)
	}

	return s.ok(c, d)
}

// handleComplete marks a decision completed.
func (s *Server) handleComplete(c echo.Context) error {
	var req CompleteRequest
	if err := c.Bind(&req); err != nil {
		return s.fail(c, http.StatusBadRequest, fmt.Errorf("invalid request body"))
	}

	d, err := s.lifecycle.Complete(c.Request().Context(), c.Param("id"), decision.Result(req.Result), req.FinalOutcome, req.Lessons)
	if err != nil {
		return s.failErr(c, err)
	}

	return s.ok(c, d)
}

// handleStats computes the generic metrics over all records.
func (s *Server) handleStats(c echo.Context) error {
	decisions, err := s.store.List(c.Request().Context(), decision.ListRequest{})
	if err != nil {
		return s.failErr(c, err)
	}
	return s.ok(c, s.analyzer.GenericMetrics(decisions))
}

// handleRiskCheck runs the free-text risk probe.
func (s *Server) handleRiskCheck(c echo.Context) error {
	var req RiskCheckRequest
	if err := c.Bind(&req); err != nil {
		return s.fail(c, http.StatusBadRequest, fmt.Errorf("invalid request body"))
	}
	if req.Description == "" {
		return s.fail(c, http.StatusBadRequest, fmt.Errorf("description is required"))
	}

	return s.ok(c, s.classifier.ProbeFile(req.Description, req.PersonaPath))
}

// handlePattern runs a named pattern analysis over all records.
func (s *Server) handlePattern(c echo.Context) error {
	decisions, err := s.store.List(c.Request().Context(), decision.ListRequest{})
	if err != nil {
		return s.failErr(c, err)
	}

	result, err := s.analyzer.AnalyzePattern(analysis.Pattern(c.Param("name")), decisions)
	if err != nil {
		return s.failErr(c, err)
	}

	return s.ok(c, result)
}

// handleWeeklyReport generates and saves a weekly report.
func (s *Server) handleWeeklyReport(c echo.Context) error {
	var req WeeklyReportRequest
	if err := c.Bind(&req); err != nil {
		return s.fail(c, http.StatusBadRequest, fmt.Errorf("invalid request body"))
	}
	if req.Week < 1 {
		req.Week = 1
	}

	r, err := s.reports.GenerateWeekly(c.Request().Context(), req.Week, req.PersonaPath)
	if err != nil {
		return s.failErr(c, err)
	}

	return s.ok(c, r)
}

// ok writes the success envelope.
func (s *Server) ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// fail writes the failure envelope with the given status.
func (s *Server) fail(c echo.Context, status int, err error) error {
	return c.JSON(status, Envelope{Success: false, Error: err.Error()})
}

// failErr maps an error to its HTTP status per the error taxonomy:
// not-found -> 404, validation -> 400, anything else -> 500.
func (s *Server) failErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, decision.ErrNotFound):
		return s.fail(c, http.StatusNotFound, err)
	case errors.Is(err, decision.ErrInvalidType),
		errors.Is(err, decision.ErrInvalidStatus),
		errors.Is(err, decision.ErrInvalidResult),
		errors.Is(err, analysis.ErrUnknownPattern):
		return s.fail(c, http.StatusBadRequest, err)
	default:
		s.logger.Error("request failed", zap.Error(err))
		return s.fail(c, http.StatusInternalServerError, err)
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

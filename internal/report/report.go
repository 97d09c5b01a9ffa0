// Package report assembles periodic growth reports from decision records,
// aggregate metrics, and persona metadata.
package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/decisiond/internal/analysis"
	"github.com/fyrsmithlabs/decisiond/internal/decision"
	"github.com/fyrsmithlabs/decisiond/internal/persona"
)

const instrumentationName = "github.com/fyrsmithlabs/decisiond/internal/report"

// Weekly is one generated weekly report.
type Weekly struct {
	// Week is the 1-based index counting back from the current week.
	Week int `json:"week"`
	// Start and End bound the covered range; End is exclusive.
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	// Content is the rendered markdown document.
	Content string `json:"content"`
	// Path is where the report was saved.
	Path string `json:"path"`
	// DecisionCount is the number of records in the covered range.
	DecisionCount int `json:"decision_count"`
	// PersonaDegraded is set when the persona document could not be read;
	// the report was generated with empty metadata.
	PersonaDegraded bool `json:"persona_degraded,omitempty"`
}

// Service generates and persists reports.
type Service struct {
	store      *decision.Store
	analyzer   *analysis.Analyzer
	extractor  *persona.Extractor
	reviewsDir string
	logger     *zap.Logger

	tracer        trace.Tracer
	meter         metric.Meter
	reportCounter metric.Int64Counter
}

// NewService creates a report service. reviewsDir is created on first save.
func NewService(store *decision.Store, analyzer *analysis.Analyzer, extractor *persona.Extractor, reviewsDir string, logger *zap.Logger) (*Service, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if analyzer == nil {
		analyzer = analysis.NewAnalyzer("")
	}
	if extractor == nil {
		extractor = persona.NewExtractor()
	}
	if reviewsDir == "" {
		return nil, errors.New("reviews directory is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Service{
		store:      store,
		analyzer:   analyzer,
		extractor:  extractor,
		reviewsDir: reviewsDir,
		logger:     logger,
		tracer:     otel.Tracer(instrumentationName),
		meter:      otel.Meter(instrumentationName),
	}

	var err error
	s.reportCounter, err = s.meter.Int64Counter(
		"decisiond.report.generated_total",
		metric.WithDescription("Total number of reports generated"),
		metric.WithUnit("{report}"),
	)
	if err != nil {
		s.logger.Warn("failed to create report counter", zap.Error(err))
	}

	return s, nil
}

// WeekRange returns the Monday-anchored [start, end) range for the 1-based
// week index counting back from the week containing now (week 1 is the
// current week).
func WeekRange(now time.Time, week int) (start, end time.Time) {
	if week < 1 {
		week = 1
	}
	// Monday = 0.
	weekday := (int(now.Weekday()) + 6) % 7
	monday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -weekday)
	start = monday.AddDate(0, 0, -7*(week-1))
	end = start.AddDate(0, 0, 7)
	return start, end
}

// GenerateWeekly builds the weekly report for the given week index, renders
// it, and saves it under the reviews directory. Persona extraction is
// best-effort: an unreadable document degrades to empty metadata and is
// surfaced via the PersonaDegraded flag.
func (s *Service) GenerateWeekly(ctx context.Context, week int, personaPath string) (*Weekly, error) {
	ctx, span := s.tracer.Start(ctx, "report.generate_weekly")
	defer span.End()

	span.SetAttributes(attribute.Int("week", week))

	start, end := WeekRange(time.Now(), week)

	all, err := s.store.List(ctx, decision.ListRequest{})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to load decisions: %w", err)
	}

	var records []*decision.Decision
	for _, d := range all {
		if !d.CreatedAt.Before(start) && d.CreatedAt.Before(end) {
			records = append(records, d)
		}
	}

	meta, degraded := s.extractor.ExtractFile(personaPath)
	if degraded && personaPath != "" {
		s.logger.Warn("persona document unreadable, generating report without metadata",
			zap.String("path", personaPath))
	}

	metrics := s.analyzer.GenericMetrics(records)
	personal := s.analyzer.PersonalizedMetrics(records, meta)

	content := renderWeekly(week, start, end, records, metrics, personal, meta)

	path, err := s.save("weekly", week, content)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if s.reportCounter != nil {
		s.reportCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("kind", "weekly"),
		))
	}

	s.logger.Info("generated weekly report",
		zap.Int("week", week),
		zap.Int("decisions", len(records)),
		zap.String("path", path),
	)

	return &Weekly{
		Week:            week,
		Start:           start,
		End:             end,
		Content:         content,
		Path:            path,
		DecisionCount:   len(records),
		PersonaDegraded: degraded && personaPath != "",
	}, nil
}

// save writes the rendered report under the reviews directory.
func (s *Service) save(kind string, index int, content string) (string, error) {
	if err := os.MkdirAll(s.reviewsDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create reviews directory: %w", err)
	}

	name := fmt.Sprintf("%s_%d_%s.md", kind, index, time.Now().Format("20060102"))
	path := filepath.Join(s.reviewsDir, name)

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}

	return path, nil
}

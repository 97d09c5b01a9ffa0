package decision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/fyrsmithlabs/decisiond/internal/decision"

// Store persists decision records as one JSON file per record.
type Store struct {
	dir    string
	scorer Scorer
	logger *zap.Logger

	// Telemetry
	tracer        trace.Tracer
	meter         metric.Meter
	createCounter metric.Int64Counter
	saveCounter   metric.Int64Counter

	// Per-ID write serialization for read-modify-write cycles.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore creates a store rooted at dir, creating the directory if needed.
func NewStore(dir string, scorer Scorer, logger *zap.Logger) (*Store, error) {
	if dir == "" {
		return nil, errors.New("store directory is required")
	}
	if scorer == nil {
		return nil, errors.New("scorer is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create store directory %s: %w", dir, err)
	}

	s := &Store{
		dir:    dir,
		scorer: scorer,
		logger: logger,
		tracer: otel.Tracer(instrumentationName),
		meter:  otel.Meter(instrumentationName),
		locks:  make(map[string]*sync.Mutex),
	}

	s.initMetrics()

	return s, nil
}

// initMetrics initializes OpenTelemetry metrics.
func (s *Store) initMetrics() {
	var err error

	s.createCounter, err = s.meter.Int64Counter(
		"decisiond.store.creates_total",
		metric.WithDescription("Total number of decisions created"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		s.logger.Warn("failed to create create counter", zap.Error(err))
	}

	s.saveCounter, err = s.meter.Int64Counter(
		"decisiond.store.saves_total",
		metric.WithDescription("Total number of decision record writes"),
		metric.WithUnit("{write}"),
	)
	if err != nil {
		s.logger.Warn("failed to create save counter", zap.Error(err))
	}
}

// Dir returns the directory backing the store.
func (s *Store) Dir() string {
	return s.dir
}

// generateID returns a date-prefixed ID with a random suffix, sortable by
// creation date and collision-safe within a day.
func generateID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("%s-%s", now.Format("2006-01-02"), suffix)
}

// Create validates the request, stamps identity and derived classification
// fields, persists the record, and returns it.
func (s *Store) Create(ctx context.Context, req CreateRequest) (*Decision, error) {
	ctx, span := s.tracer.Start(ctx, "decision.create")
	defer span.End()

	if !req.Type.Valid() {
		span.SetStatus(codes.Error, "invalid type")
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, req.Type)
	}

	now := time.Now()
	ratio, risk, actions := s.scorer.Score(req.Type, req.EmotionalFactors)

	factors := req.EmotionalFactors
	if factors == nil {
		factors = []string{}
	}
	if actions == nil {
		actions = []string{}
	}

	d := &Decision{
		ID:               generateID(now),
		Timestamp:        now,
		Type:             req.Type,
		Description:      req.Description,
		RationalAnalysis: req.RationalAnalysis,
		EmotionalFactors: factors,
		EmotionRatio:     ratio,
		RiskLevel:        risk,
		AIWarning:        req.AIWarning,
		RequiredActions:  actions,
		Outcome:          StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.Save(ctx, d); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if s.createCounter != nil {
		s.createCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("type", string(d.Type)),
			attribute.String("risk_level", string(d.RiskLevel)),
		))
	}

	s.logger.Info("created decision",
		zap.String("id", d.ID),
		zap.String("type", string(d.Type)),
		zap.String("risk_level", string(d.RiskLevel)),
		zap.Float64("emotion_ratio", d.EmotionRatio),
	)

	span.SetAttributes(attribute.String("decision_id", d.ID))
	return d, nil
}

// Get retrieves a decision by ID. Returns ErrNotFound when no record exists.
func (s *Store) Get(ctx context.Context, id string) (*Decision, error) {
	_, span := s.tracer.Start(ctx, "decision.get")
	defer span.End()

	span.SetAttributes(attribute.String("decision_id", id))

	d, err := s.readRecord(id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return d, nil
}

// List returns decisions matching the request, ordered by created_at
// descending. The sort is stable so same-timestamp records keep insertion
// order.
func (s *Store) List(ctx context.Context, req ListRequest) ([]*Decision, error) {
	_, span := s.tracer.Start(ctx, "decision.list")
	defer span.End()

	span.SetAttributes(
		attribute.Int("window_days", req.WindowDays),
		attribute.String("status", string(req.Status)),
	)

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to read store directory: %w", err)
	}

	var cutoff time.Time
	if req.WindowDays > 0 {
		cutoff = time.Now().AddDate(0, 0, -req.WindowDays)
	}

	decisions := make([]*Decision, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}

		d, err := s.readRecord(strings.TrimSuffix(name, ".json"))
		if err != nil {
			// A single unreadable record never fails the listing.
			s.logger.Warn("skipping unreadable decision record",
				zap.String("file", name),
				zap.Error(err),
			)
			continue
		}

		if !cutoff.IsZero() && d.CreatedAt.Before(cutoff) {
			continue
		}
		if req.Status != "" && d.Outcome != req.Status {
			continue
		}
		decisions = append(decisions, d)
	}

	sort.SliceStable(decisions, func(i, j int) bool {
		return decisions[i].CreatedAt.After(decisions[j].CreatedAt)
	})

	span.SetAttributes(attribute.Int("result_count", len(decisions)))
	return decisions, nil
}

// Save atomically overwrites the persisted representation of the record:
// the JSON is written to a temp file in the store directory, synced, then
// renamed over the target, so a concurrent reader sees either the old or
// the new record.
func (s *Store) Save(ctx context.Context, d *Decision) error {
	_, span := s.tracer.Start(ctx, "decision.save")
	defer span.End()

	span.SetAttributes(attribute.String("decision_id", d.ID))

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to marshal decision %s: %w", d.ID, err)
	}

	tmp, err := os.CreateTemp(s.dir, d.ID+".tmp-*")
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		span.RecordError(err)
		return fmt.Errorf("failed to write decision %s: %w", d.ID, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		span.RecordError(err)
		return fmt.Errorf("failed to sync decision %s: %w", d.ID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		span.RecordError(err)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Records hold personal data; owner-only access.
	if err := os.Chmod(tmpName, 0600); err != nil {
		os.Remove(tmpName)
		span.RecordError(err)
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path(d.ID)); err != nil {
		os.Remove(tmpName)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to persist decision %s: %w", d.ID, err)
	}

	if s.saveCounter != nil {
		s.saveCounter.Add(ctx, 1)
	}

	return nil
}

// Update runs a read-modify-write cycle under the per-ID lock: it loads the
// record, applies fn, and persists the result. Two concurrent updates to the
// same ID cannot interleave and lose a write.
func (s *Store) Update(ctx context.Context, id string, fn func(*Decision) error) (*Decision, error) {
	ctx, span := s.tracer.Start(ctx, "decision.update")
	defer span.End()

	span.SetAttributes(attribute.String("decision_id", id))

	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	d, err := s.readRecord(id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := fn(d); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := s.Save(ctx, d); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return d, nil
}

// lockFor returns the mutex guarding writes to the given ID, creating it on
// first use.
func (s *Store) lockFor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *Store) readRecord(id string) (*Decision, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to read decision %s: %w", id, err)
	}

	var d Decision
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to decode decision %s: %w", id, err)
	}
	return &d, nil
}

// Package lifecycle enforces decision status transitions and completion.
//
// All mutations run through the store's per-ID update path, so concurrent
// status changes against the same decision cannot lose writes.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/decisiond/internal/decision"
)

const instrumentationName = "github.com/fyrsmithlabs/decisiond/internal/lifecycle"

// Service mutates decision lifecycle state through the store.
type Service struct {
	store  *decision.Store
	logger *zap.Logger

	tracer            trace.Tracer
	meter             metric.Meter
	transitionCounter metric.Int64Counter
}

// NewService creates a lifecycle service over the given store.
func NewService(store *decision.Store, logger *zap.Logger) (*Service, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Service{
		store:  store,
		logger: logger,
		tracer: otel.Tracer(instrumentationName),
		meter:  otel.Meter(instrumentationName),
	}

	var err error
	s.transitionCounter, err = s.meter.Int64Counter(
		"decisiond.lifecycle.transitions_total",
		metric.WithDescription("Total number of decision status transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		s.logger.Warn("failed to create transition counter", zap.Error(err))
	}

	return s, nil
}

// UpdateStatus moves the decision to newStatus and bumps updated_at. When
// note is non-empty, a status_history entry is appended; transitions without
// a note are applied but leave no trail entry, so the trail is opt-in per
// change. Returns decision.ErrNotFound for unknown IDs and
// decision.ErrInvalidStatus for statuses outside the enumerated set; the
// stored record is untouched in both cases.
func (s *Service) UpdateStatus(ctx context.Context, id string, newStatus decision.Status, note string) (*decision.Decision, error) {
	ctx, span := s.tracer.Start(ctx, "lifecycle.update_status")
	defer span.End()

	span.SetAttributes(
		attribute.String("decision_id", id),
		attribute.String("new_status", string(newStatus)),
	)

	if !newStatus.Valid() {
		return nil, fmt.Errorf("%w: %q", decision.ErrInvalidStatus, newStatus)
	}

	var from decision.Status
	d, err := s.store.Update(ctx, id, func(d *decision.Decision) error {
		now := time.Now()
		from = d.Outcome
		d.Outcome = newStatus
		d.UpdatedAt = now

		if note != "" {
			d.StatusHistory = append(d.StatusHistory, decision.StatusChange{
				Timestamp: now,
				From:      from,
				To:        newStatus,
				Note:      note,
			})
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if s.transitionCounter != nil {
		s.transitionCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("to_status", string(newStatus)),
		))
	}

	s.logger.Info("updated decision status",
		zap.String("id", id),
		zap.String("from", string(from)),
		zap.String("to", string(newStatus)),
	)

	return d, nil
}

// Complete marks the decision completed, setting result, final outcome,
// optional lessons, and the completion timestamp together. Re-completing an
// already-completed decision overwrites the prior completion fields; the
// status history keeps earlier transitions when they carried notes.
func (s *Service) Complete(ctx context.Context, id string, result decision.Result, finalOutcome, lessons string) (*decision.Decision, error) {
	ctx, span := s.tracer.Start(ctx, "lifecycle.complete")
	defer span.End()

	span.SetAttributes(
		attribute.String("decision_id", id),
		attribute.String("result", string(result)),
	)

	if !result.Valid() {
		return nil, fmt.Errorf("%w: %q", decision.ErrInvalidResult, result)
	}

	d, err := s.store.Update(ctx, id, func(d *decision.Decision) error {
		now := time.Now()
		d.Outcome = decision.StatusCompleted
		d.Result = result
		d.FinalOutcome = finalOutcome
		d.LessonsLearned = lessons
		d.CompletedAt = &now
		d.UpdatedAt = now
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if s.transitionCounter != nil {
		s.transitionCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("to_status", string(decision.StatusCompleted)),
		))
	}

	s.logger.Info("completed decision",
		zap.String("id", id),
		zap.String("result", string(result)),
	)

	return d, nil
}

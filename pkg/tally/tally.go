// Package tally answers "how many reps today / this week / this month".
//
// A Service owns nothing global: the caller constructs the store handle and
// the clock and passes them in. Each query reads the clock once and uses
// that single instant for every window it resolves.
package tally

import (
	"context"
	"time"

	"github.com/daviddao/pushups/pkg/clock"
	"github.com/daviddao/pushups/pkg/logger"
	"github.com/daviddao/pushups/pkg/model"
	"github.com/daviddao/pushups/pkg/window"
)

// Store is the part of the event log the service needs.
type Store interface {
	Record(ctx context.Context, reps uint32, at time.Time, notes string) (int64, error)
	SumInRange(ctx context.Context, start, end time.Time) (uint64, error)
}

// Service orchestrates clock, resolver and store.
type Service struct {
	store    Store
	clock    clock.Clock
	resolver window.Resolver
	log      logger.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithCalendar swaps the calendar the resolver computes with.
func WithCalendar(cal window.Calendar) Option {
	return func(s *Service) { s.resolver = window.NewResolver(cal) }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) { s.log = l.Named("tally") }
}

// New returns a Service over st that reads "now" from clk.
func New(st Store, clk clock.Clock, opts ...Option) *Service {
	s := &Service{
		store:    st,
		clock:    clk,
		resolver: window.NewResolver(window.Civil{}),
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record stores reps stamped with the current instant.
func (s *Service) Record(ctx context.Context, reps uint32, notes string) (model.Event, error) {
	at := s.clock.Now()
	id, err := s.store.Record(ctx, reps, at, notes)
	if err != nil {
		return model.Event{}, err
	}
	s.log.Debug(ctx, "recorded", logger.Int64("id", id), logger.Int64("reps", int64(reps)),
		logger.String("at", at.Format(time.RFC3339Nano)))
	return model.Event{ID: id, Reps: reps, Timestamp: at, Notes: notes}, nil
}

// Aggregate sums the window of the given kind around the current instant.
func (s *Service) Aggregate(ctx context.Context, kind model.Kind) (model.Total, error) {
	return s.AggregateAt(ctx, kind, s.clock.Now())
}

// AggregateAt sums the window of the given kind around now.
func (s *Service) AggregateAt(ctx context.Context, kind model.Kind, now time.Time) (model.Total, error) {
	w := s.resolver.Resolve(now, kind)
	reps, err := s.store.SumInRange(ctx, w.Start, w.End)
	if err != nil {
		return model.Total{}, err
	}
	s.log.Debug(ctx, "aggregated",
		logger.String("kind", kind.String()),
		logger.String("start", w.Start.Format(time.RFC3339)),
		logger.String("end", w.End.Format(time.RFC3339)),
		logger.String("length", w.Duration().String()),
		logger.Uint64("reps", reps))
	return model.Total{Kind: kind, Window: w, Reps: reps}, nil
}

// Summary returns day, week and month totals, all resolved from one read
// of the clock.
func (s *Service) Summary(ctx context.Context) ([]model.Total, error) {
	return s.SummaryAt(ctx, s.clock.Now())
}

// SummaryAt is Summary anchored at now.
func (s *Service) SummaryAt(ctx context.Context, now time.Time) ([]model.Total, error) {
	totals := make([]model.Total, 0, len(model.Kinds))
	for _, k := range model.Kinds {
		t, err := s.AggregateAt(ctx, k, now)
		if err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, nil
}

// Package livesync keeps the five record mirrors of the active profile live.
package livesync

import (
	"context"

	"family-health-dashboard/internal/domain/entity"
	"family-health-dashboard/internal/service"
	"family-health-dashboard/internal/state"

	"github.com/sirupsen/logrus"
)

// Feed opens live watches on change-feed topics.
type Feed interface {
	Watch(ctx context.Context, topic string, load service.Loader, deliver func(ctx context.Context, d service.Delivery)) (stop func())
}

// LoadFunc reads one collection of a scope.
type LoadFunc func(ctx context.Context, scope entity.Scope, kind entity.Kind) ([]entity.Record, error)

// EmitFunc hands an event to the owner of the state. It must give up once ctx is done.
type EmitFunc func(ctx context.Context, ev state.Event)

// Syncer binds one watcher per record kind to the current scope. Each bind
// starts a new generation and every snapshot carries it, so the reducer can
// drop late snapshots of an earlier scope.
//
// A Syncer is not safe for concurrent use; the dashboard loop owns it.
type Syncer struct {
	ctx  context.Context
	feed Feed
	load LoadFunc
	emit EmitFunc
	log  *logrus.Logger

	generation uint64
	scope      *entity.Scope
	stops      []func()
}

func NewSyncer(ctx context.Context, feed Feed, load LoadFunc, emit EmitFunc, log *logrus.Logger) *Syncer {
	return &Syncer{
		ctx:  ctx,
		feed: feed,
		load: load,
		emit: emit,
		log:  log,
	}
}

// Switch tears down every watcher of the previous scope, waiting for them to
// exit, then binds scope (nil unbinds). It returns the new generation.
func (s *Syncer) Switch(scope *entity.Scope) uint64 {
	for _, stop := range s.stops {
		stop()
	}
	s.stops = nil
	s.scope = nil
	s.generation++

	if scope == nil || scope.IsZero() {
		return s.generation
	}

	bound := *scope
	s.scope = &bound
	for _, kind := range entity.Kinds() {
		s.stops = append(s.stops, s.watch(bound, kind, s.generation))
	}

	s.log.Debugf("Bound sync generation %d to profile %s", s.generation, bound.ProfileID)

	return s.generation
}

func (s *Syncer) watch(scope entity.Scope, kind entity.Kind, generation uint64) func() {
	load := func(ctx context.Context) (any, error) {
		return s.load(ctx, scope, kind)
	}

	deliver := func(ctx context.Context, d service.Delivery) {
		if d.Err != nil {
			s.emit(ctx, state.SubscriptionFailed{
				Kind:       kind,
				ProfileID:  scope.ProfileID,
				Generation: generation,
				Err:        d.Err,
			})
			return
		}
		records, _ := d.Data.([]entity.Record)
		s.emit(ctx, state.RecordsUpdated{
			Kind:       kind,
			ProfileID:  scope.ProfileID,
			Generation: generation,
			Records:    records,
		})
	}

	return s.feed.Watch(s.ctx, scope.CollectionPath(kind), load, deliver)
}

// Live is the number of watchers currently bound.
func (s *Syncer) Live() int {
	return len(s.stops)
}

func (s *Syncer) Generation() uint64 {
	return s.generation
}

// Scope returns the bound scope, or nil.
func (s *Syncer) Scope() *entity.Scope {
	return s.scope
}

// Close unbinds the current scope.
func (s *Syncer) Close() {
	s.Switch(nil)
}

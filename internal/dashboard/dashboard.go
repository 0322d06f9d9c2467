// Package dashboard runs one single-threaded controller per session: every
// state change goes through state.Reduce on the controller's own goroutine.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"family-health-dashboard/internal/delivery/dto"
	"family-health-dashboard/internal/domain/entity"
	"family-health-dashboard/internal/livesync"
	"family-health-dashboard/internal/service"
	"family-health-dashboard/internal/state"
	"family-health-dashboard/internal/usecase"

	"github.com/sirupsen/logrus"
)

var (
	ErrSessionFailed = errors.New("session could not be established")
	ErrClosed        = errors.New("dashboard is closed")
	ErrInvalidView   = errors.New("unknown view")
)

// ProfileLimitMessage is shown when an add would exceed entity.MaxProfiles.
var ProfileLimitMessage = fmt.Sprintf("You can only create up to %d profiles.", entity.MaxProfiles)

const eventBuffer = 64

// Deps are the collaborators shared by every dashboard of a process.
type Deps struct {
	Sessions  usecase.SessionUsecase
	Profiles  usecase.ProfileUsecase
	Records   usecase.RecordQueryUsecase
	Mutations usecase.MutationUsecase
	Exports   usecase.ExportUsecase
	Feed      livesync.Feed
	Log       *logrus.Logger
}

type envelope struct {
	ev      state.Event
	applied chan struct{}
}

type Dashboard struct {
	deps  Deps
	log   *logrus.Logger
	token string

	ctx     context.Context
	cancel  context.CancelFunc
	events  chan envelope
	done    chan struct{}
	ready   chan struct{}
	started atomic.Bool

	mu         sync.RWMutex
	st         state.AppState
	session    *usecase.Session
	sessionErr error

	lastUsed atomic.Int64

	// Owned by the loop goroutine.
	syncer       *livesync.Syncer
	stopProfiles func()
	bound        string
	readyOnce    sync.Once
}

// New prepares a dashboard for token; an empty token asks for an anonymous session.
func New(deps Deps, token string) *Dashboard {
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dashboard{
		deps:   deps,
		log:    deps.Log,
		token:  token,
		ctx:    ctx,
		cancel: cancel,
		events: make(chan envelope, eventBuffer),
		done:   make(chan struct{}),
		ready:  make(chan struct{}),
		st:     state.Initial(),
	}
	d.syncer = livesync.NewSyncer(ctx, deps.Feed, d.loadRecords, d.emit, deps.Log)
	d.touch()
	return d
}

// Start establishes the session and runs the event loop until Close.
func (d *Dashboard) Start() {
	if !d.started.CompareAndSwap(false, true) {
		return
	}
	go d.run()
}

// WaitReady blocks until the session is established or has failed.
func (d *Dashboard) WaitReady(ctx context.Context) error {
	select {
	case <-d.ready:
	case <-ctx.Done():
		return ctx.Err()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.st.Session == state.StatusFailed {
		return fmt.Errorf("%w: %w", ErrSessionFailed, d.sessionErr)
	}
	return nil
}

// Close stops every watcher and the loop. Safe to call multiple times.
func (d *Dashboard) Close() {
	d.cancel()
	if d.started.Load() {
		<-d.done
	}
}

func (d *Dashboard) run() {
	defer close(d.done)
	defer d.teardown()

	session, err := d.deps.Sessions.Establish(d.ctx, d.token)
	if err != nil {
		d.log.Warnf("Failed to establish session: %+v", err)
		d.mu.Lock()
		d.sessionErr = err
		d.mu.Unlock()
		d.apply(state.SessionFailed{Reason: err.Error()})
	} else {
		d.mu.Lock()
		d.session = session
		d.mu.Unlock()
		d.apply(state.SessionReady{Identity: session.Identity()})
	}

	for {
		select {
		case <-d.ctx.Done():
			return
		case env := <-d.events:
			d.apply(env.ev)
			if env.applied != nil {
				close(env.applied)
			}
		}
	}
}

func (d *Dashboard) teardown() {
	d.syncer.Close()
	if d.stopProfiles != nil {
		d.stopProfiles()
		d.stopProfiles = nil
	}
	d.markReady()
}

// apply runs one transition and its effects. Loop goroutine only.
func (d *Dashboard) apply(ev state.Event) {
	d.mu.Lock()
	prev := d.st
	next := state.Reduce(prev, ev)
	d.st = next
	d.mu.Unlock()

	if prev.Session != next.Session {
		switch next.Session {
		case state.StatusReady:
			d.watchProfiles()
			d.markReady()
		case state.StatusFailed:
			d.markReady()
		}
	}

	if next.Session == state.StatusReady && next.ActiveProfileID != d.bound {
		d.rebind(next.ActiveProfileID)
	}
}

func (d *Dashboard) markReady() {
	d.readyOnce.Do(func() { close(d.ready) })
}

// rebind moves the five record watchers to profileID and resets the mirrors.
func (d *Dashboard) rebind(profileID string) {
	d.bound = profileID

	var scope *entity.Scope
	if profileID != "" {
		s := d.Owner().Scope(profileID)
		scope = &s
	}

	generation := d.syncer.Switch(scope)
	d.apply(state.SyncRebound{ProfileID: profileID, Generation: generation})
}

func (d *Dashboard) watchProfiles() {
	owner := d.Owner()
	load := func(ctx context.Context) (any, error) {
		return d.deps.Profiles.List(ctx, owner)
	}
	deliver := func(ctx context.Context, dl service.Delivery) {
		if dl.Err != nil {
			d.emit(ctx, state.SubscriptionFailed{Err: dl.Err})
			return
		}
		profiles, _ := dl.Data.([]entity.Profile)
		d.emit(ctx, state.ProfilesUpdated{Profiles: profiles})
	}
	d.stopProfiles = d.deps.Feed.Watch(d.ctx, owner.ProfilesPath(), load, deliver)
}

func (d *Dashboard) loadRecords(ctx context.Context, scope entity.Scope, kind entity.Kind) ([]entity.Record, error) {
	return d.deps.Records.List(ctx, scope, kind)
}

// emit queues ev without waiting for it to be applied.
func (d *Dashboard) emit(ctx context.Context, ev state.Event) {
	select {
	case d.events <- envelope{ev: ev}:
	case <-ctx.Done():
	case <-d.ctx.Done():
	}
}

// dispatch queues ev and waits until the loop has applied it.
func (d *Dashboard) dispatch(ctx context.Context, ev state.Event) error {
	env := envelope{ev: ev, applied: make(chan struct{})}
	select {
	case d.events <- env:
	case <-ctx.Done():
		return ctx.Err()
	case <-d.ctx.Done():
		return ErrClosed
	}

	select {
	case <-env.applied:
		return nil
	case <-d.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dashboard) raise(ctx context.Context, message string) {
	if err := d.dispatch(ctx, state.ErrorRaised{Message: message}); err != nil {
		d.log.Debugf("Dropped error message %q: %v", message, err)
	}
}

func (d *Dashboard) touch() {
	d.lastUsed.Store(time.Now().UnixNano())
}

// LastUsed is when the dashboard last served a call.
func (d *Dashboard) LastUsed() time.Time {
	return time.Unix(0, d.lastUsed.Load())
}

// Session returns the established session, or nil.
func (d *Dashboard) Session() *usecase.Session {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.session
}

// Owner is the identity root of the session; zero until the session is ready.
func (d *Dashboard) Owner() entity.Owner {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.session == nil {
		return entity.Owner{}
	}
	return d.session.Owner
}

func (d *Dashboard) activeScope() entity.Scope {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.session == nil {
		return entity.Scope{}
	}
	return d.session.Owner.Scope(d.st.ActiveProfileID)
}

// State returns a copy of the current application state.
func (d *Dashboard) State() state.AppState {
	d.touch()
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.st.Clone()
}

// AddProfile creates a profile and selects it. It is a no-op before the session is ready.
func (d *Dashboard) AddProfile(ctx context.Context, name, relationship string) (*entity.Profile, error) {
	d.touch()
	owner := d.Owner()
	if owner.IsZero() {
		return nil, nil
	}

	profile, err := d.deps.Profiles.Add(ctx, owner, name, relationship)
	if err != nil {
		if errors.Is(err, usecase.ErrProfileLimitReached) {
			d.raise(ctx, ProfileLimitMessage)
		} else {
			d.raise(ctx, "Failed to add profile.")
		}
		return nil, err
	}

	if err := d.dispatch(ctx, state.ProfileSelected{ProfileID: profile.ID}); err != nil {
		return profile, err
	}
	return profile, nil
}

// SelectProfile makes an existing profile active.
func (d *Dashboard) SelectProfile(ctx context.Context, profileID string) error {
	d.touch()
	if !d.State().HasProfile(profileID) {
		return usecase.ErrProfileNotFound
	}
	return d.dispatch(ctx, state.ProfileSelected{ProfileID: profileID})
}

// DeleteProfile removes a profile with all of its records.
func (d *Dashboard) DeleteProfile(ctx context.Context, profileID string) error {
	d.touch()
	if err := d.deps.Mutations.DeleteProfile(ctx, d.Owner(), profileID); err != nil {
		d.raise(ctx, "Failed to delete profile.")
		return err
	}
	return nil
}

// SaveRecord creates or updates a record of the active profile and returns to the dashboard view.
func (d *Dashboard) SaveRecord(ctx context.Context, record entity.Record) (entity.Record, error) {
	d.touch()
	saved, err := d.deps.Mutations.SaveRecord(ctx, d.activeScope(), record)
	if err != nil {
		label := "record"
		if record != nil {
			label = record.Kind().Label()
		}
		d.raise(ctx, fmt.Sprintf("Failed to save %s.", label))
		return nil, err
	}
	if saved == nil {
		return nil, nil
	}

	if err := d.dispatch(ctx, state.ViewChanged{View: state.ViewDashboard}); err != nil {
		return saved, err
	}
	return saved, nil
}

// TakeDose takes one unit of a medicine of the active profile and logs it.
func (d *Dashboard) TakeDose(ctx context.Context, medicineID string) (*entity.DoseLog, error) {
	d.touch()
	doseLog, err := d.deps.Mutations.TakeDose(ctx, d.activeScope(), medicineID)
	if err != nil {
		d.raise(ctx, "Failed to record dose.")
		return nil, err
	}
	return doseLog, nil
}

// UploadPrescription stores a prescription file for the active profile and returns its URL.
func (d *Dashboard) UploadPrescription(ctx context.Context, fileName string, r io.Reader) (string, error) {
	d.touch()
	url, err := d.deps.Mutations.UploadPrescription(ctx, d.activeScope(), fileName, r)
	if err != nil {
		d.raise(ctx, "Failed to upload prescription.")
		return "", err
	}
	return url, nil
}

func (d *Dashboard) SetView(ctx context.Context, view state.View) error {
	d.touch()
	if !view.Valid() {
		return ErrInvalidView
	}
	return d.dispatch(ctx, state.ViewChanged{View: view})
}

func (d *Dashboard) DismissError(ctx context.Context) error {
	d.touch()
	return d.dispatch(ctx, state.ErrorDismissed{})
}

// Export builds the report of the active profile from the current mirrors.
func (d *Dashboard) Export(now time.Time) (*dto.ExportReport, error) {
	st := d.State()
	return d.deps.Exports.Generate(st.ActiveProfile(), st.Mirrors, now)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Loader reads the current state of a topic.
type Loader func(ctx context.Context) (any, error)

// Delivery is one snapshot (or load failure) of a watched topic.
type Delivery struct {
	Topic string
	Data  any
	Err   error
}

// ChangeFeed turns store writes into live snapshots.
//
// Writers call Notify with the collection paths they touched after commit.
// Each watcher re-runs its loader whenever its topic is notified and hands the
// result to its deliver callback. Loads of one watcher are sequential and start
// after the latest notification, so snapshots follow commit order. Signals are
// coalesced: a burst of writes may produce a single snapshot.
type ChangeFeed struct {
	notifier Notifier
	log      *logrus.Logger

	mu       sync.Mutex
	watchers map[string]map[uint64]*watcher
	nextID   uint64

	cancelListen context.CancelFunc
	stopped      bool
	wg           sync.WaitGroup
}

type watcher struct {
	id     uint64
	topic  string
	signal chan struct{}
	cancel context.CancelFunc
	done   chan struct{}
}

func NewChangeFeed(notifier Notifier, log *logrus.Logger) *ChangeFeed {
	return &ChangeFeed{
		notifier: notifier,
		log:      log,
		watchers: make(map[string]map[uint64]*watcher),
	}
}

// Start begins receiving notifications. ctx bounds establishing the
// subscription only; the listener itself runs until Stop.
func (f *ChangeFeed) Start(ctx context.Context) error {
	listenCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	abandon := context.AfterFunc(ctx, cancel)
	err := f.notifier.Listen(listenCtx, f.dispatch)
	if !abandon() {
		err = errors.Join(err, ctx.Err())
	}
	if err != nil {
		cancel()
		return fmt.Errorf("start change feed: %w", err)
	}

	f.mu.Lock()
	f.cancelListen = cancel
	f.mu.Unlock()
	f.log.Info("Change feed started")
	return nil
}

// Stop cancels every watcher and waits for them to exit.
// Safe to call multiple times.
func (f *ChangeFeed) Stop() {
	f.mu.Lock()
	if f.stopped {
		f.mu.Unlock()
		return
	}
	f.stopped = true
	if f.cancelListen != nil {
		f.cancelListen()
	}
	for _, byID := range f.watchers {
		for _, w := range byID {
			w.cancel()
		}
	}
	f.mu.Unlock()

	f.wg.Wait()
	if err := f.notifier.Close(); err != nil {
		f.log.Warnf("Failed to close change feed notifier: %+v", err)
	}
	f.log.Info("Change feed stopped")
}

// Notify announces that the given topics changed.
func (f *ChangeFeed) Notify(ctx context.Context, topics ...string) error {
	var errs []error
	for _, topic := range topics {
		if err := f.notifier.Publish(ctx, topic); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Watch delivers an initial snapshot of topic and a fresh one after every
// notification, until ctx is done or the returned stop func is called.
// stop blocks until the watcher goroutine has exited.
func (f *ChangeFeed) Watch(ctx context.Context, topic string, load Loader, deliver func(ctx context.Context, d Delivery)) (stop func()) {
	f.mu.Lock()
	if f.stopped {
		f.mu.Unlock()
		return func() {}
	}

	wctx, cancel := context.WithCancel(ctx)
	w := &watcher{
		id:     f.nextID,
		topic:  topic,
		signal: make(chan struct{}, 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	f.nextID++
	if f.watchers[topic] == nil {
		f.watchers[topic] = make(map[uint64]*watcher)
	}
	f.watchers[topic][w.id] = w
	f.wg.Add(1)
	f.mu.Unlock()

	go f.run(wctx, w, load, deliver)

	return func() {
		cancel()
		<-w.done
	}
}

func (f *ChangeFeed) run(ctx context.Context, w *watcher, load Loader, deliver func(ctx context.Context, d Delivery)) {
	defer func() {
		f.unregister(w)
		close(w.done)
		f.wg.Done()
	}()

	f.load(ctx, w, load, deliver)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.signal:
			f.load(ctx, w, load, deliver)
		}
	}
}

func (f *ChangeFeed) load(ctx context.Context, w *watcher, load Loader, deliver func(ctx context.Context, d Delivery)) {
	if ctx.Err() != nil {
		return
	}
	data, err := load(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		f.log.Warnf("Failed to load snapshot for %s: %+v", w.topic, err)
	}
	deliver(ctx, Delivery{Topic: w.topic, Data: data, Err: err})
}

func (f *ChangeFeed) unregister(w *watcher) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if byID, ok := f.watchers[w.topic]; ok {
		delete(byID, w.id)
		if len(byID) == 0 {
			delete(f.watchers, w.topic)
		}
	}
}

func (f *ChangeFeed) dispatch(topic string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.watchers[topic] {
		select {
		case w.signal <- struct{}{}:
		default:
		}
	}
}

// Watchers counts live watchers whose topic starts with prefix.
func (f *ChangeFeed) Watchers(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for topic, byID := range f.watchers {
		if strings.HasPrefix(topic, prefix) {
			n += len(byID)
		}
	}
	return n
}

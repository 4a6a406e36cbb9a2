package state

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	tgerrors "github.com/matzehuels/trustgraph/pkg/errors"
	"github.com/matzehuels/trustgraph/pkg/observability"
)

// ErrClosed is returned by Wait when the store has been disposed.
var ErrClosed = errors.New("state: store closed")

// Option configures a store.
type Option func(*options)

type options struct {
	logger *log.Logger
}

// WithLogger sets the logger for fetch lifecycle messages (debug level).
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: log.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// store is the request-tracking core shared by Graph and Profile.
// S is the snapshot type exposed to views.
type store[S any] struct {
	name   string
	logger *log.Logger
	life   context.Context
	stop   context.CancelFunc

	mu       sync.Mutex
	state    S
	seq      uint64
	inflight context.CancelFunc
	changed  chan struct{}
}

func newStore[S any](ctx context.Context, name string, initial S, o options) *store[S] {
	life, stop := context.WithCancel(ctx)
	return &store[S]{
		name:    name,
		logger:  o.logger.With("store", name),
		life:    life,
		stop:    stop,
		state:   initial,
		changed: make(chan struct{}),
	}
}

func (s *store[S]) snapshot() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *store[S]) changes() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changed
}

func (s *store[S]) close() { s.stop() }

// disposed reports whether the store stopped accepting updates.
// Must be called with mu held.
func (s *store[S]) disposed() bool { return s.life.Err() != nil }

// notify wakes every observer of the current change channel.
// Must be called with mu held.
func (s *store[S]) notify() {
	close(s.changed)
	s.changed = make(chan struct{})
}

// mutate applies fn unless the store is disposed.
func (s *store[S]) mutate(fn func(*S)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed() {
		return false
	}
	fn(&s.state)
	s.notify()
	return true
}

// ticket identifies one issued request.
type ticket struct {
	seq    uint64
	ctx    context.Context
	cancel context.CancelFunc
	start  time.Time
}

// begin issues a new request: it supersedes any in-flight request, applies
// fn, and returns a ticket whose context ends when the caller's ctx ends, the
// request is superseded, or the store is disposed.
func (s *store[S]) begin(ctx context.Context, fn func(*S)) (*ticket, bool) {
	s.mu.Lock()
	if s.disposed() {
		s.mu.Unlock()
		return nil, false
	}

	if s.inflight != nil {
		s.inflight()
	}
	s.seq++

	reqCtx, cancelReq := context.WithCancel(s.life)
	stopAfter := context.AfterFunc(ctx, cancelReq)
	cancel := func() {
		stopAfter()
		cancelReq()
	}
	t := &ticket{seq: s.seq, ctx: reqCtx, cancel: cancel, start: time.Now()}
	s.inflight = cancel

	fn(&s.state)
	s.notify()
	s.mu.Unlock()

	s.logger.Debug("fetch started", "seq", t.seq)
	observability.Store().OnFetchStart(t.ctx, s.name, t.seq)
	return t, true
}

// settle applies fn if t is still the latest request and the store is live.
func (s *store[S]) settle(t *ticket, err error, fn func(*S)) bool {
	defer t.cancel()

	s.mu.Lock()
	applied := !s.disposed() && t.seq == s.seq
	if applied {
		fn(&s.state)
		s.inflight = nil
		s.notify()
	}
	s.mu.Unlock()

	switch {
	case !applied:
		s.logger.Debug("discarding stale result", "seq", t.seq)
	case err != nil:
		s.logger.Debug("fetch failed", "seq", t.seq, "err", tgerrors.UserMessage(err))
	default:
		s.logger.Debug("fetch succeeded", "seq", t.seq, "elapsed", time.Since(t.start).Round(time.Millisecond))
	}
	observability.Store().OnFetchComplete(t.ctx, s.name, t.seq, applied, time.Since(t.start), err)
	return applied
}

// wait blocks until loading reports false for the current state.
func (s *store[S]) wait(ctx context.Context, loading func(S) bool) (S, error) {
	for {
		s.mu.Lock()
		st, ch := s.state, s.changed
		s.mu.Unlock()

		if !loading(st) {
			return st, nil
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return st, ctx.Err()
		case <-s.life.Done():
			return st, ErrClosed
		}
	}
}

// run issues fetch as a new request and applies its outcome.
func run[S, T any](ctx context.Context, s *store[S], start func(*S), fetch func(context.Context) (T, error), done func(*S, T, error)) {
	t, ok := s.begin(ctx, start)
	if !ok {
		return
	}
	complete(s, t, fetch, done)
}

func complete[S, T any](s *store[S], t *ticket, fetch func(context.Context) (T, error), done func(*S, T, error)) {
	v, err := fetch(t.ctx)
	s.settle(t, err, func(st *S) { done(st, v, err) })
}

// Package stream owns the live-code subscription: it opens one push
// connection per parameter snapshot, feeds the countdown clock, and decides
// between retrying and halting when the stream fails.
package stream

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/totp-live/tui/internal/countdown"
	"github.com/totp-live/tui/internal/params"
)

const (
	DefaultRetryDelay   = 2 * time.Second
	DefaultTickInterval = 1 * time.Second
	eventBuffer         = 64
)

// ErrStreamClosed is reported when the server ends a stream without error.
var ErrStreamClosed = errors.New("stream closed by server")

// Transition describes one state change, for observers such as a debug log.
type Transition struct {
	From      State
	To        State
	Trigger   Trigger
	SessionID string
	At        time.Time
	Detail    string
}

// Status is a point-in-time view of the session.
type Status struct {
	State     State
	Params    params.Set
	SessionID string
	Attempts  int
}

// Option configures a Session.
type Option func(*Session)

// WithRetryDelay sets the wait between a transient fault and the restart.
func WithRetryDelay(d time.Duration) Option {
	return func(s *Session) { s.retryDelay = d }
}

// WithTickInterval sets the local countdown tick.
func WithTickInterval(d time.Duration) Option {
	return func(s *Session) { s.tickInterval = d }
}

// WithNow replaces the wall clock.
func WithNow(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithObserver registers a callback run on the session goroutine after
// every state change. It must not block.
func WithObserver(fn func(Transition)) Option {
	return func(s *Session) { s.observe = fn }
}

type (
	startEvent   struct{ p params.Set }
	stopEvent    struct{}
	messageEvent struct {
		gen  uint64
		data []byte
	}
	faultEvent struct {
		gen uint64
		err error
	}
	tickEvent  struct{ gen uint64 }
	retryEvent struct {
		gen uint64
		p   params.Set
	}
	statusEvent struct{ reply chan Status }
)

// Session is the single live subscription. All of its state is owned by the
// goroutine running Run; the exported methods only post events to it.
type Session struct {
	transport Transport
	sink      Sink

	retryDelay   time.Duration
	tickInterval time.Duration
	now          func() time.Time
	log          *slog.Logger
	observe      func(Transition)

	events chan any
	done   chan struct{}

	// Owned by the Run goroutine.
	ctx      context.Context
	state    State
	params   params.Set
	gen      uint64
	id       string
	attempts int
	cancel   context.CancelFunc
	retry    *time.Timer
	clock    *countdown.Clock
}

// New creates a session. Nothing happens until Run is started.
func New(t Transport, sink Sink, opts ...Option) *Session {
	s := &Session{
		transport:    t,
		sink:         sink,
		retryDelay:   DefaultRetryDelay,
		tickInterval: DefaultTickInterval,
		now:          time.Now,
		log:          slog.Default(),
		events:       make(chan any, eventBuffer),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start replaces any current subscription with one for p. An invalid p
// closes the current subscription and resets the display.
func (s *Session) Start(p params.Set) { s.post(startEvent{p: p}) }

// Stop closes the current subscription and cancels any pending retry.
func (s *Session) Stop() { s.post(stopEvent{}) }

// Status asks the session goroutine for its current state.
func (s *Session) Status() Status {
	reply := make(chan Status, 1)
	s.post(statusEvent{reply: reply})
	select {
	case st := <-reply:
		return st
	case <-s.done:
		return Status{State: StateIdle}
	}
}

// Run processes events until ctx is cancelled. It must be called once.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)
	s.ctx = ctx
	for {
		select {
		case <-ctx.Done():
			s.teardown()
			s.state = StateIdle
			return ctx.Err()
		case ev := <-s.events:
			s.handle(ev)
		}
	}
}

func (s *Session) post(ev any) {
	select {
	case s.events <- ev:
	case <-s.done:
	}
}

func (s *Session) handle(ev any) {
	switch ev := ev.(type) {
	case startEvent:
		s.handleStart(ev.p)
	case stopEvent:
		s.teardown()
		s.fire(TriggerStop, "")
	case messageEvent:
		if ev.gen == s.gen {
			s.handleMessage(ev.data)
		}
	case faultEvent:
		if ev.gen == s.gen {
			s.handleFault(ev.err)
		}
	case tickEvent:
		if ev.gen == s.gen {
			s.handleTick()
		}
	case retryEvent:
		if ev.gen != s.gen {
			return
		}
		if _, ok := Next(s.state, TriggerRetry); ok {
			s.retry = nil
			s.open(ev.p)
			s.fire(TriggerRetry, "")
		}
	case statusEvent:
		ev.reply <- Status{
			State:     s.state,
			Params:    s.params,
			SessionID: s.id,
			Attempts:  s.attempts,
		}
	}
}

func (s *Session) handleStart(p params.Set) {
	s.teardown()
	if !p.Valid() {
		s.params = p
		s.clock = nil
		s.fire(TriggerInvalidParams, "")
		s.sink.SetCode(NoCode)
		idle := countdown.Idle()
		s.sink.SetCountdown(idle.RemainingTime)
		s.sink.SetProgress(idle.ProgressPercent)
		return
	}
	s.open(p)
	s.fire(TriggerParams, p.String())
}

func (s *Session) handleMessage(data []byte) {
	v := Classify(data)
	switch {
	case v.Malformed():
		if !s.fire(TriggerMalformed, v.Err.Error()) {
			return
		}
		s.log.Warn("discarding malformed stream message", "session", s.id, "error", v.Err)
		s.sink.SetCode(NoCode)

	case v.Kind == KindValidation:
		if !s.fire(TriggerRejected, v.Message) {
			return
		}
		s.log.Warn("server rejected parameters", "session", s.id, "message", v.Message)
		s.sink.NotifyError(v.Message)
		s.sink.SetCode(NoCode)
		s.teardown()

	default:
		if !s.fire(TriggerSuccess, "") {
			return
		}
		u := v.Update
		s.clock.Anchor(u.RemainingTime, u.ProgressPercent, s.now())
		s.sink.SetCode(u.Code)
		s.sink.SetCountdown(u.RemainingTime)
		s.sink.SetProgress(u.ProgressPercent)
	}
}

func (s *Session) handleFault(err error) {
	v := ClassifyTransport(err)
	if !s.fire(TriggerFault, v.Err.Error()) {
		return
	}
	s.log.Warn("stream connection failed", "session", s.id, "error", v.Err, "retry_in", s.retryDelay)
	s.sink.SetFailedIndicator()

	p := s.params
	s.teardown()
	gen := s.gen
	s.retry = time.AfterFunc(s.retryDelay, func() {
		s.post(retryEvent{gen: gen, p: p})
	})
}

func (s *Session) handleTick() {
	st := countdown.Idle()
	if s.clock != nil && s.params.Valid() {
		st = s.clock.At(s.now())
	}
	s.sink.SetCountdown(st.RemainingTime)
	s.sink.SetProgress(st.ProgressPercent)
}

// open replaces whatever is running with a connection and tick for p.
func (s *Session) open(p params.Set) {
	s.teardown()
	s.params = p
	s.id = uuid.NewString()
	s.attempts++
	s.clock = countdown.New(p.Period)

	ctx, cancel := context.WithCancel(s.ctx)
	s.cancel = cancel
	gen := s.gen

	s.log.Info("opening stream", "session", s.id, "params", p.String(), "attempt", s.attempts)
	go s.subscribe(ctx, gen, p)
	go s.tickLoop(ctx, gen)
}

func (s *Session) subscribe(ctx context.Context, gen uint64, p params.Set) {
	err := s.transport.Subscribe(ctx, p, func(data []byte) {
		s.post(messageEvent{gen: gen, data: data})
	})
	if ctx.Err() != nil {
		return
	}
	s.post(faultEvent{gen: gen, err: err})
}

func (s *Session) tickLoop(ctx context.Context, gen uint64) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.post(tickEvent{gen: gen})
		}
	}
}

// teardown closes the connection, stops the tick and cancels a pending
// retry. Bumping the generation makes any event already in flight from them
// stale.
func (s *Session) teardown() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.retry != nil {
		s.retry.Stop()
		s.retry = nil
	}
	s.gen++
}

func (s *Session) fire(t Trigger, detail string) bool {
	to, ok := Next(s.state, t)
	if !ok {
		s.log.Debug("ignoring trigger", "session", s.id, "state", s.state, "trigger", t)
		return false
	}
	from := s.state
	s.state = to
	if s.observe != nil {
		s.observe(Transition{
			From:      from,
			To:        to,
			Trigger:   t,
			SessionID: s.id,
			At:        s.now(),
			Detail:    detail,
		})
	}
	return true
}

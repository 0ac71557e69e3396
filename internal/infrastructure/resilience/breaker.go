package resilience

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrCircuitOpen rejects calls while the upstream cools off.
	ErrCircuitOpen = errors.New("circuit open")
	// ErrProbeLimit rejects calls beyond the half-open probe quota.
	ErrProbeLimit = errors.New("circuit probing")
)

// State is the breaker position.
type State uint8

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	}
	return "unknown"
}

// Config tunes a Breaker. Zero fields take the documented defaults.
type Config struct {
	// FailureThreshold is the run of consecutive failures that trips a
	// closed breaker. Default 5.
	FailureThreshold int
	// Cooldown is how long an open breaker rejects everything before it
	// starts probing. Default 30s.
	Cooldown time.Duration
	// ProbeQuota caps in-flight probes while half-open. Default 1.
	ProbeQuota int
	// SuccessTarget is the number of successful probes that close the
	// breaker again. Defaults to ProbeQuota.
	SuccessTarget int
}

func (c Config) withDefaults() Config {
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = 5
	}
	if c.Cooldown <= 0 {
		c.Cooldown = 30 * time.Second
	}
	if c.ProbeQuota <= 0 {
		c.ProbeQuota = 1
	}
	if c.SuccessTarget <= 0 {
		c.SuccessTarget = c.ProbeQuota
	}
	return c
}

// Breaker guards calls to one upstream. Callers bracket the guarded call
// with Allow and Record:
//
//	if err := b.Allow(); err != nil {
//		return err
//	}
//	err := call()
//	b.Record(err == nil)
//
// A run of failures opens the breaker. After the cooldown a bounded number
// of probe calls test the upstream; enough probe successes close it, any
// probe failure restarts the cooldown.
type Breaker struct {
	cfg Config

	mu         sync.Mutex
	state      State
	failures   int // consecutive failures while closed
	inflight   int // probes running while half-open
	goodProbes int // successful probes this half-open round
	openedAt   time.Time
}

// New creates a closed breaker.
func New(cfg Config) *Breaker {
	return &Breaker{cfg: cfg.withDefaults()}
}

// Allow reports whether a call may proceed now. Every accepted call must be
// answered by exactly one Record.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.step(time.Now()) {
	case StateOpen:
		return ErrCircuitOpen
	case StateHalfOpen:
		if b.inflight >= b.cfg.ProbeQuota {
			return ErrProbeLimit
		}
		b.inflight++
	}
	return nil
}

// Record reports the outcome of a call admitted by Allow. An outcome that
// straddled a trip counts toward the current round.
func (b *Breaker) Record(ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		if ok {
			b.failures = 0
			return
		}
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.trip(time.Now())
		}
	case StateHalfOpen:
		if b.inflight > 0 {
			b.inflight--
		}
		if !ok {
			b.trip(time.Now())
			return
		}
		b.goodProbes++
		if b.goodProbes >= b.cfg.SuccessTarget {
			b.state = StateClosed
			b.failures = 0
		}
	case StateOpen:
		// Stale outcome from before the trip; the cooldown stands.
	}
}

// State returns the current position, advancing open to half-open once the
// cooldown has passed.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.step(time.Now())
}

// step advances an expired open state to half-open. Callers hold mu.
func (b *Breaker) step(now time.Time) State {
	if b.state == StateOpen && now.Sub(b.openedAt) >= b.cfg.Cooldown {
		b.state = StateHalfOpen
		b.inflight = 0
		b.goodProbes = 0
	}
	return b.state
}

// trip opens the breaker and starts the cooldown. Callers hold mu.
func (b *Breaker) trip(now time.Time) {
	b.state = StateOpen
	b.openedAt = now
	b.failures = 0
	b.inflight = 0
	b.goodProbes = 0
}

package infra

import (
	"errors"
	"sync"
	"time"
)

// ── SMTP Circuit Breaker ──────────────────────────────────────────────────────
// Guards the outbound mail relay. When the relay starts refusing report
// deliveries, the breaker trips open and the report workers fast-fail into
// their retry schedule instead of holding SMTP connections against a dead
// host. After OpenTimeout a single delivery is let through as a probe;
// enough consecutive probe successes close the breaker again.

// CBState is the breaker's position: closed (deliveries flow), open
// (deliveries fast-fail), or half-open (probing the relay).
type CBState int

const (
	CBClosed CBState = iota
	CBOpen
	CBHalfOpen
)

func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned by Execute while the relay is being avoided.
// Workers treat it as retryable; the retry cron also checks State directly
// so it never floods the queue while the breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreakerConfig tunes how quickly the breaker trips and recovers.
type CircuitBreakerConfig struct {
	FailureThreshold int           // consecutive delivery failures before tripping
	SuccessThreshold int           // consecutive half-open successes before closing
	OpenTimeout      time.Duration // cool-down before the first probe delivery
}

// DefaultCBConfig matches the mail relay's observed recovery behavior:
// five straight failures almost always mean the relay is down, and a
// minute is long enough for it to come back.
func DefaultCBConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      time.Minute,
	}
}

// CircuitBreaker is safe for use by the whole worker pool concurrently.
type CircuitBreaker struct {
	mu        sync.Mutex
	cfg       CircuitBreakerConfig
	state     CBState
	failures  int       // consecutive failures while closed
	successes int       // consecutive successes while half-open
	trippedAt time.Time // when the breaker last opened
}

// NewCircuitBreaker starts closed. Zero or negative config fields fall back
// to the defaults.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	def := DefaultCBConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = def.SuccessThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	return &CircuitBreaker{cfg: cfg, state: CBClosed}
}

// State reports the current position, promoting open to half-open once the
// cool-down has elapsed.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.maybeProbe()
	return cb.state
}

// Execute runs one delivery attempt through the breaker. While open it
// returns ErrCircuitOpen without touching the relay.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	cb.maybeProbe()
	if cb.state == CBOpen {
		cb.mu.Unlock()
		return ErrCircuitOpen
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.recordFailure()
		return err
	}
	cb.recordSuccess()
	return nil
}

// maybeProbe moves open → half-open after the cool-down. Caller holds mu.
func (cb *CircuitBreaker) maybeProbe() {
	if cb.state == CBOpen && time.Since(cb.trippedAt) >= cb.cfg.OpenTimeout {
		cb.state = CBHalfOpen
		cb.successes = 0
	}
}

func (cb *CircuitBreaker) recordFailure() {
	switch cb.state {
	case CBClosed:
		cb.failures++
		if cb.failures >= cb.cfg.FailureThreshold {
			cb.trip()
		}
	case CBHalfOpen:
		// The probe delivery failed; the relay is still down.
		cb.trip()
	}
}

func (cb *CircuitBreaker) recordSuccess() {
	switch cb.state {
	case CBClosed:
		cb.failures = 0
	case CBHalfOpen:
		cb.successes++
		if cb.successes >= cb.cfg.SuccessThreshold {
			cb.state = CBClosed
			cb.failures = 0
			cb.successes = 0
		}
	}
}

func (cb *CircuitBreaker) trip() {
	cb.state = CBOpen
	cb.trippedAt = time.Now()
	cb.failures = 0
}

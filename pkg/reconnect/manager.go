package reconnect

import (
	"context"
	"fmt"
	"sync"
	"time"

	"saju/pkg/errors"
	"saju/pkg/logger"
)

// ErrCircuitOpen is returned once MaxRetries consecutive attempts have failed
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Manager retries a connection with exponential backoff and opens a circuit
// breaker after too many consecutive failures
type Manager struct {
	minBackoff        time.Duration
	maxBackoff        time.Duration
	backoffMultiplier float64
	maxRetries        int

	mu                  sync.Mutex
	currentBackoff      time.Duration
	consecutiveFailures int
	circuitOpen         bool

	logger *logger.Logger
}

// Config configures the reconnect manager
type Config struct {
	MinBackoff        time.Duration // Wait before the second attempt (e.g. 100ms)
	MaxBackoff        time.Duration // Backoff ceiling (e.g. 2s)
	BackoffMultiplier float64       // Growth per failure (e.g. 2.0)
	MaxRetries        int           // Consecutive failures before the circuit opens
}

// Stats is a snapshot of the manager state
type Stats struct {
	ConsecutiveFailures int
	CurrentBackoff      time.Duration
	CircuitOpen         bool
}

// NewManager creates a reconnect manager, filling unset fields with defaults
func NewManager(config Config, log *logger.Logger) *Manager {
	if config.MinBackoff <= 0 {
		config.MinBackoff = 100 * time.Millisecond
	}
	if config.MaxBackoff <= 0 {
		config.MaxBackoff = 2 * time.Second
	}
	if config.MaxBackoff < config.MinBackoff {
		config.MaxBackoff = config.MinBackoff
	}
	if config.BackoffMultiplier < 1 {
		config.BackoffMultiplier = 2.0
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = 3
	}
	if log == nil {
		log = logger.Nop()
	}

	return &Manager{
		minBackoff:        config.MinBackoff,
		maxBackoff:        config.MaxBackoff,
		backoffMultiplier: config.BackoffMultiplier,
		maxRetries:        config.MaxRetries,
		currentBackoff:    config.MinBackoff,
		logger:            log,
	}
}

// Stats returns the current state
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Stats{
		ConsecutiveFailures: m.consecutiveFailures,
		CurrentBackoff:      m.currentBackoff,
		CircuitOpen:         m.circuitOpen,
	}
}

// RecordFailure grows the backoff and opens the circuit at MaxRetries
func (m *Manager) RecordFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.consecutiveFailures++

	next := time.Duration(float64(m.currentBackoff) * m.backoffMultiplier)
	if next > m.maxBackoff {
		next = m.maxBackoff
	}
	m.currentBackoff = next

	if m.consecutiveFailures >= m.maxRetries {
		m.circuitOpen = true
		m.logger.Warnw("Circuit breaker opened",
			"consecutive_failures", m.consecutiveFailures,
			"max_retries", m.maxRetries,
		)
	}
}

// RecordSuccess resets the backoff and closes the circuit
func (m *Manager) RecordSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.consecutiveFailures > 0 {
		m.logger.Debugw("Connected after retries", "failures", m.consecutiveFailures)
	}

	m.currentBackoff = m.minBackoff
	m.consecutiveFailures = 0
	m.circuitOpen = false
}

// Reset closes the circuit so Connect may try again
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.circuitOpen = false
	m.consecutiveFailures = 0
	m.currentBackoff = m.minBackoff
}

// Connect calls connectFn until it succeeds, the circuit opens or ctx ends.
// The first attempt runs immediately.
func (m *Manager) Connect(ctx context.Context, connectFn func(context.Context) error) error {
	var lastErr error

	for attempt := 1; ; attempt++ {
		state := m.Stats()
		if state.CircuitOpen {
			if lastErr == nil {
				return ErrCircuitOpen
			}
			return fmt.Errorf("%w after %d attempts: %w", ErrCircuitOpen, attempt-1, lastErr)
		}

		if attempt > 1 {
			select {
			case <-time.After(state.CurrentBackoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if lastErr = connectFn(ctx); lastErr == nil {
			m.RecordSuccess()
			return nil
		}

		m.logger.Debugw("Connection attempt failed", "attempt", attempt, "error", lastErr)
		m.RecordFailure()
	}
}

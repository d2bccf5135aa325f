// internal/netwatch/netwatch.go
package netwatch

import (
	"context"
	"sync"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// State is the connection manager's externally observable state.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateConnected
	StateRetrying
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateRetrying:
		return "retrying"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Link is one network attachment: a single connection attempt plus
// supervision of the established attachment. Production uses TCPLink;
// tests substitute fakes.
type Link interface {
	// Connect makes exactly one attempt.
	Connect(ctx context.Context) error
	// Monitor blocks while the attachment is healthy and returns the
	// reason once it is lost.
	Monitor(ctx context.Context) error
}

// Manager supervises the network link. The relay cannot make progress
// without network, so exhausting the retry budget is terminal: Run
// returns an error and the caller exits the process.
type Manager struct {
	link     Link
	maxTries uint
	log      *zap.Logger

	mu    sync.Mutex
	state State

	readyOnce sync.Once
	ready     chan error
}

// New creates a manager. retries is the number of additional attempts
// allowed after a failed one; retries=0 means a single attempt.
func New(link Link, retries int, log *zap.Logger) *Manager {
	return &Manager{
		link:     link,
		maxTries: uint(retries) + 1,
		log:      log,
		state:    StateIdle,
		ready:    make(chan error, 1),
	}
}

// State returns the current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

func (m *Manager) signalReady(err error) {
	m.readyOnce.Do(func() { m.ready <- err })
}

// WaitReady blocks until the first connect round succeeds or fails.
// Exactly one outcome is ever delivered.
func (m *Manager) WaitReady(ctx context.Context) error {
	select {
	case err := <-m.ready:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run drives the state machine forever: connect, supervise, reconnect
// on loss. It returns only when the retry budget is exhausted or the
// context ends; either way the caller treats the return as fatal.
func (m *Manager) Run(ctx context.Context) error {
	for {
		if err := m.connect(ctx); err != nil {
			m.setState(StateFailed)
			m.signalReady(err)
			return err
		}

		m.setState(StateConnected)
		m.signalReady(nil)
		m.log.Info("network link up")

		err := m.link.Monitor(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		m.log.Warn("network link lost", zap.Error(err))
		m.setState(StateRetrying)
	}
}

// connect runs one retry round. The attempt counter starts fresh each
// round: a successful connection resets the budget.
func (m *Manager) connect(ctx context.Context) error {
	attempt := 0

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		m.setState(StateConnecting)
		attempt++

		if err := m.link.Connect(ctx); err != nil {
			m.log.Warn("connection attempt failed",
				zap.Int("attempt", attempt),
				zap.Error(err))
			m.setState(StateRetrying)
			return struct{}{}, err
		}
		return struct{}{}, nil
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(m.maxTries),
	)
	return err
}

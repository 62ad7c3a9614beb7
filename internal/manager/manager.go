// Package manager owns the per-venue generation lifecycle: the
// Active/Suspended/Terminated state machine, the shared synthetic
// identifier generator, the outbound order-message counter, and the
// list of callbacks postponed executors register to resume on launch.
// Grounded on generation_manager.cpp.
package manager

import (
	"sync"

	"go.uber.org/zap"

	"ordergen/internal/domain"
)

// LaunchListener is invoked exactly once, outside any lock, the next
// time the manager transitions into the running state. An alias, not
// a defined type, so Manager satisfies executor.ComponentContext's
// CallOnLaunch(func()) without either package importing the other.
type LaunchListener = func()

// Manager is the venue-scoped ComponentContext every Executor and
// OrderGenerationAlgorithm instance for that venue shares.
type Manager struct {
	venue domain.Venue

	mu        sync.Mutex
	listeners []LaunchListener
	state     domain.GenerationState

	identifiers *domain.IdentifierGenerator
	messageSeq  uint64

	logger *zap.Logger
}

// New builds a Manager for target_venue, starting Active if the
// venue's OrdersOnStartup flag is set, Suspended otherwise.
func New(venue domain.Venue, logger *zap.Logger) *Manager {
	state := domain.StateSuspended
	if venue.OrdersOnStartup {
		state = domain.StateActive
	}
	return &Manager{
		venue:       venue,
		state:       state,
		identifiers: domain.NewIdentifierGenerator(),
		logger:      logger,
	}
}

// IsRunning reports whether the venue is currently Active.
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == domain.StateActive
}

// Venue returns the venue configuration this manager owns.
func (m *Manager) Venue() domain.Venue {
	return m.venue
}

// GenerateIdentifier returns the next synthetic client order id.
func (m *Manager) GenerateIdentifier() string {
	return m.identifiers.Generate()
}

// NextMessageNumber increments and returns the venue's generated
// order-message counter.
func (m *Manager) NextMessageNumber() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messageSeq++
	return m.messageSeq
}

// CallOnLaunch registers listener to run the next time the manager
// transitions into the running state. Registration is a no-op once
// the manager is terminated, since it will never run again.
func (m *Manager) CallOnLaunch(listener LaunchListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == domain.StateTerminated {
		return
	}
	m.listeners = append(m.listeners, listener)
}

// Launch transitions the venue to Active and drains every pending
// launch listener, invoking each exactly once outside the lock.
func (m *Manager) Launch() {
	m.mu.Lock()
	if m.state == domain.StateActive {
		m.mu.Unlock()
		return
	}
	if m.state == domain.StateTerminated {
		m.mu.Unlock()
		m.logger.Warn("unable to launch generation, as it has been terminated previously")
		return
	}

	m.state = domain.StateActive
	pending := m.listeners
	m.listeners = nil
	m.mu.Unlock()

	for _, listener := range pending {
		listener()
	}
}

// Suspend transitions the venue to Suspended, unless it is terminated.
func (m *Manager) Suspend() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != domain.StateTerminated {
		m.state = domain.StateSuspended
	}
}

// Terminate permanently transitions the venue to Terminated.
func (m *Manager) Terminate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = domain.StateTerminated
}

package manager

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ordergen/internal/domain"
	"ordergen/internal/logging"
)

func TestManagerStartsSuspendedUnlessOrdersOnStartup(t *testing.T) {
	suspended := New(domain.Venue{VenueID: "V1"}, logging.NewNop())
	require.False(t, suspended.IsRunning())

	active := New(domain.Venue{VenueID: "V2", OrdersOnStartup: true}, logging.NewNop())
	require.True(t, active.IsRunning())
}

func TestManagerLaunchDrainsPendingListeners(t *testing.T) {
	m := New(domain.Venue{VenueID: "V1"}, logging.NewNop())

	var calls int
	m.CallOnLaunch(func() { calls++ })
	m.CallOnLaunch(func() { calls++ })
	require.Equal(t, 0, calls)

	m.Launch()
	require.True(t, m.IsRunning())
	require.Equal(t, 2, calls)

	// A listener registered after launch with the manager already
	// running is never replayed automatically by Launch again.
	m.CallOnLaunch(func() { calls++ })
	require.Equal(t, 2, calls)
}

func TestManagerSuspendThenRelaunch(t *testing.T) {
	m := New(domain.Venue{VenueID: "V1", OrdersOnStartup: true}, logging.NewNop())
	require.True(t, m.IsRunning())

	m.Suspend()
	require.False(t, m.IsRunning())

	m.Launch()
	require.True(t, m.IsRunning())
}

func TestManagerTerminateIsAbsorbing(t *testing.T) {
	m := New(domain.Venue{VenueID: "V1"}, logging.NewNop())
	m.Terminate()
	require.False(t, m.IsRunning())

	m.Launch()
	require.False(t, m.IsRunning(), "a terminated manager must never relaunch")

	var called bool
	m.CallOnLaunch(func() { called = true })
	m.Launch()
	require.False(t, called, "listeners registered after termination are dropped")
}

func TestManagerNextMessageNumberIncrements(t *testing.T) {
	m := New(domain.Venue{VenueID: "V1"}, logging.NewNop())
	require.Equal(t, uint64(1), m.NextMessageNumber())
	require.Equal(t, uint64(2), m.NextMessageNumber())
}

func TestManagerGenerateIdentifierIsUnique(t *testing.T) {
	m := New(domain.Venue{VenueID: "V1"}, logging.NewNop())
	first := m.GenerateIdentifier()
	second := m.GenerateIdentifier()
	require.NotEqual(t, first, second)
}

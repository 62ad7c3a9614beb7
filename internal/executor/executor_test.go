package executor

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ordergen/internal/domain"
	"ordergen/internal/logging"
	"ordergen/internal/manager"
)

type countingExecutable struct {
	ticks    atomic.Int64
	interval time.Duration
	finishAt int64
}

func (e *countingExecutable) Prepare() {}

func (e *countingExecutable) Execute() error {
	e.ticks.Add(1)
	return nil
}

func (e *countingExecutable) Finished() bool {
	return e.finishAt > 0 && e.ticks.Load() >= e.finishAt
}

func (e *countingExecutable) NextExecTimeout() time.Duration { return e.interval }

func TestExecutorPostponesLaunchUntilManagerIsRunning(t *testing.T) {
	mgr := manager.New(domain.Venue{VenueID: "V1"}, logging.NewNop()) // starts Suspended
	exe := &countingExecutable{interval: 2 * time.Millisecond}
	exec := New(exe, mgr, logging.NewNop())

	exec.Launch()
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, int64(0), exe.ticks.Load(), "executor must not run before the venue is launched")

	mgr.Launch()
	require.Eventually(t, func() bool { return exe.ticks.Load() > 0 }, time.Second, time.Millisecond)

	exec.Terminate()
}

func TestExecutorTerminateStopsTicking(t *testing.T) {
	mgr := manager.New(domain.Venue{VenueID: "V1", OrdersOnStartup: true}, logging.NewNop())
	exe := &countingExecutable{interval: time.Millisecond}
	exec := New(exe, mgr, logging.NewNop())

	exec.Launch()
	require.Eventually(t, func() bool { return exe.ticks.Load() > 2 }, time.Second, time.Millisecond)

	exec.Terminate()
	ticksAtTermination := exe.ticks.Load()
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, ticksAtTermination, exe.ticks.Load(), "no further ticks after Terminate")

	exec.Launch()
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, ticksAtTermination, exe.ticks.Load(), "a terminated executor must never relaunch")
}

func TestExecutorStopsWhenExecutableFinishes(t *testing.T) {
	mgr := manager.New(domain.Venue{VenueID: "V1", OrdersOnStartup: true}, logging.NewNop())
	exe := &countingExecutable{interval: time.Millisecond, finishAt: 3}
	exec := New(exe, mgr, logging.NewNop())

	exec.Launch()
	require.Eventually(t, func() bool { return exe.ticks.Load() == 3 }, time.Second, time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	require.Equal(t, int64(3), exe.ticks.Load(), "a finished executable must not keep executing")
}

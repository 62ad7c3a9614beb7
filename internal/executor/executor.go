// Package executor drives Executable objects on their own scheduled
// cadence in a dedicated goroutine, honoring a venue-wide running gate
// owned by internal/manager. Grounded on executor.cpp.
package executor

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Executable is one schedulable unit of work: the random generation
// loop for an instrument, or the historical replay scheduler.
type Executable interface {
	Prepare()
	Execute() error
	Finished() bool
	NextExecTimeout() time.Duration
}

// ComponentContext is the venue-wide gate and launch-listener registry
// an Executor consults before and during each run, implemented by
// internal/manager.Manager.
type ComponentContext interface {
	IsRunning() bool
	CallOnLaunch(func())
}

// Executor runs one Executable in its own goroutine between launch and
// terminate, re-arming itself through the component context's launch
// listeners if it is asked to launch while the venue isn't running
// yet, or if its work loop exits because the venue was suspended.
type Executor struct {
	executable Executable
	context    ComponentContext
	logger     *zap.Logger

	mu         sync.Mutex
	running    bool
	wg         sync.WaitGroup
	terminated bool
}

// New builds an Executor for the given Executable.
func New(executable Executable, context ComponentContext, logger *zap.Logger) *Executor {
	return &Executor{executable: executable, context: context, logger: logger}
}

// Launch starts the work loop, or postpones it via the component
// context's launch listeners if the venue isn't running yet. Safe to
// call repeatedly; a launch on an already-running executor is a no-op.
func (e *Executor) Launch() {
	e.mu.Lock()
	if e.terminated {
		e.mu.Unlock()
		e.logger.Warn("unable to launch a generation executor as it was terminated previously")
		return
	}

	if !e.context.IsRunning() {
		e.mu.Unlock()
		e.context.CallOnLaunch(e.Launch)
		e.logger.Info("postponed launching of generation executor")
		return
	}

	if e.running {
		e.mu.Unlock()
		e.logger.Warn("unable to launch a generation executor as it is in executing state already")
		return
	}

	e.start()
	e.mu.Unlock()
	e.logger.Info("generation executor was launched successfully")
}

// start must be called with e.mu held.
func (e *Executor) start() {
	e.running = true
	e.wg.Add(1)
	go e.run()
}

// Terminate stops the work loop permanently and blocks until its
// goroutine has exited.
func (e *Executor) Terminate() {
	e.mu.Lock()
	e.terminated = true
	e.mu.Unlock()

	e.wg.Wait()
	e.logger.Info("generation executor was terminated successfully")
}

func (e *Executor) run() {
	defer e.wg.Done()

	e.executable.Prepare()

	func() {
		defer func() {
			if r := recover(); r != nil {
				e.logger.Error("error occurred in the generation executor's goroutine", zap.Any("panic", r))
			}
		}()

		for !e.isTerminated() && e.context.IsRunning() {
			if err := e.executable.Execute(); err != nil {
				e.logger.Error("error occurred while executing a generation tick", zap.Error(err))
			}
			if e.executable.Finished() {
				e.markTerminated()
				break
			}
			time.Sleep(e.executable.NextExecTimeout())
		}
	}()

	e.mu.Lock()
	terminated := e.terminated
	e.running = false
	e.mu.Unlock()

	if terminated {
		e.logger.Debug("generation executor's goroutine has been terminated")
		return
	}

	e.context.CallOnLaunch(e.Launch)
	e.logger.Debug("generation executor's goroutine has been suspended till next launch notification")
}

func (e *Executor) isTerminated() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.terminated
}

func (e *Executor) markTerminated() {
	e.mu.Lock()
	e.terminated = true
	e.mu.Unlock()
}

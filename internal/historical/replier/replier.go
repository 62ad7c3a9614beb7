// Package replier wires a Scheduler and an ActionProcessor together
// into the Executable the executor drives for one venue's historical
// replay. Grounded on historical/replier.cpp.
package replier

import (
	"time"

	"go.uber.org/zap"

	"ordergen/internal/historical/processor"
	"ordergen/internal/historical/scheduler"
	"ordergen/internal/historicaldomain"
)

// Replier drives one datasource's historical replay: each Execute call
// lets the scheduler hand the next due action to the processor.
type Replier struct {
	scheduler *scheduler.Scheduler
	processor *processor.ActionProcessor
	logger    *zap.Logger
}

// New builds a Replier over sched and proc. A nil scheduler is accepted
// and yields a Replier that is immediately Finished; proc must be non-nil
// whenever sched is.
func New(sched *scheduler.Scheduler, proc *processor.ActionProcessor, logger *zap.Logger) *Replier {
	return &Replier{scheduler: sched, processor: proc, logger: logger}
}

// Prepare (re)initializes the scheduler's wall-clock time offset.
func (r *Replier) Prepare() {
	if r.scheduler != nil {
		r.scheduler.Initialize()
	}
}

// Execute hands the next due action, if any, to the processor.
func (r *Replier) Execute() error {
	if r.scheduler == nil {
		return nil
	}
	r.scheduler.ProcessNextAction(func(action historicaldomain.Action) {
		r.logger.Debug("historical replier is applying historical action", zap.Int("record_count", len(action.Records)))
		r.processor.Process(action)
	})
	return nil
}

// Finished reports whether the scheduler has nothing left to replay.
func (r *Replier) Finished() bool {
	return r.scheduler == nil || r.scheduler.Finished()
}

// NextExecTimeout reports how long to wait before the next action is
// due.
func (r *Replier) NextExecTimeout() time.Duration {
	if r.scheduler == nil {
		return 0
	}
	return r.scheduler.NextActionTimeout()
}

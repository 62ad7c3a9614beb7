// Package scheduler pulls time-grouped Actions from a Provider into a
// pending queue and hands them out one at a time, at the wall-clock
// moment each is due. Grounded on historical/scheduler.cpp.
package scheduler

import (
	"time"

	"go.uber.org/zap"

	"ordergen/internal/historical/dataprovider"
	"ordergen/internal/historicaldomain"
)

// Scheduler drives one datasource's worth of historical replay.
type Scheduler struct {
	provider dataprovider.Provider
	pending  []historicaldomain.Action
	logger   *zap.Logger
}

// New builds a Scheduler over provider. A nil provider is accepted and
// behaves as an already-finished scheduler.
func New(provider dataprovider.Provider, logger *zap.Logger) *Scheduler {
	return &Scheduler{provider: provider, logger: logger}
}

// Finished reports whether the scheduler has no pending action and
// its provider has nothing left to give.
func (s *Scheduler) Finished() bool {
	return !s.hasPending() && !s.canPull()
}

// Initialize sets the provider's wall-clock time offset and rebases
// any actions already pulled onto "now", used when (re)starting replay.
func (s *Scheduler) Initialize() {
	if s.provider != nil {
		s.provider.InitializeTimeOffset()
	}
	if !s.hasPending() {
		return
	}
	now := time.Now()
	for i := range s.pending {
		s.pending[i].UpdateTime(now)
	}
}

// ProcessNextAction pulls ahead as needed, then hands the due action
// (if any) to processor.
func (s *Scheduler) ProcessNextAction(processor func(historicaldomain.Action)) {
	if s.Finished() {
		return
	}

	s.pull()

	if s.hasPending() {
		next := s.pending[0]
		s.pending = s.pending[1:]
		processor(next)
	}

	s.pull()
}

// NextActionTimeout returns how long to wait before the next pending
// action is due, or zero if one is already due or none is pending.
func (s *Scheduler) NextActionTimeout() time.Duration {
	if s.Finished() || !s.hasPending() {
		return 0
	}

	actionTime := s.pending[0].ActionTime
	now := time.Now()
	if now.Before(actionTime) {
		return actionTime.Sub(now)
	}
	return 0
}

func (s *Scheduler) hasPending() bool { return len(s.pending) > 0 }

func (s *Scheduler) canPull() bool {
	return s.provider != nil && !s.provider.IsEmpty()
}

func (s *Scheduler) pull() {
	for !s.hasPending() && s.canPull() {
		s.pullNext()
	}
}

func (s *Scheduler) pullNext() {
	if !s.canPull() {
		return
	}
	if !s.provider.HasTimeOffset() {
		s.provider.InitializeTimeOffset()
	}

	action, err := s.provider.PullAction()
	if err != nil {
		s.logger.Warn("error occurred while fetching a record from a data provider", zap.Error(err))
		return
	}
	s.pending = append(s.pending, action)
}

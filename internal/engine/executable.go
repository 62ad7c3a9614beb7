package engine

import (
	"time"

	"go.uber.org/zap"

	"ordergen/internal/random"
	"ordergen/internal/requestbuilder"
	"ordergen/internal/tracer"
	"ordergen/internal/tradeio"
)

// randomExecutable adapts one instrument's OrderGenerationAlgorithm to
// executor.Executable: every tick it asks the algorithm for a message
// and, if one was produced, converts and forwards it onto the trading
// request bus. A panic raised during a tick is recovered and logged,
// and that tick sends nothing. It never finishes on its own — a venue's
// random generation runs for as long as the executor is launched.
type randomExecutable struct {
	algorithm *random.OrderGenerationAlgorithm
	context   *InstrumentContext
	sender    interface{ Send(req tradeio.Request) }
	tracer    tracer.Tracer
	interval  time.Duration
	logger    *zap.Logger
}

func newRandomExecutable(algorithm *random.OrderGenerationAlgorithm, context *InstrumentContext, sender interface {
	Send(req tradeio.Request)
}, t tracer.Tracer, interval time.Duration, logger *zap.Logger) *randomExecutable {
	return &randomExecutable{
		algorithm: algorithm,
		context:   context,
		sender:    sender,
		tracer:    t,
		interval:  interval,
		logger:    logger,
	}
}

func (e *randomExecutable) Prepare() {}

func (e *randomExecutable) Execute() error {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("random generation tick failed, nothing sent for this tick",
				zap.String("instrument_id", e.context.InstrumentID()), zap.Any("panic", r))
		}
	}()

	message, ok := e.algorithm.Generate(e.tracer)
	if !ok {
		return nil
	}

	req, err := requestbuilder.Build(message, e.context.InstrumentID(), e.context.InstrumentDescriptor())
	if err != nil {
		e.logger.Error("failed to build trading request from a generated message",
			zap.String("instrument_id", e.context.InstrumentID()), zap.Error(err))
		return nil
	}
	e.sender.Send(req)
	return nil
}

func (e *randomExecutable) Finished() bool { return false }

func (e *randomExecutable) NextExecTimeout() time.Duration { return e.interval }

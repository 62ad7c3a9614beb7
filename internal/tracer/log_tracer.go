package tracer

import "go.uber.org/zap"

// LogTracer emits each step as a debug-level structured log line.
// Nothing in the module constructs one: the engine passes NullTracer to
// every instrument, and no config setting switches to LogTracer.
type LogTracer struct {
	logger *zap.Logger
	step   string
	fields []zap.Field
}

// NewLogTracer builds a tracer bound to the given logger.
func NewLogTracer(logger *zap.Logger) *LogTracer {
	return &LogTracer{logger: logger}
}

func (t *LogTracer) Step(name string) {
	t.step = name
	t.fields = t.fields[:0]
}

func (t *LogTracer) Input(key string, value any) {
	t.fields = append(t.fields, zap.Any("in_"+key, value))
}

func (t *LogTracer) Output(key string, value any) {
	t.fields = append(t.fields, zap.Any("out_"+key, value))
}

func (t *LogTracer) End() {
	t.logger.Debug(t.step, t.fields...)
}

var _ Tracer = (*LogTracer)(nil)

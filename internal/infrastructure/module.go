package infrastructure

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Module provides infrastructure components (logging, lifecycle)
var Module = fx.Module("infrastructure",
	fx.Provide(
		NewLogger,
		NewApplicationLogger,
	),
	fx.Invoke(RegisterLifecycle),
)

// EventLogger routes fx's own events through zap
func EventLogger(logger *zap.Logger) fxevent.Logger {
	return &fxevent.ZapLogger{Logger: logger.Named("fx")}
}

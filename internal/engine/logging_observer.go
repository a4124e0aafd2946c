package engine

import "log/slog"

// LoggingObserver logs every lifecycle event using structured logging
type LoggingObserver struct {
	logger *slog.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *slog.Logger) *LoggingObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent implements the Observer interface
func (lo *LoggingObserver) OnEvent(event Event) {
	attrs := []any{
		"event", event.Type,
		"op", event.Op,
		"tx_id", event.TxID,
	}

	res, ok := event.Data.(OpResult)
	if !ok {
		lo.logger.Debug("operation_lifecycle", append(attrs, "target", event.Data)...)
		return
	}

	attrs = append(attrs,
		"inserted", res.Inserted,
		"updated", res.Updated,
		"deleted", res.Deleted,
	)
	if res.Err != nil {
		lo.logger.Warn("operation_lifecycle", append(attrs, "error", res.Err)...)
		return
	}
	lo.logger.Info("operation_lifecycle", attrs...)
}

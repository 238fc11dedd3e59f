package wizard

import (
	"poolchill/utils"

	"go.uber.org/zap"
)

// Notifier is how the wizard surfaces transient, user-visible outcomes. The
// view layer renders them as auto-dismissing toasts; failures never crash the
// flow and never discard entered data.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// LogNotifier is the default Notifier, writing through the global logger.
type LogNotifier struct{}

func (LogNotifier) Success(message string) {
	utils.GetLogger().Info("notify", zap.String("level", "success"), zap.String("message", message))
}

func (LogNotifier) Error(message string) {
	utils.GetLogger().Warn("notify", zap.String("level", "error"), zap.String("message", message))
}

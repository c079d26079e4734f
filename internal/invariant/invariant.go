// Package invariant reports violated internal invariants.
//
// Built with -tags debug a violation panics; otherwise it is logged at
// error level and execution continues.
package invariant

import (
	"go.uber.org/zap"

	"github.com/Faultbox/reconview/internal/logger"
)

// Check reports a violation when cond is false.
func Check(cond bool, msg string, fields ...zap.Field) {
	if cond {
		return
	}
	violated(msg, fields)
}

func report(msg string, fields []zap.Field) {
	logger.Named("invariant").Error(msg, fields...)
}

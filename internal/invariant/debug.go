//go:build debug

package invariant

import "go.uber.org/zap"

// Enabled is true when violations panic.
const Enabled = true

func violated(msg string, fields []zap.Field) {
	report(msg, fields)
	panic("invariant violated: " + msg)
}

package logging

import "github.com/arloliu/bedwatch/types"

// NopLogger is a Logger implementation that discards all output.
//
// Used as the default when no logger is injected, so call sites never need
// nil checks.
type NopLogger struct{}

var _ types.Logger = (*NopLogger)(nil)

// NewNop creates a logger that discards everything.
func NewNop() *NopLogger {
	return &NopLogger{}
}

func (*NopLogger) Debug(string, ...any) {}
func (*NopLogger) Info(string, ...any)  {}
func (*NopLogger) Warn(string, ...any)  {}
func (*NopLogger) Error(string, ...any) {}

// Fatal discards the message but does not exit; a nop logger must never
// terminate the process.
func (*NopLogger) Fatal(string, ...any) {}

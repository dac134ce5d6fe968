package logger

import (
	"go.uber.org/zap/zapcore"
)

// Field keys picked up by DBCore. Handlers attach them with zap.String.
const (
	FieldStaffID = "staff_id"
	FieldIP      = "ip"
	FieldPath    = "path"
)

// LogSink receives entries extracted by DBCore
type LogSink interface {
	AddLog(entry LogEntry)
}

// DBCore tees every entry into a LogSink besides the wrapped core
type DBCore struct {
	zapcore.Core
	sink LogSink
}

// NewDBCore wraps an existing core (like console logger) and adds DB logging
func NewDBCore(baseCore zapcore.Core, sink LogSink) zapcore.Core {
	return &DBCore{
		Core: baseCore,
		sink: sink,
	}
}

// With keeps the sink when fields are bound to a child logger
func (c *DBCore) With(fields []zapcore.Field) zapcore.Core {
	return &DBCore{
		Core: c.Core.With(fields),
		sink: c.sink,
	}
}

// Write is called for every log entry
func (c *DBCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	le := LogEntry{
		Level:   entry.Level,
		Message: entry.Message,
		Caller:  entry.Caller.Function,
	}
	for _, f := range fields {
		if f.Type != zapcore.StringType {
			continue
		}
		switch f.Key {
		case FieldStaffID:
			le.StaffID = f.String
		case FieldIP:
			le.IpAddress = f.String
		case FieldPath:
			le.Path = f.String
		}
	}

	c.sink.AddLog(le)

	return c.Core.Write(entry, fields)
}

// Check decides if we should log this level
func (c *DBCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

package logger

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type captureSink struct {
	entries []LogEntry
}

func (s *captureSink) AddLog(entry LogEntry) {
	s.entries = append(s.entries, entry)
}

func TestDBCoreExtractsFields(t *testing.T) {
	base, observed := observer.New(zapcore.DebugLevel)
	sink := &captureSink{}
	log := zap.New(NewDBCore(base, sink))

	log.Warn("access denied",
		zap.String(FieldStaffID, "s-1"),
		zap.String(FieldIP, "10.0.0.1"),
		zap.String(FieldPath, "/api/records/tasks"),
		zap.Int("status", 403),
	)

	if len(sink.entries) != 1 {
		t.Fatalf("sink got %d entries, want 1", len(sink.entries))
	}
	got := sink.entries[0]
	if got.StaffID != "s-1" || got.IpAddress != "10.0.0.1" || got.Path != "/api/records/tasks" {
		t.Errorf("unexpected entry %+v", got)
	}
	if got.Level != zapcore.WarnLevel {
		t.Errorf("level = %v, want warn", got.Level)
	}
	if observed.Len() != 1 {
		t.Errorf("wrapped core got %d entries, want 1", observed.Len())
	}
}

func TestDBCoreWithKeepsSink(t *testing.T) {
	base, _ := observer.New(zapcore.InfoLevel)
	sink := &captureSink{}
	log := zap.New(NewDBCore(base, sink)).With(zap.String("component", "test"))

	log.Info("hello")
	log.Debug("below level")

	if len(sink.entries) != 1 {
		t.Errorf("sink got %d entries, want 1", len(sink.entries))
	}
}

func TestToRecord(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rec := toRecord("app", LogEntry{Level: zapcore.ErrorLevel, Message: "boom", StaffID: "s"}, now)
	if rec.LogLevelId != 40 || rec.AppID != "app" || rec.StaffID != "s" || !rec.CreatedOnUtc.Equal(now) {
		t.Errorf("unexpected record %+v", rec)
	}
}

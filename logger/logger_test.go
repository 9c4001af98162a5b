package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
	}{
		{
			name:       "JSON output mode",
			jsonOutput: true,
		},
		{
			name:       "Console output mode",
			jsonOutput: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset global logger
			Logger = nil
			JSONOutput = false

			if err := Initialize(tt.jsonOutput); err != nil {
				t.Fatalf("Initialize() error = %v", err)
			}
			if Logger == nil {
				t.Error("Initialize() did not set global Logger")
			}
			if JSONOutput != tt.jsonOutput {
				t.Errorf("Initialize() JSONOutput = %v, want %v", JSONOutput, tt.jsonOutput)
			}

			// Cleanup
			Logger.Sync()
			Logger = zap.NewNop().Sugar()
		})
	}
}

func TestDefaultLoggerIsSafe(t *testing.T) {
	// The package-load default must absorb log calls without panicking,
	// covering consumers that never call Initialize.
	Logger.Infow("entry committed", FieldPackID, "p", FieldEntryID, uint64(1))
	Logger.Debugw("pipeline state", FieldState, "BATCHING")
}

func TestSetLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	SetLogger(zap.New(core).Sugar())
	defer SetLogger(nil)

	Logger.Infow("pack processed", FieldCount, 3)

	if logs.Len() != 1 {
		t.Fatalf("expected 1 log entry, got %d", logs.Len())
	}
	entry := logs.All()[0]
	if entry.Message != "pack processed" {
		t.Errorf("message = %q", entry.Message)
	}
	if entry.ContextMap()[FieldCount] != int64(3) {
		t.Errorf("field %s = %v", FieldCount, entry.ContextMap()[FieldCount])
	}
}

func TestSetLoggerNilFallsBackToNop(t *testing.T) {
	SetLogger(nil)
	if Logger == nil {
		t.Fatal("SetLogger(nil) must install a no-op logger, not nil")
	}
	Logger.Info("still safe")
}

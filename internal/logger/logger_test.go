package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name      string
		json      bool
		debug     bool
		wantDebug bool
	}{
		{name: "console info", wantDebug: false},
		{name: "console debug", debug: true, wantDebug: true},
		{name: "json info", json: true, wantDebug: false},
		{name: "json debug", json: true, debug: true, wantDebug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New("uni-navigator", tt.json, tt.debug)
			if err != nil {
				t.Fatalf("New returned error: %v", err)
			}
			if got := l.Core().Enabled(zapcore.DebugLevel); got != tt.wantDebug {
				t.Fatalf("debug enabled = %v, want %v", got, tt.wantDebug)
			}
			if !l.Core().Enabled(zapcore.InfoLevel) {
				t.Fatalf("info must always be enabled")
			}
		})
	}
}

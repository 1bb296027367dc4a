package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("computed layout") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("layout cached") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("layout cached") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("wrote output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel), "render")
	prog.done("formats", 2, "items", 4)

	out := buf.String()
	for _, want := range []string{"render finished", "pass=render", "formats=2", "items=4", "elapsed="} {
		if !strings.Contains(out, want) {
			t.Errorf("progress output %q missing %q", out, want)
		}
	}
}

func TestProgressStartIsDebug(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel), "layout")
	if buf.Len() != 0 {
		t.Errorf("start logged at info level: %q", buf.String())
	}

	buf.Reset()
	newProgress(newLogger(&buf, log.DebugLevel), "layout")
	if !strings.Contains(buf.String(), "pass=layout") {
		t.Errorf("start at debug level = %q, want pass=layout", buf.String())
	}
}

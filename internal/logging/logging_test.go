package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		quiet     bool
		wantDebug bool
		wantWarn  bool
	}{
		{name: "default", wantWarn: true},
		{name: "verbose", verbose: true, wantDebug: true, wantWarn: true},
		{name: "quiet", quiet: true},
		{name: "quiet wins", verbose: true, quiet: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(tt.verbose, tt.quiet, &buf)

			log.Debug("debug message")
			if got := strings.Contains(buf.String(), "debug message"); got != tt.wantDebug {
				t.Errorf("debug output = %v, want %v", got, tt.wantDebug)
			}

			log.Warn("warn message")
			if got := strings.Contains(buf.String(), "warn message"); got != tt.wantWarn {
				t.Errorf("warn output = %v, want %v", got, tt.wantWarn)
			}

			if tt.wantWarn && !strings.Contains(buf.String(), Name) {
				t.Errorf("output missing logger name: %s", buf.String())
			}
		})
	}
}

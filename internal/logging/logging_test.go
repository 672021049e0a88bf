package logging

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LogConfig
		want zerolog.Level
	}{
		{"empty config logs at info", config.LogConfig{}, zerolog.InfoLevel},
		{"unknown level logs at info", config.LogConfig{Level: "loud"}, zerolog.InfoLevel},
		{"configured level", config.LogConfig{Level: "debug"}, zerolog.DebugLevel},
		{"pretty output keeps the level", config.LogConfig{Level: "warn", Pretty: true}, zerolog.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.cfg)

			if got := l.GetLevel(); got != tt.want {
				t.Errorf("Expected level %s, got %s", tt.want, got)
			}
			if e := l.Error(); !e.Enabled() {
				t.Error("Expected error events to be enabled")
			}
		})
	}
}

package logging

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	prevLevel, prevLogger := zerolog.GlobalLevel(), log.Logger
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(prevLevel)
		log.Logger = prevLogger
	})

	tests := []struct {
		name  string
		cfg   Config
		level zerolog.Level
	}{
		{"explicit level", Config{Level: "debug"}, zerolog.DebugLevel},
		{"warn with pretty output", Config{Level: "warn", Pretty: true}, zerolog.WarnLevel},
		{"empty level defaults to info", Config{}, zerolog.InfoLevel},
		{"unknown level defaults to info", Config{Level: "loud"}, zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.cfg)

			assert.Equal(t, tt.level, zerolog.GlobalLevel())
			assert.Equal(t, logger, log.Logger)
		})
	}
}

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestParseLevelAliases(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":       zerolog.TraceLevel,
		"diagnostics": zerolog.TraceLevel,
		" DEBUG ":     zerolog.DebugLevel,
		"warning":     zerolog.WarnLevel,
		"off":         zerolog.Disabled,
	}
	for raw, want := range cases {
		got, ok := ParseLevel(raw)
		if !ok || got != want {
			t.Fatalf("ParseLevel(%q) = %v,%v want %v", raw, got, ok, want)
		}
	}
	if _, ok := ParseLevel("loud"); ok {
		t.Fatalf("expected unknown level to be rejected")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogTimestamp, "false")
	t.Setenv(EnvLogBypass, "1")
	t.Setenv(EnvLogNoColor, "junk")

	cfg := defaultConfig(ProfileRuntime)
	applyEnvOverrides(&cfg)
	if cfg.Level != zerolog.ErrorLevel {
		t.Fatalf("expected error level, got %v", cfg.Level)
	}
	if cfg.Timestamp {
		t.Fatalf("expected timestamp disabled")
	}
	if !cfg.Bypass {
		t.Fatalf("expected bypass enabled")
	}
	if cfg.NoColor {
		t.Fatalf("invalid bool must not override NoColor")
	}
}

func TestApplyBypassWritesJSON(t *testing.T) {
	prevLogger := log.Logger
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	var out bytes.Buffer
	logger := Apply(Config{Level: zerolog.InfoLevel, Bypass: true, Out: &out})
	logger.Debug().Msg("hidden")
	logger.Info().Str("tag", "UINT8").Msg("encoded")

	got := out.String()
	if strings.Contains(got, "hidden") {
		t.Fatalf("debug line leaked at info level: %s", got)
	}
	if !strings.Contains(got, `"tag":"UINT8"`) || !strings.Contains(got, `"message":"encoded"`) {
		t.Fatalf("unexpected json output: %s", got)
	}
}

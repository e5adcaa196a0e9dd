package testlog

import (
	"testing"

	"github.com/danmuck/memstream/internal/logging"
	"github.com/rs/zerolog/log"
)

func Start(t *testing.T) {
	t.Helper()
	logging.ConfigureTests()
	log.Info().Msgf("test=%s", t.Name())
}

// Logf records a test checkpoint at debug level.
func Logf(format string, args ...any) {
	log.Debug().Msgf(format, args...)
}

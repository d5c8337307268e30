package logging

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init initializes the global logger. IMAGE_REPACK_LOG_LEVEL selects the
// level (trace, debug, info, warn, error); anything unset or unparseable
// falls back to info.
func Init() {
	level := zerolog.InfoLevel
	if raw := os.Getenv("IMAGE_REPACK_LOG_LEVEL"); raw != "" {
		if parsed, err := zerolog.ParseLevel(raw); err == nil {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

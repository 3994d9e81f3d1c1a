package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init global zerolog logger'ını ortama göre ayarlar.
// LOG_LEVEL (debug, info, warn, error) ortam varsayılanını ezer.
func Init(env string) {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.DurationFieldUnit = time.Millisecond
	zerolog.SetGlobalLevel(levelFor(env, os.Getenv("LOG_LEVEL")))

	switch env {
	case "development":
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
			With().Timestamp().Logger()
	case "test":
		// test çıktısı sessiz
	default:
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Str("service", "portfolio-api").Logger()
	}
}

func levelFor(env, override string) zerolog.Level {
	if override != "" {
		if level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(override))); err == nil {
			return level
		}
	}

	switch env {
	case "development":
		return zerolog.DebugLevel
	case "test":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

func init() {
	Init(os.Getenv("ENVIRONMENT"))
}

// Init configures the process-wide logger. Development gets a human readable
// console writer, every other environment gets JSON lines on stdout.
func Init(env string) {
	var w io.Writer
	level := zerolog.InfoLevel

	if env == "development" || env == "dev" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		level = zerolog.DebugLevel
	} else {
		w = os.Stdout
	}

	zerolog.TimeFieldFormat = time.RFC3339
	log = zerolog.New(w).Level(level).With().
		Timestamp().
		Str("service", "oi-market").
		Logger()
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	log = log.Output(w)
}

func Get() *zerolog.Logger {
	return &log
}

func Info(format string, v ...interface{}) {
	log.Info().Msgf(format, v...)
}

func Error(format string, v ...interface{}) {
	log.Error().Msgf(format, v...)
}

func Debug(format string, v ...interface{}) {
	log.Debug().Msgf(format, v...)
}

func Warn(format string, v ...interface{}) {
	log.Warn().Msgf(format, v...)
}

// WithUser returns a child logger tagged with the caller's uid.
func WithUser(uid string) zerolog.Logger {
	return log.With().Str("uid", uid).Logger()
}

// WithItem returns a child logger tagged with an item id and the caller's uid.
func WithItem(itemID, uid string) zerolog.Logger {
	return log.With().Str("item_id", itemID).Str("uid", uid).Logger()
}

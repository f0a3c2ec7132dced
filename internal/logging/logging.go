package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options controls the process-wide logger setup.
type Options struct {
	// Level is one of debug, info, warn, error.
	Level string

	// Format is "console" or "json".
	Format string

	// NoColor disables ANSI colors for the console format.
	NoColor bool
}

// InitDefault configures a console logger at info level. Used before flags
// and config are parsed.
func InitDefault() {
	Init(Options{Level: "info", Format: "console"})
}

// Init applies the given options to the global zerolog logger.
func Init(opts Options) {
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if opts.Format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		NoColor:    opts.NoColor,
		TimeFormat: time.Kitchen,
	}).With().Timestamp().Logger()
}

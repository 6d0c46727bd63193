package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Debug is set to true if the application is running in a debug mode
var Debug bool

// LogOutputWriter carries all cli log output
var LogOutputWriter io.Writer = os.Stderr

func init() {
	// uses cli logger by default
	CliNoColorLogger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// SetWriter configures a log writer for the global logger
func SetWriter(w io.Writer) {
	log.Logger = log.Output(w)
}

func UseJSONLogging(out io.Writer) {
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

func CliLogger() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

// CliCompactLogger drops timestamps and shortens the level tags
func CliCompactLogger(out io.Writer) {
	log.Logger = NewConsoleWriter(out, true)
}

func CliNoColorLogger() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true})
}

// Set the global log level: error, warn, info, debug, trace
func Set(level string) {
	switch level {
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "debug":
		Debug = true
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "trace":
		Debug = true
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	default:
		log.Error().Str("level", level).Msg("unknown log level, use error, warn, info, debug or trace")
	}
}

// GetEnvLogLevel returns a log level requested via environment variables.
// DEBUG=1 and TRACE=1 take precedence over any cli flag.
func GetEnvLogLevel() (string, bool) {
	level := ""
	found := false
	if os.Getenv("DEBUG") == "1" {
		level = "debug"
		found = true
	}
	if os.Getenv("TRACE") == "1" {
		level = "trace"
		found = true
	}
	return level, found
}

// InitTestEnv will set all log configurations for a test environment
// verbose and colorful
func InitTestEnv() {
	Set("debug")
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

package logger

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func NewConsoleWriter(out io.Writer, compact bool) zerolog.Logger {
	w := zerolog.ConsoleWriter{Out: out}

	if compact {
		w.FormatLevel = consoleFormatLevel()
		w.FormatTimestamp = func(i interface{}) string { return "" }
	}

	return log.Output(w)
}

func consoleFormatLevel() zerolog.Formatter {
	return func(i interface{}) string {
		var l string
		var color termenv.Color

		if ll, ok := i.(string); ok {
			switch ll {
			case "trace":
				l = "TRC"
				color = termenv.ANSIBrightBlack
			case "debug":
				l = "DBG"
				color = termenv.ANSICyan
			case "info":
				l = "→"
				color = termenv.ANSIGreen
			case "warn":
				l = "!"
				color = termenv.ANSIYellow
			case "error":
				l = "x"
				color = termenv.ANSIRed
			case "fatal":
				l = "FTL"
				color = termenv.ANSIRed
			case "panic":
				l = "PNC"
				color = termenv.ANSIRed
			default:
				l = "???"
			}
		} else {
			if i == nil {
				l = "???"
			} else {
				l = strings.ToUpper(fmt.Sprintf("%s", i))[0:3]
			}
		}

		return termenv.String(l).Foreground(color).String()
	}
}

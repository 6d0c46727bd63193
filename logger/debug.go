package logger

import (
	"fmt"

	"github.com/hokaccha/go-prettyjson"
	"github.com/rs/zerolog/log"
)

// DebugJSON dumps the object pretty printed to the log output, but only
// when debug logging is enabled
func DebugJSON(obj interface{}) {
	if !log.Debug().Enabled() {
		return
	}

	s, _ := prettyjson.Marshal(obj)
	fmt.Fprintln(LogOutputWriter, string(s))
}

// Package logging sets up the engine's three-tier stdlib loggers, the same
// shape the teacher codebase uses for its own Info/Error log files, just
// pointed at stderr by default since this engine is a one-shot CLI rather
// than a long-running server with a fixed log directory.
package logging

import (
	"io"
	"log"
)

// Loggers bundles the three log levels the rest of the module writes to.
type Loggers struct {
	Info  *log.Logger
	Error *log.Logger
	Debug *log.Logger
}

// New builds a Loggers writing Info/Error to out and err respectively.
// Debug logging is only enabled (written to err) when debug is true;
// otherwise it discards output, so call sites can log at debug level
// unconditionally without extra branching.
func New(out, errOut io.Writer, debug bool) *Loggers {
	debugWriter := io.Discard
	if debug {
		debugWriter = errOut
	}
	return &Loggers{
		Info:  log.New(out, "INFO: ", log.Ldate|log.Ltime),
		Error: log.New(errOut, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile),
		Debug: log.New(debugWriter, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile),
	}
}

// Package termsession binds a visual terminal surface to a remote interactive
// shell session owned by an external process host. One Controller is created
// per open terminal tab; it owns a terminal emulation engine, orchestrates its
// rendering backend, buffers bursty remote output, debounces bidirectional
// resize negotiation, replays history or a cached screen snapshot, and tears
// everything down on dispose.
//
// The pseudo-terminal itself, the remote transport, and escape-sequence
// parsing all live behind the ProcessHost and Engine interfaces; this package
// only coordinates them.
package termsession

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Package-level logger
var logger *log.Logger

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "termsession",
	})
}

// SetLogLevel sets the logging level for the termsession package.
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

// NewSessionID generates a unique session identifier.
func NewSessionID() string {
	return uuid.New().String()
}

package termsession

import "context"

// HostHandler receives per-session events from a ProcessHost. Both callbacks
// are registered and unregistered together.
type HostHandler struct {
	// OnData delivers a chunk of remote output. The slice is only valid
	// for the duration of the call.
	OnData func(p []byte)
	// OnExit signals that the remote process ended.
	OnExit func()
}

// ProcessHost is the external collaborator that owns the actual shell
// processes, keyed by session id. The host may multiplex many sessions over
// one channel; a subscription keyed by session id delivers only that
// session's events.
type ProcessHost interface {
	// Write sends input bytes to the remote process. Best effort; errors
	// are not reported for input forwarding.
	Write(sessionID string, p []byte)

	// Resize propagates new terminal dimensions to the remote process.
	Resize(sessionID string, cols, rows int) error

	// Tail returns up to limitBytes of recent session output. Absence of
	// data is not an error.
	Tail(ctx context.Context, sessionID string, limitBytes int) ([]byte, error)

	// Subscribe registers handlers for the session's data and exit events
	// and returns a function that removes both together.
	Subscribe(sessionID string, h HostHandler) (unsubscribe func(), err error)
}

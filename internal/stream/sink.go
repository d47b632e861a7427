package stream

import (
	"context"

	"github.com/totp-live/tui/internal/params"
)

// NoCode is shown whenever there is no usable code.
const NoCode = "------"

// Sink receives everything the session wants displayed. Calls are made from
// the session goroutine, one at a time.
type Sink interface {
	SetCode(code string)
	SetCountdown(seconds int)
	SetProgress(percent float64)
	NotifyError(message string)
	SetFailedIndicator()
}

// Transport opens one push subscription. Subscribe blocks until the stream
// ends or ctx is cancelled, calling onEvent with each event body in arrival
// order; the callback owns the slice. It always returns a non-nil error.
type Transport interface {
	Subscribe(ctx context.Context, p params.Set, onEvent func([]byte)) error
}

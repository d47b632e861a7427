package stream

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedMessage marks an event body that could not be used as either
// a code update or a server error.
var ErrMalformedMessage = errors.New("malformed message")

// Kind is the classification of a received event.
type Kind int

const (
	KindSuccess Kind = iota
	KindValidation
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindValidation:
		return "validation"
	case KindTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// CodeUpdate is the success payload pushed by the server.
type CodeUpdate struct {
	Code            string  `json:"code"`
	RemainingTime   int     `json:"remainingTime"`
	ProgressPercent float64 `json:"progressPercent"`
}

// Verdict is the outcome of classifying one event or transport error.
// Update is set for KindSuccess, Message for KindValidation and Err for
// KindTransient.
type Verdict struct {
	Kind    Kind
	Update  CodeUpdate
	Message string
	Err     error
}

// Malformed reports whether v came from an unusable message body rather
// than from the transport.
func (v Verdict) Malformed() bool {
	return v.Kind == KindTransient && errors.Is(v.Err, ErrMalformedMessage)
}

type wireMessage struct {
	Error           *string  `json:"error"`
	Code            *string  `json:"code"`
	RemainingTime   *int     `json:"remainingTime"`
	ProgressPercent *float64 `json:"progressPercent"`
}

// Classify decodes one event body.
func Classify(data []byte) Verdict {
	var msg wireMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return malformed(err)
	}

	if msg.Error != nil {
		if *msg.Error == "" {
			return malformed(errors.New("empty error field"))
		}
		return Verdict{Kind: KindValidation, Message: *msg.Error}
	}

	switch {
	case msg.Code == nil:
		return malformed(errors.New("missing code"))
	case msg.RemainingTime == nil:
		return malformed(errors.New("missing remainingTime"))
	case msg.ProgressPercent == nil:
		return malformed(errors.New("missing progressPercent"))
	case *msg.RemainingTime < 0:
		return malformed(fmt.Errorf("remainingTime %d out of range", *msg.RemainingTime))
	case *msg.ProgressPercent < 0 || *msg.ProgressPercent > 100:
		return malformed(fmt.Errorf("progressPercent %v out of range", *msg.ProgressPercent))
	}

	return Verdict{
		Kind: KindSuccess,
		Update: CodeUpdate{
			Code:            *msg.Code,
			RemainingTime:   *msg.RemainingTime,
			ProgressPercent: *msg.ProgressPercent,
		},
	}
}

// ClassifyTransport labels a connection-level failure.
func ClassifyTransport(err error) Verdict {
	if err == nil {
		err = ErrStreamClosed
	}
	return Verdict{Kind: KindTransient, Err: err}
}

func malformed(cause error) Verdict {
	return Verdict{Kind: KindTransient, Err: fmt.Errorf("%w: %v", ErrMalformedMessage, cause)}
}

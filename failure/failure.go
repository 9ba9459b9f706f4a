// Package failure defines the error kinds surfaced by a regtest network.
package failure

import (
	"errors"
	"fmt"
	"strings"
)

type Kind int

const (
	Unknown Kind = iota
	// Configuration is a bad topology or option, raised before any process
	// starts.
	Configuration
	ProcessStart
	// Readiness is a timeout while waiting for a required state.
	Readiness
	// Assembly is a failed peer or channel operation.
	Assembly
	// NotFound is an identifier that is not mapped (yet).
	NotFound
	Teardown
)

func (k Kind) String() string {
	switch k {
	case Configuration:
		return "configuration"
	case ProcessStart:
		return "process start"
	case Readiness:
		return "readiness"
	case Assembly:
		return "assembly"
	case NotFound:
		return "not found"
	case Teardown:
		return "teardown"
	default:
		return "unknown"
	}
}

// Error carries the kind of a failure and the context needed to triage it
// without reading daemon logs.
type Error struct {
	Kind Kind
	// Node is the node name the failure belongs to, if any.
	Node string
	// Channel is the channel number, 0 when not channel related.
	Channel int
	// Op names the operation that failed.
	Op        string
	Err       error
	Retryable bool
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(" error")
	var ctx []string
	if e.Node != "" {
		ctx = append(ctx, "node "+e.Node)
	}
	if e.Channel > 0 {
		ctx = append(ctx, fmt.Sprintf("channel %d", e.Channel))
	}
	if len(ctx) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(ctx, ", "))
	}
	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports a match against another *Error of the same kind. A target with
// Node or Channel set must match those too, so the sentinels below match any
// error of their kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	if t.Node != "" && t.Node != e.Node {
		return false
	}
	if t.Channel != 0 && t.Channel != e.Channel {
		return false
	}
	return true
}

var (
	ErrConfiguration = &Error{Kind: Configuration}
	ErrProcessStart  = &Error{Kind: ProcessStart}
	ErrReadiness     = &Error{Kind: Readiness}
	ErrAssembly      = &Error{Kind: Assembly}
	ErrNotFound      = &Error{Kind: NotFound}
	ErrTeardown      = &Error{Kind: Teardown}
)

func Configurationf(field string, format string, args ...any) *Error {
	return &Error{
		Kind: Configuration,
		Op:   field,
		Err:  fmt.Errorf(format, args...),
	}
}

func NewProcessStart(node string, err error) *Error {
	return &Error{Kind: ProcessStart, Node: node, Op: "start", Err: err, Retryable: true}
}

func NewReadiness(node, what string, err error) *Error {
	return &Error{Kind: Readiness, Node: node, Op: what, Err: err}
}

func NewAssembly(channel int, node, op string, err error) *Error {
	return &Error{Kind: Assembly, Channel: channel, Node: node, Op: op, Err: err}
}

func NewNotFound(what string, retryable bool) *Error {
	return &Error{Kind: NotFound, Op: what, Err: errors.New("not mapped"), Retryable: retryable}
}

func NewTeardown(node string, err error) *Error {
	return &Error{Kind: Teardown, Node: node, Op: "stop", Err: err}
}

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// IsRetryable reports whether the outermost *Error in err's chain may be
// retried by the caller.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}

package bridge

import (
	"errors"
	"fmt"
	"strings"
	"syscall"
	"time"
)

var (
	// ErrPortInUse marks a bind failure that should advance the port window.
	ErrPortInUse = errors.New("port in use")
	// ErrNoPortAvailable is returned when every port of the window is taken.
	ErrNoPortAvailable = errors.New("no port available")
	// ErrTimeout is returned when a call receives no response within its bound.
	ErrTimeout = errors.New("request timed out")
	// ErrDisconnected is returned to pending calls when the peer goes away.
	ErrDisconnected = errors.New("editor extension disconnected")
	// ErrShuttingDown is returned to pending calls when the server stops.
	ErrShuttingDown = errors.New("bridge shutting down")
	// ErrNotConnected is returned by Send when no peer is attached.
	ErrNotConnected = errors.New(`editor extension is not connected; open the editor and click "Connect" in the bridge extension first`)
	// ErrRejectedOrigin is reported when a handshake carries an untrusted origin.
	ErrRejectedOrigin = errors.New("origin not allowed")
	// ErrRemote marks a failure reported by the peer.
	ErrRemote = errors.New("remote operation failed")
)

// BindError is a listen failure on one port.
type BindError struct {
	Addr  string
	Port  int
	InUse bool
	Err   error
}

func (e *BindError) Error() string { return fmt.Sprintf("bind %s: %v", e.Addr, e.Err) }

func (e *BindError) Unwrap() error { return e.Err }

func (e *BindError) Is(target error) bool { return target == ErrPortInUse && e.InUse }

// NoPortAvailableError names the exhausted port window.
type NoPortAvailableError struct {
	First int
	Last  int
}

func (e *NoPortAvailableError) Error() string {
	return fmt.Sprintf("no port available in range %d-%d", e.First, e.Last)
}

func (e *NoPortAvailableError) Is(target error) bool { return target == ErrNoPortAvailable }

// TimeoutError names the method that did not answer and the bound it missed.
type TimeoutError struct {
	Method string
	After  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out after %s: %s", e.After, e.Method)
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// RemoteError carries the error string of a response verbatim.
type RemoteError struct {
	Method  string
	Message string
}

func (e *RemoteError) Error() string { return e.Message }

func (e *RemoteError) Is(target error) bool { return target == ErrRemote }

func isAddrInUse(err error) bool {
	if errors.Is(err, syscall.EADDRINUSE) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "address already in use") ||
		strings.Contains(msg, "only one usage of each socket address")
}

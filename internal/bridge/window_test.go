package bridge

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
)

// adjacentPorts reserves two consecutive loopback ports and returns their
// listeners.
func adjacentPorts(t *testing.T) (int, net.Listener, net.Listener) {
	t.Helper()
	for i := 0; i < 50; i++ {
		first, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("listen: %v", err)
		}
		port := first.Addr().(*net.TCPAddr).Port
		second, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port+1))
		if err != nil {
			_ = first.Close()
			continue
		}
		return port, first, second
	}
	t.Fatal("no adjacent free ports")
	return 0, nil, nil
}

func TestStartOnAvailablePortSkipsOccupied(t *testing.T) {
	base, first, second := adjacentPorts(t)
	defer func() { _ = first.Close() }()
	_ = second.Close()

	s, err := StartOnAvailablePort(base, 2, Options{Host: "127.0.0.1"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer func() { _ = s.Stop(context.Background()) }()
	if s.Port() != base+1 {
		t.Fatalf("expected port %d, got %d", base+1, s.Port())
	}
}

func TestStartOnAvailablePortExhausted(t *testing.T) {
	base, first, second := adjacentPorts(t)
	defer func() { _ = first.Close() }()
	defer func() { _ = second.Close() }()

	_, err := StartOnAvailablePort(base, 2, Options{Host: "127.0.0.1"})
	if !errors.Is(err, ErrNoPortAvailable) {
		t.Fatalf("expected no port available, got %v", err)
	}
	want := fmt.Sprintf("no port available in range %d-%d", base, base+1)
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}

func TestStartOnAvailablePortAbortsOnOtherErrors(t *testing.T) {
	_, err := StartOnAvailablePort(15168, 20, Options{Host: "192.0.2.1"})
	if err == nil || errors.Is(err, ErrNoPortAvailable) || errors.Is(err, ErrPortInUse) {
		t.Fatalf("expected a non-retryable bind error, got %v", err)
	}
}

func TestBindErrorClassification(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer func() { _ = ln.Close() }()
	port := ln.Addr().(*net.TCPAddr).Port

	s := New(Options{Host: "127.0.0.1", Port: port})
	err = s.Start()
	var be *BindError
	if !errors.As(err, &be) || be.Port != port || !errors.Is(err, ErrPortInUse) {
		t.Fatalf("expected port in use, got %v", err)
	}
}

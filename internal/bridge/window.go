package bridge

import (
	"context"
	"errors"
	"time"

	"github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/gaspardpetit/edabridge/internal/metrics"
)

// StartOnAvailablePort binds the first free port in [base, base+count) and
// returns the started server. A port in use advances to the next one; any
// other bind failure aborts the scan.
func StartOnAvailablePort(base, count int, opts Options) (*Server, error) {
	if count <= 0 {
		count = 1
	}
	for port := base; port < base+count; port++ {
		o := opts
		o.Port = port
		s := New(o)
		err := s.Start()
		if err == nil {
			metrics.RecordBindAttempt("bound")
			return s, nil
		}
		if !errors.Is(err, ErrPortInUse) {
			metrics.RecordBindAttempt("error")
			return nil, err
		}
		metrics.RecordBindAttempt("in_use")
		ev := s.log.Info().Int("port", port)
		if owner := portOwner(port); owner != "" {
			ev = ev.Str("owner", owner)
		}
		ev.Msg("port in use, trying next")
	}
	return nil, &NoPortAvailableError{First: base, Last: base + count - 1}
}

// portOwner names the process listening on port when the platform lets us
// find out.
func portOwner(port int) string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	conns, err := net.ConnectionsWithContext(ctx, "tcp")
	if err != nil {
		return ""
	}
	for _, c := range conns {
		if int(c.Laddr.Port) != port || c.Status != "LISTEN" || c.Pid == 0 {
			continue
		}
		p, err := process.NewProcessWithContext(ctx, c.Pid)
		if err != nil {
			return ""
		}
		name, err := p.NameWithContext(ctx)
		if err != nil {
			return ""
		}
		return name
	}
	return ""
}

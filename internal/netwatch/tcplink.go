// internal/netwatch/tcplink.go
package netwatch

import (
	"context"
	"fmt"
	"net"
	"time"
)

// TCPLink defines "connected" as TCP reachability of a fixed endpoint,
// normally the feed server. A hosted OS owns the actual network join;
// reachability is what the relay can observe and act on.
type TCPLink struct {
	Addr     string
	Timeout  time.Duration
	Interval time.Duration
}

// Connect implements Link with a single dial.
func (l *TCPLink) Connect(ctx context.Context) error {
	d := net.Dialer{Timeout: l.Timeout}
	conn, err := d.DialContext(ctx, "tcp", l.Addr)
	if err != nil {
		return fmt.Errorf("netwatch: dial %s: %w", l.Addr, err)
	}
	return conn.Close()
}

// Monitor implements Link by probing the endpoint periodically and
// returning on the first failed probe.
func (l *TCPLink) Monitor(ctx context.Context) error {
	ticker := time.NewTicker(l.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := l.Connect(ctx); err != nil {
				return err
			}
		}
	}
}

package transport

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/moffa90/go-escpos/document"
)

// DefaultTCPPort is the raw printing port used by network receipt printers.
const DefaultTCPPort = 9100

// DialTCP connects to a network printer. The port defaults to 9100 when
// address has none.
//
// Example:
//
//	t, err := transport.DialTCP(ctx, "192.168.1.50")
func DialTCP(ctx context.Context, address string) (*Stream, error) {
	addr := withDefaultPort(address, DefaultTCPPort)

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial printer %s: %w", addr, err)
	}

	return newStream(conn, document.DeviceInfo{}, conn.SetWriteDeadline), nil
}

func withDefaultPort(address string, port int) string {
	if _, _, err := net.SplitHostPort(address); err == nil {
		return address
	}
	return net.JoinHostPort(address, strconv.Itoa(port))
}

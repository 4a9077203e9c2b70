package transport

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/moffa90/go-escpos/document"
)

// WebSocket is a transport to a printer bridge that relays binary messages
// to and from a printer.
type WebSocket struct {
	conn *websocket.Conn
	info document.DeviceInfo

	writeMu   sync.Mutex
	reads     chan readResult
	closed    chan struct{}
	closeOnce sync.Once
}

// DialWebSocket connects to a printer bridge at url.
//
// Example:
//
//	t, err := transport.DialWebSocket(ctx, "ws://pos-bridge.local:8080/printer", nil)
func DialWebSocket(ctx context.Context, url string, header http.Header) (*WebSocket, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial printer bridge %s: %w (status %s)", url, err, resp.Status)
		}
		return nil, fmt.Errorf("dial printer bridge %s: %w", url, err)
	}

	ws := &WebSocket{
		conn:   conn,
		reads:  make(chan readResult),
		closed: make(chan struct{}),
	}
	if resp != nil {
		ws.info = document.DeviceInfo{
			Model:        resp.Header.Get("X-Printer-Model"),
			SerialNumber: resp.Header.Get("X-Printer-Serial"),
			Manufacturer: resp.Header.Get("X-Printer-Manufacturer"),
		}
	}
	go pump(ws.read, ws.reads, ws.closed)
	return ws, nil
}

func (w *WebSocket) read() ([]byte, error) {
	for {
		kind, data, err := w.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if kind == websocket.BinaryMessage {
			return data, nil
		}
	}
}

// Send writes data as one binary message.
func (w *WebSocket) Send(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-w.closed:
		return ErrClosed
	default:
	}

	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	if dl, ok := ctx.Deadline(); ok {
		_ = w.conn.SetWriteDeadline(dl)
		defer func() { _ = w.conn.SetWriteDeadline(time.Time{}) }()
	}
	return w.conn.WriteMessage(websocket.BinaryMessage, data)
}

// Receive returns the payload of the next binary message.
func (w *WebSocket) Receive(ctx context.Context) ([]byte, error) {
	select {
	case <-w.closed:
		return nil, ErrClosed
	default:
	}

	select {
	case r := <-w.reads:
		return r.data, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-w.closed:
		return nil, ErrClosed
	}
}

// DeviceInfo returns the printer identity announced by the bridge, if any.
func (w *WebSocket) DeviceInfo() document.DeviceInfo { return w.info }

// Close sends a close frame and closes the connection.
func (w *WebSocket) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.closed)
		w.writeMu.Lock()
		_ = w.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		w.writeMu.Unlock()
		err = w.conn.Close()
	})
	return err
}

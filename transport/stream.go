package transport

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/moffa90/go-escpos/document"
)

// ErrClosed is returned by Send and Receive after Close.
var ErrClosed = errors.New("transport closed")

const readBufferSize = 512

type readResult struct {
	data []byte
	err  error
}

// pump delivers the results of read to reads until read fails or closed is closed.
func pump(read func() ([]byte, error), reads chan<- readResult, closed <-chan struct{}) {
	for {
		data, err := read()
		if len(data) > 0 {
			select {
			case reads <- readResult{data: data}:
			case <-closed:
				return
			}
		}
		if err != nil {
			select {
			case reads <- readResult{err: err}:
			case <-closed:
			}
			return
		}
	}
}

// Stream is a transport over a byte stream: a serial port, a TCP
// connection or a device file.
type Stream struct {
	rw   io.ReadWriteCloser
	info document.DeviceInfo

	// writeDeadline applies a context deadline to writes, when the stream supports it.
	writeDeadline func(time.Time) error

	writeSem  chan struct{}
	reads     chan readResult
	closed    chan struct{}
	closeOnce sync.Once
}

func newStream(rw io.ReadWriteCloser, info document.DeviceInfo, writeDeadline func(time.Time) error) *Stream {
	s := &Stream{
		rw:            rw,
		info:          info,
		writeDeadline: writeDeadline,
		writeSem:      make(chan struct{}, 1),
		reads:         make(chan readResult),
		closed:        make(chan struct{}),
	}
	go pump(s.read, s.reads, s.closed)
	return s
}

func (s *Stream) read() ([]byte, error) {
	buf := make([]byte, readBufferSize)
	n, err := s.rw.Read(buf)
	return buf[:n], err
}

// Send writes data. When the stream has no write deadline, a write still
// blocked once ctx is done is left running and Send returns ctx.Err().
// Later sends wait for it to finish.
func (s *Stream) Send(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-s.closed:
		return ErrClosed
	default:
	}

	select {
	case s.writeSem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	case <-s.closed:
		return ErrClosed
	}

	if dl, ok := ctx.Deadline(); ok && s.writeDeadline != nil && s.writeDeadline(dl) == nil {
		defer func() { <-s.writeSem }()
		defer func() { _ = s.writeDeadline(time.Time{}) }()
		return s.write(data)
	}

	done := make(chan error, 1)
	go func() {
		done <- s.write(data)
		<-s.writeSem
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-s.closed:
		return ErrClosed
	}
}

func (s *Stream) write(data []byte) error {
	n, err := s.rw.Write(data)
	if err != nil {
		return err
	}
	if n < len(data) {
		return io.ErrShortWrite
	}
	return nil
}

// Receive returns the next chunk read from the stream.
func (s *Stream) Receive(ctx context.Context) ([]byte, error) {
	select {
	case <-s.closed:
		return nil, ErrClosed
	default:
	}

	select {
	case r := <-s.reads:
		return r.data, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.closed:
		return nil, ErrClosed
	}
}

// DeviceInfo returns what is known about the connected device.
func (s *Stream) DeviceInfo() document.DeviceInfo { return s.info }

// Close closes the underlying stream. It is safe to call more than once.
func (s *Stream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closed)
		err = s.rw.Close()
	})
	return err
}

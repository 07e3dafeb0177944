package server

import (
	"context"
	"io"

	"github.com/marmos91/sandfs/internal/protocol/sftp"
)

// InprocTransport is a channel-backed Transport for embedding the session
// layer in the same process as its caller. It is the transport the tests
// drive sessions through, and the reference for wiring a real
// secure-transport collaborator: hand the server a SessionConn per
// authenticated connection and speak typed requests/responses over it.
type InprocTransport struct {
	conns chan *SessionConn
}

// NewInprocTransport creates an in-process transport.
func NewInprocTransport() *InprocTransport {
	return &InprocTransport{conns: make(chan *SessionConn, 16)}
}

// Accept blocks until Connect supplies a session or the context ends.
func (t *InprocTransport) Accept(ctx context.Context) (*SessionConn, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case conn := <-t.conns:
		return conn, nil
	}
}

// Connect opens a new session for username and returns the client side.
func (t *InprocTransport) Connect(username string) *ClientConn {
	client := &ClientConn{
		requests:  make(chan sftp.Request, 16),
		responses: make(chan sftp.Response, 16),
	}
	t.conns <- &SessionConn{
		Username:  username,
		Source:    &chanSource{requests: client.requests},
		Responder: &chanResponder{responses: client.responses},
	}
	return client
}

// ClientConn is the client half of an in-process session.
type ClientConn struct {
	requests  chan sftp.Request
	responses chan sftp.Response
}

// Send queues one decoded request. Multiple sends before a Recv exercise
// request pipelining.
func (c *ClientConn) Send(req sftp.Request) {
	c.requests <- req
}

// Recv blocks for the next response. Responses to pipelined requests are
// correlated by request identifier, not arrival order.
func (c *ClientConn) Recv() sftp.Response {
	return <-c.responses
}

// Close ends the session's request stream; the server drains in-flight
// requests and releases all handles before considering the session closed.
func (c *ClientConn) Close() {
	close(c.requests)
}

type chanSource struct {
	requests chan sftp.Request
}

func (s *chanSource) Next(ctx context.Context) (sftp.Request, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case req, open := <-s.requests:
		if !open {
			return nil, io.EOF
		}
		return req, nil
	}
}

type chanResponder struct {
	responses chan sftp.Response
}

func (r *chanResponder) Send(resp sftp.Response) error {
	r.responses <- resp
	return nil
}

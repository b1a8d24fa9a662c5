// Package client is a typed client for the directory protocol. It
// drives the request/response lock-step for callers: read the banner,
// send a tagged action with its framed fields, decode the result.
//
// There is no prompt or terminal layer here; presentation is the
// caller's concern.
package client

import (
	"crypto/tls"
	"fmt"
	"io"

	"github.com/resign-hr/directory/internal/core/domain"
	"github.com/resign-hr/directory/internal/protocol"
)

// ErrRejected carries the wire code of a rejected action.
type ErrRejected struct {
	Code protocol.Code
}

func (e *ErrRejected) Error() string {
	return fmt.Sprintf("action rejected: %s", e.Code)
}

// Client speaks the directory protocol over an established stream.
// Not safe for concurrent use: the protocol is strictly sequential.
type Client struct {
	conn   *protocol.Conn
	banner string
}

// Dial connects to addr over TLS and returns a ready Client. The
// caller owns the TLS configuration (root CAs, server name).
func Dial(addr string, cfg *tls.Config) (*Client, error) {
	conn, err := tls.Dial("tcp", addr, cfg)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return New(conn), nil
}

// New wraps an already-established (and already secured) stream.
func New(rw io.ReadWriter) *Client {
	return &Client{conn: protocol.NewConn(rw)}
}

// Banner returns the greeting received ahead of the most recent
// request. Empty before the first request.
func (c *Client) Banner() string {
	return c.banner
}

// roundTrip absorbs the banner the server sends before each request,
// then sends the tag and fields and decodes the result.
func (c *Client) roundTrip(tag protocol.Tag, fields ...string) (protocol.Result, error) {
	if err := c.conn.Receive(&c.banner); err != nil {
		return protocol.Result{}, fmt.Errorf("read banner: %w", err)
	}
	if err := c.conn.Send(tag); err != nil {
		return protocol.Result{}, fmt.Errorf("send action: %w", err)
	}
	for _, field := range fields {
		if err := c.conn.Send(field); err != nil {
			return protocol.Result{}, fmt.Errorf("send field: %w", err)
		}
	}
	var result protocol.Result
	if err := c.conn.Receive(&result); err != nil {
		return protocol.Result{}, fmt.Errorf("read result: %w", err)
	}
	return result, nil
}

// do runs a round trip and folds a rejection into ErrRejected.
func (c *Client) do(tag protocol.Tag, fields ...string) error {
	result, err := c.roundTrip(tag, fields...)
	if err != nil {
		return err
	}
	if !result.OK {
		return &ErrRejected{Code: result.Code}
	}
	return nil
}

// Login authenticates the session.
func (c *Client) Login(username, password string) error {
	return c.do(protocol.TagLogin, username, password)
}

// Logout resets the session to anonymous.
func (c *Client) Logout() error {
	return c.do(protocol.TagLogout)
}

// ShowUsers lists every account's public projection.
func (c *Client) ShowUsers() ([]domain.UserSummary, error) {
	result, err := c.roundTrip(protocol.TagShowUsers)
	if err != nil {
		return nil, err
	}
	if !result.OK {
		return nil, &ErrRejected{Code: result.Code}
	}
	return result.Users, nil
}

// ChangeOwnPhone updates the logged-in account's phone number.
func (c *Client) ChangeOwnPhone(phone string) error {
	return c.do(protocol.TagChangeOwnPhone, phone)
}

// ChangePhone updates another account's phone number.
func (c *Client) ChangePhone(username, phone string) error {
	return c.do(protocol.TagChangePhone, username, phone)
}

// AddUser creates an account.
func (c *Client) AddUser(username, password, phone string, role domain.Role) error {
	return c.do(protocol.TagAddUser, username, password, phone, string(role))
}

// Exit tells the server to close this connection and closes the local
// end.
func (c *Client) Exit() error {
	err := c.do(protocol.TagExit)
	if closeErr := c.conn.Close(); err == nil {
		err = closeErr
	}
	return err
}

// Close closes the connection without the exit handshake.
func (c *Client) Close() error {
	return c.conn.Close()
}

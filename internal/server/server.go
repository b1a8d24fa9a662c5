// Package server runs the directory protocol: a TLS listener, one
// goroutine per connection, and the session loop that decodes framed
// requests, dispatches them to the directory service, and writes back
// exactly one result per request.
package server

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/rs/zerolog"

	"github.com/resign-hr/directory/internal/core/ports"
	"github.com/resign-hr/directory/internal/core/service"
)

// Server accepts encrypted client connections and serves the directory
// protocol on each.
type Server struct {
	svc   *service.DirectoryService
	store ports.UserStore
	log   zerolog.Logger

	mu    sync.Mutex
	ln    net.Listener
	conns map[net.Conn]struct{}
	wg    sync.WaitGroup
}

// New builds a Server. The store is used read-only, for banner
// decoration; all mutation goes through the service.
func New(svc *service.DirectoryService, store ports.UserStore, log zerolog.Logger) *Server {
	return &Server{svc: svc, store: store, log: log, conns: make(map[net.Conn]struct{})}
}

// ListenAndServeTLS serves the protocol on addr with the given
// certificate. It blocks until Close is called or the listener fails.
func (s *Server) ListenAndServeTLS(addr, certFile, keyFile string) error {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return fmt.Errorf("load server certificate: %w", err)
	}
	ln, err := tls.Listen("tcp", addr, &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	})
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections from ln until the listener closes. The
// transport is assumed already secured; tests drive Serve with a plain
// listener.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	s.log.Info().Str("addr", ln.Addr().String()).Msg("directory server listening")

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		s.track(conn)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(conn)
			s.handleConn(conn)
		}()
	}
}

func (s *Server) track(conn net.Conn) {
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

// Close stops accepting connections, tears down open sessions, and
// waits for their goroutines to finish.
func (s *Server) Close() error {
	s.mu.Lock()
	ln := s.ln
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()

	var err error
	if ln != nil {
		err = ln.Close()
	}
	s.wg.Wait()
	return err
}

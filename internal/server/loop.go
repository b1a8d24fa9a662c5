package server

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"time"

	"github.com/resign-hr/directory/internal/core/domain"
	"github.com/resign-hr/directory/internal/protocol"
	"github.com/resign-hr/directory/internal/server/metrics"
)

const banner = "Welcome to RESIGN (hR onlinE uSer dIrectory manaGemeNt)!"

var motivationalQuotes = []string{
	"Train people well enough so they can leave. Treat them well enough so they don't want to.",
	"Human Resources isn't a thing we do. It's the thing that runs our business.",
	"When people go to work, they shouldn't have to leave their hearts at home.",
	"Hire character. Train skill.",
	"Every problem is a gift - without problems we would not grow.",
	"Far and away the best prize that life offers is the chance to work hard at work worth doing.",
	"Believe you can and you're halfway there.",
}

// handleConn runs one session: banner, request, result, repeated until
// the client exits or the transport dies. Transport failures terminate
// this session only; business errors are recovered into result codes
// and never tear the connection down.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	metrics.SessionsActive.Inc()
	defer metrics.SessionsActive.Dec()

	log := s.log.With().Str("remote", conn.RemoteAddr().String()).Logger()
	log.Info().Msg("client connected")

	sess := NewSession()
	pc := protocol.NewConn(conn)
	ctx := context.Background()

	for {
		if err := pc.Send(s.bannerFor(ctx, sess)); err != nil {
			log.Info().Err(err).Msg("connection closed")
			return
		}

		var tag protocol.Tag
		if err := pc.Receive(&tag); err != nil {
			log.Info().Err(err).Msg("connection closed")
			return
		}

		start := time.Now()
		exit, err := s.dispatch(ctx, pc, sess, tag)
		metrics.ActionDuration.WithLabelValues(string(tag)).Observe(time.Since(start).Seconds())

		if err != nil {
			log.Warn().Err(err).Str("action", string(tag)).Msg("session terminated")
			return
		}
		if exit {
			log.Info().Msg("client exited")
			return
		}
	}
}

// bannerFor builds the greeting. The decorations (current username, a
// quote for HR readers) are cosmetic; a store hiccup here degrades to
// the plain banner rather than failing the session.
func (s *Server) bannerFor(ctx context.Context, sess *Session) string {
	username, ok := sess.Username()
	if !ok {
		return banner
	}

	greeting := banner + "\nCurrently logged in as " + username
	account, err := s.store.Get(ctx, username)
	if err == nil && account.Role == domain.RoleHR {
		greeting += "\nQuote of the day: " + motivationalQuotes[rand.Intn(len(motivationalQuotes))]
	}
	return greeting
}

// dispatch reads the payload fields for tag, executes the action, and
// sends the result. The returned error is transport-level only; it
// ends the session. exit is true after a handled Exit request.
func (s *Server) dispatch(ctx context.Context, pc *protocol.Conn, sess *Session, tag protocol.Tag) (exit bool, err error) {
	switch tag {
	case protocol.TagShowUsers:
		users, svcErr := s.svc.ListUsers(ctx, sess)
		if svcErr != nil {
			return false, s.sendErr(pc, tag, svcErr)
		}
		metrics.ActionsTotal.WithLabelValues(string(tag), "ok").Inc()
		return false, pc.Send(protocol.Result{OK: true, Users: users})

	case protocol.TagChangeOwnPhone:
		var phone string
		if err := pc.Receive(&phone); err != nil {
			return false, fmt.Errorf("read phone: %w", err)
		}
		return false, s.sendOutcome(pc, tag, s.svc.ChangeOwnPhone(ctx, sess, phone))

	case protocol.TagChangePhone:
		var username, phone string
		if err := pc.Receive(&username); err != nil {
			return false, fmt.Errorf("read username: %w", err)
		}
		if err := pc.Receive(&phone); err != nil {
			return false, fmt.Errorf("read phone: %w", err)
		}
		return false, s.sendOutcome(pc, tag, s.svc.ChangePhone(ctx, sess, username, phone))

	case protocol.TagAddUser:
		var username, password, phone, role string
		for _, field := range []struct {
			name string
			dst  *string
		}{
			{"username", &username},
			{"password", &password},
			{"phone", &phone},
			{"role", &role},
		} {
			if err := pc.Receive(field.dst); err != nil {
				return false, fmt.Errorf("read %s: %w", field.name, err)
			}
		}
		return false, s.sendOutcome(pc, tag, s.svc.AddUser(ctx, sess, username, password, phone, role))

	case protocol.TagLogin:
		var username, password string
		if err := pc.Receive(&username); err != nil {
			return false, fmt.Errorf("read username: %w", err)
		}
		if err := pc.Receive(&password); err != nil {
			return false, fmt.Errorf("read password: %w", err)
		}
		svcErr := s.svc.Login(ctx, sess, username, password)
		if svcErr != nil {
			metrics.LoginsTotal.WithLabelValues("failed").Inc()
		} else {
			metrics.LoginsTotal.WithLabelValues("ok").Inc()
		}
		return false, s.sendOutcome(pc, tag, svcErr)

	case protocol.TagLogout:
		return false, s.sendOutcome(pc, tag, s.svc.Logout(ctx, sess))

	case protocol.TagExit:
		// Exit is always allowed and still gets its result: the
		// connection is never silently dropped for a handled request.
		metrics.ActionsTotal.WithLabelValues(string(tag), "ok").Inc()
		return true, pc.Send(protocol.OkResult())

	default:
		// An unknown tag means the stream framing is no longer
		// trustworthy; treat it like a decode failure.
		return false, fmt.Errorf("unknown action tag %q", tag)
	}
}

// sendOutcome recovers a business error into its wire code and sends
// the result. Only a send failure propagates.
func (s *Server) sendOutcome(pc *protocol.Conn, tag protocol.Tag, svcErr error) error {
	if svcErr != nil {
		return s.sendErr(pc, tag, svcErr)
	}
	metrics.ActionsTotal.WithLabelValues(string(tag), "ok").Inc()
	return pc.Send(protocol.OkResult())
}

func (s *Server) sendErr(pc *protocol.Conn, tag protocol.Tag, svcErr error) error {
	code := codeFor(svcErr)
	if code == protocol.CodeInternal {
		// Unexpected failure: keep the cause in the server log, send
		// the generic code.
		s.log.Error().Err(svcErr).Str("action", string(tag)).Msg("unhandled error")
	}
	metrics.ActionsTotal.WithLabelValues(string(tag), string(code)).Inc()
	return pc.Send(protocol.ErrResult(code))
}

// codeFor maps domain errors to their wire codes. Anything unknown
// becomes the generic internal code; details never leak to the client.
func codeFor(err error) protocol.Code {
	switch {
	case errors.Is(err, domain.ErrInvalidUsername):
		return protocol.CodeInvalidUsername
	case errors.Is(err, domain.ErrInvalidPassword):
		return protocol.CodeInvalidPassword
	case errors.Is(err, domain.ErrInvalidPhoneNumber):
		return protocol.CodeInvalidPhoneNumber
	case errors.Is(err, domain.ErrInvalidRole):
		return protocol.CodeInvalidRole
	case errors.Is(err, domain.ErrLoginFailed):
		return protocol.CodeLoginFailed
	case errors.Is(err, domain.ErrAlreadyLoggedIn):
		return protocol.CodeAlreadyLoggedIn
	case errors.Is(err, domain.ErrPermissionDenied):
		return protocol.CodePermissionDenied
	case errors.Is(err, domain.ErrUserExists):
		return protocol.CodeUserExists
	case errors.Is(err, domain.ErrUserNotFound):
		return protocol.CodeUserNotFound
	}
	return protocol.CodeInternal
}

package session

import (
	"errors"
	"time"

	"github.com/ocx/limbo-gate/internal/protocol"
)

// Run drives the session to a terminal state, reading frames off the
// connection until Success, Failed, or a guard violation. It has no
// return value; terminal outcomes are reported via Callbacks and the
// observability Sink, since by the time Run returns the socket is
// already being closed by the caller either way.
func (s *Session) Run() {
	s.sink.OnAdmit(s.peerIP)

	for {
		if s.packetCount >= s.cfg.MaxLoginPackets {
			s.fail(protocol.KindTooManyPackets, "exceeded %d inbound packets", s.cfg.MaxLoginPackets)
			return
		}
		if time.Now().After(s.Deadline()) {
			s.fail(protocol.KindTimeout, "verification exceeded %s", s.cfg.ReadTimeout)
			return
		}

		s.conn.SetReadDeadline(s.Deadline())
		frame, err := protocol.ReadFrame(s.conn, s.compressionEnabled)
		if err != nil {
			s.fail(protocol.KindIO, "reading frame: %v", err)
			return
		}
		s.packetCount++

		if err := s.Dispatch(frame); err != nil {
			s.failWithError(err)
			return
		}

		switch s.state.Current() {
		case StateSuccess, StateFailed:
			return
		}
	}
}

func (s *Session) fail(kind protocol.Kind, format string, args ...interface{}) {
	s.failWithError(protocol.NewError(kind, true, format, args...))
}

// failWithError maps a codec/session error to a disconnect reason and
// finishes the session, swallowing the write error from finishFailed
// itself: the connection is on its way down regardless.
func (s *Session) failWithError(err error) {
	reason := ReasonVerificationFailed
	var perr *protocol.Error
	if errors.As(err, &perr) {
		switch perr.Kind {
		case protocol.KindInvalidUsername:
			reason = ReasonInvalidUsername
		case protocol.KindInvalidProtocol:
			reason = ReasonInvalidProtocol
		}
	}
	_ = s.finishFailed(reason)
}

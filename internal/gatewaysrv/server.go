// Package gatewaysrv wires the Codec, Admission Pipeline, and Fallback
// Session together into a listening TCP server: the cmd/gateway entry
// point's only job is to build a Server and call Run (spec.md §2's data
// flow end to end).
package gatewaysrv

import (
	"log/slog"
	"net"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/ocx/limbo-gate/internal/admission"
	"github.com/ocx/limbo-gate/internal/assets"
	"github.com/ocx/limbo-gate/internal/observability"
	"github.com/ocx/limbo-gate/internal/protocol"
	"github.com/ocx/limbo-gate/internal/session"
)

// Server accepts connections and drives each through Gate.Evaluate and,
// on admission, a Session.
type Server struct {
	listener  net.Listener
	gate      *admission.Gate
	assets    *assets.Assets
	registry  *protocol.Registry
	sink      observability.Sink
	sessCfg   session.Config
	log       *slog.Logger
	active    int64
	stopQueue chan struct{}
}

// New builds a Server bound to listenAddr. Call Run to start accepting.
func New(listenAddr string, gate *admission.Gate, a *assets.Assets, sessCfg session.Config, sink observability.Sink, log *slog.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener:  ln,
		gate:      gate,
		assets:    a,
		registry:  protocol.NewRegistry(),
		sink:      sink,
		sessCfg:   sessCfg,
		log:       log,
		stopQueue: make(chan struct{}),
	}, nil
}

// Addr returns the bound listener address, useful in tests that bind to
// ":0".
func (s *Server) Addr() net.Addr { return s.listener.Addr() }

// Run accepts connections until the listener is closed. It also starts
// the Gate's 500ms queue-drain ticker.
func (s *Server) Run() error {
	go s.gate.RunQueueTicker(s.stopQueue)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return err
		}
		go s.handleConn(conn)
	}
}

// Close stops accepting new connections and the queue ticker.
func (s *Server) Close() error {
	close(s.stopQueue)
	return s.listener.Close()
}

func (s *Server) peerIP(conn net.Conn) net.IP {
	host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		return net.ParseIP(conn.RemoteAddr().String())
	}
	return net.ParseIP(host)
}

// handleConn reads Handshake (+ LoginStart, for the login path) off a
// freshly accepted connection, evaluates admission, and either runs a
// verification Session or rejects with a reason-specific disconnect.
func (s *Server) handleConn(conn net.Conn) {
	ip := s.peerIP(conn)

	hsFrame, err := protocol.ReadFrame(conn, false)
	if err != nil {
		conn.Close()
		return
	}
	hs, err := protocol.DecodeHandshake(hsFrame.Payload)
	if err != nil {
		conn.Close()
		return
	}

	if hs.NextState != 2 {
		// Status pings are out of this core's scope; closing is a valid,
		// if terse, response (spec.md §3: "Status is passthrough/ignored").
		conn.Close()
		return
	}

	loginFrame, err := protocol.ReadFrame(conn, false)
	if err != nil {
		conn.Close()
		return
	}
	ls, err := protocol.DecodeLoginStart(hs.ProtocolVersion, loginFrame.Payload)
	if err != nil {
		conn.Close()
		return
	}
	id := ls.UUID
	if id == uuid.Nil {
		id = uuid.NewSHA1(uuid.NameSpaceOID, []byte("OfflinePlayer:"+ls.Username))
	}

	s.admit(conn, ip, hs.ProtocolVersion, ls.Username, id)
}

func (s *Server) admit(conn net.Conn, ip net.IP, v protocol.Version, username string, id uuid.UUID) {
	active := int(atomic.LoadInt64(&s.active))
	decision := s.gate.Evaluate(ip, v.Supported(), id, active, func() {
		go s.admit(conn, ip, v, username, id)
	})

	switch decision {
	case admission.DecisionAdmitVerifying:
		s.runSession(conn, ip, v, username, id)
	case admission.DecisionAdmitVerified:
		// Forwarding to the real backend is outside this core's scope
		// (spec.md §1); a standalone deployment simply lets the client in.
		conn.Close()
	case admission.DecisionQueued:
		// The connection is left open; Admit is re-invoked by the queue
		// ticker once capacity frees up.
	default:
		s.rejectWithReason(conn, v, decision)
	}
}

func (s *Server) runSession(conn net.Conn, ip net.IP, v protocol.Version, username string, id uuid.UUID) {
	atomic.AddInt64(&s.active, 1)
	defer func() {
		atomic.AddInt64(&s.active, -1)
		s.gate.ReleaseVerifying(ip)
		conn.Close()
	}()

	cb := session.Callbacks{
		OnVerified: func(ip net.IP, id uuid.UUID, username string) {
			s.gate.Verified.Insert(ip.String(), id, username)
			s.gate.RecordSuccess(ip)
		},
		OnFailed: func(ip net.IP, reason session.DisconnectReason) {
			s.gate.RecordFailure(ip)
		},
	}

	sess := session.New(conn, ip, v, s.sessCfg, s.assets, s.registry, s.sink, cb)
	if err := sess.Start(username, id); err != nil {
		return
	}
	sess.Run()
}

func (s *Server) rejectWithReason(conn net.Conn, v protocol.Version, decision admission.Decision) {
	defer conn.Close()
	reason := decisionToReason(decision)
	id, _ := s.registry.IDFor(v, protocol.Clientbound, protocol.PacketLoginDisconnect)
	protocol.WriteFrame(conn, id, session.EncodeDisconnect(v, reason), 0)
}

func decisionToReason(d admission.Decision) session.DisconnectReason {
	switch d {
	case admission.DecisionTooManyPlayers:
		return session.ReasonTooManyPlayers
	case admission.DecisionTooFastReconnect:
		return session.ReasonTooFastReconnect
	case admission.DecisionAlreadyVerifying:
		return session.ReasonAlreadyVerifying
	case admission.DecisionAlreadyQueued:
		return session.ReasonAlreadyQueued
	case admission.DecisionBlacklisted:
		return session.ReasonBlacklisted
	case admission.DecisionInvalidProtocol:
		return session.ReasonInvalidProtocol
	case admission.DecisionTooManyOnline:
		return session.ReasonAlreadyConnected
	case admission.DecisionLockdown:
		return session.ReasonTooManyPlayers
	default:
		return session.ReasonVerificationFailed
	}
}

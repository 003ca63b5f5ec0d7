package session

import (
	"net"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/ocx/limbo-gate/internal/assets"
	"github.com/ocx/limbo-gate/internal/observability"
	"github.com/ocx/limbo-gate/internal/protocol"
)

// Config is the subset of the gateway's configuration snapshot a Session
// needs (spec.md §6). It is copied by value into each Session so a live
// config reload never mutates an in-flight verification.
type Config struct {
	MaxMovementTicks      int
	MaxIgnoredTicks       int
	MaxLoginPackets       int
	ReadTimeout           time.Duration
	EnableCompression     bool
	CompressionThreshold  int
	Gamemode              int8
	MaxBrandLength        int
	RequireCollisionCheck bool
	ValidNameRegex        *regexp.Regexp
	ValidBrandRegex       *regexp.Regexp
	ValidLocaleRegex      *regexp.Regexp
}

// Callbacks are the admission-pipeline hooks a Session invokes on its
// terminal transitions (spec.md §4.4/§4.6): recording a verified pair and
// bumping the per-IP consecutive-failure counter live outside this
// package, so a verification outcome is reported rather than acted on
// directly.
type Callbacks struct {
	OnVerified func(ip net.IP, id uuid.UUID, username string)
	OnFailed   func(ip net.IP, reason DisconnectReason)
}

// Session is one connection's limbo verification dialogue (spec.md §3).
type Session struct {
	conn     net.Conn
	peerIP   net.IP
	cfg      Config
	assets   *assets.Assets
	registry *protocol.Registry
	sink     observability.Sink
	cb       Callbacks

	version Version
	state   *StateMachine

	username   string
	playerUUID uuid.UUID

	compressionEnabled bool
	keepAliveToken     int64
	teleportID         int32

	gravity       *GravityChecker
	collisionSeen bool

	packetCount int
	startedAt   time.Time
}

// Version is re-exported for caller convenience.
type Version = protocol.Version

// New constructs a Session bound to an accepted connection. v is the
// version negotiated by the Handshake packet the admission pipeline
// already decoded before constructing this Session.
func New(conn net.Conn, peerIP net.IP, v protocol.Version, cfg Config, a *assets.Assets, registry *protocol.Registry, sink observability.Sink, cb Callbacks) *Session {
	return &Session{
		conn:      conn,
		peerIP:    peerIP,
		cfg:       cfg,
		assets:    a,
		registry:  registry,
		sink:      sink,
		cb:        cb,
		version:   v,
		state:     newStateMachine(),
		startedAt: time.Now(),
	}
}

// Start feeds in the username and UUID the admission pipeline already
// decoded from LoginStart before constructing this Session (the verified-
// cache check in spec.md §4.4 step 4 needs the UUID, so the gate reads
// Handshake+LoginStart itself ahead of Session construction). It performs
// the AwaitLoginStart -> AwaitConfigOrJoin transition and its associated
// sends, then Run begins reading frames from the Configuration/Play phase
// onward.
func (s *Session) Start(username string, id uuid.UUID) error {
	s.username = username
	s.playerUUID = id
	if err := s.state.Transition(StateAwaitConfigOrJoin); err != nil {
		return err
	}
	return s.onEnterConfigOrJoin()
}

// State returns the current verification state.
func (s *Session) State() State { return s.state.Current() }

// Deadline returns the absolute time by which the session must reach a
// terminal state.
func (s *Session) Deadline() time.Time { return s.startedAt.Add(s.cfg.ReadTimeout) }

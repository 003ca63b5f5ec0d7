package session

import (
	"bytes"
	"math/rand"

	"github.com/google/uuid"

	"github.com/ocx/limbo-gate/internal/protocol"
)

// Dispatch routes one decoded frame to the handler for the session's
// current state, enforcing expected-packet-id sequencing (spec.md §3's
// "monotonic expected-packet-id for out-of-order detection" and §4.2's
// OutOfOrder error). ChunkData/KeepAlive/PluginMessage sent to the wrong
// phase are unknown there and dropped, matching Play-phase tolerance;
// everywhere else an unexpected id is fatal.
func (s *Session) Dispatch(frame *protocol.Frame) error {
	switch s.state.Current() {
	case StateAwaitLoginStart:
		return s.expectAndHandle(frame, protocol.PacketLoginStart, s.handleLoginStart)
	case StateAwaitConfigOrJoin:
		if s.version.HasConfigurationPhase() {
			return s.expectAndHandle(frame, protocol.PacketAckFinishConfig, s.handleAckFinishConfiguration)
		}
		// Versions without a Configuration phase never read a frame in this
		// state; onEnterConfigOrJoin, run from Start, advances past it.
		return protoErr(protocol.KindOutOfOrder, true, "unexpected frame in AwaitConfigOrJoin")
	case StateAwaitClientSettings:
		return s.handlePlayAux(frame, true)
	case StateAwaitKeepAlive:
		return s.expectAndHandle(frame, protocol.PacketKeepAliveServerbound, s.handleKeepAlive)
	case StateFalling, StateCollided:
		return s.handlePlayAux(frame, false)
	default:
		return protoErr(protocol.KindOutOfOrder, true, "frame received in terminal state %s", s.state.Current())
	}
}

// expectAndHandle fails fast if frame.PacketID doesn't match the single
// packet kind expected in the current state.
func (s *Session) expectAndHandle(frame *protocol.Frame, want protocol.Packet, handle func([]byte) error) error {
	id, ok := s.registry.IDFor(s.version, protocol.Serverbound, want)
	if !ok || frame.PacketID != id {
		return protoErr(protocol.KindOutOfOrder, true, "expected %s, got id %d", want, frame.PacketID)
	}
	return handle(frame.Payload)
}

// handlePlayAux accepts the auxiliary Play-phase packets (client
// information, plugin message, movement, keep-alive) in any order and
// drops anything unrecognized, matching the spec's Play-phase tolerance
// for unknown ids. When inClientSettings is true, movement packets are
// dropped as well; none of these packets changes the state except the
// keep-alive echo.
func (s *Session) handlePlayAux(frame *protocol.Frame, inClientSettings bool) error {
	if id, ok := s.registry.IDFor(s.version, protocol.Serverbound, protocol.PacketClientInformation); ok && frame.PacketID == id {
		return s.handleClientInformation(frame.Payload)
	}
	if id, ok := s.registry.IDFor(s.version, protocol.Serverbound, protocol.PacketPluginMessage); ok && frame.PacketID == id {
		return s.handlePluginMessage(frame.Payload)
	}
	if id, ok := s.registry.IDFor(s.version, protocol.Serverbound, protocol.PacketKeepAliveServerbound); ok && frame.PacketID == id {
		return s.handleKeepAlive(frame.Payload)
	}
	if !inClientSettings {
		if id, ok := s.registry.IDFor(s.version, protocol.Serverbound, protocol.PacketPlayerPosition); ok && frame.PacketID == id {
			return s.handlePlayerPosition(frame.Payload)
		}
		if id, ok := s.registry.IDFor(s.version, protocol.Serverbound, protocol.PacketPlayerPositionLook); ok && frame.PacketID == id {
			return s.handlePlayerPosition(frame.Payload)
		}
	}
	// Unknown Play-phase id: silently dropped (spec.md §4.2).
	return nil
}

func (s *Session) handleLoginStart(payload []byte) error {
	ls, err := protocol.DecodeLoginStart(s.version, payload)
	if err != nil {
		return err
	}
	if !s.cfg.ValidNameRegex.MatchString(ls.Username) || len(ls.Username) > protocol.MaxUsernameLen {
		return protoErr(protocol.KindInvalidUsername, true, "username %q rejected by validator", ls.Username)
	}
	s.username = ls.Username
	if ls.UUID != uuid.Nil {
		s.playerUUID = ls.UUID
	} else {
		s.playerUUID = uuid.NewSHA1(uuid.NameSpaceOID, []byte("OfflinePlayer:"+ls.Username))
	}
	if err := s.state.Transition(StateAwaitConfigOrJoin); err != nil {
		return err
	}
	return s.onEnterConfigOrJoin()
}

func (s *Session) handleAckFinishConfiguration(_ []byte) error {
	if err := s.state.Transition(StateAwaitClientSettings); err != nil {
		return err
	}
	return s.onEnterClientSettings()
}

func (s *Session) handleClientInformation(payload []byte) error {
	ci, err := protocol.DecodeClientInformation(payload)
	if err != nil {
		return err
	}
	if !s.cfg.ValidLocaleRegex.MatchString(ci.Locale) {
		return protoErr(protocol.KindInvalidLocale, true, "locale %q rejected by validator", ci.Locale)
	}
	return nil
}

func (s *Session) handlePluginMessage(payload []byte) error {
	pm, err := protocol.DecodePluginMessage(payload)
	if err != nil {
		return err
	}
	if pm.Channel != "minecraft:brand" && pm.Channel != "MC|Brand" {
		return nil
	}
	r := bytes.NewReader(pm.Data)
	brand, err := protocol.ReadString(r, s.cfg.MaxBrandLength)
	if err != nil {
		return protoErr(protocol.KindInvalidBrand, true, "brand decode failed: %v", err)
	}
	if !s.cfg.ValidBrandRegex.MatchString(brand) {
		return protoErr(protocol.KindInvalidBrand, true, "brand %q rejected by validator", brand)
	}
	return nil
}

func (s *Session) handleKeepAlive(payload []byte) error {
	id, err := protocol.DecodeKeepAlive(payload)
	if err != nil {
		return err
	}
	// The echo may arrive while still nominally in AwaitClientSettings
	// (ClientInformation/PluginMessage are tolerated in any order ahead of
	// it) or after the formal AwaitKeepAlive transition; either is the
	// real reply and advances the session into Falling. Anything later
	// (Falling/Collided) is a late or duplicate echo and is harmless.
	switch s.state.Current() {
	case StateAwaitClientSettings, StateAwaitKeepAlive:
	default:
		return nil
	}
	if id != s.keepAliveToken {
		return protoErr(protocol.KindKeepAliveMismatch, true, "keep alive token mismatch: got %d want %d", id, s.keepAliveToken)
	}
	if s.state.Current() == StateAwaitClientSettings {
		if err := s.state.Transition(StateAwaitKeepAlive); err != nil {
			return err
		}
	}
	s.beginFalling()
	return s.state.Transition(StateFalling)
}

func (s *Session) beginFalling() {
	pv := s.assets.ForVersion(s.version)
	s.gravity = NewGravityChecker(s.assets.Falling, pv.Platform.SpawnY, s.cfg.MaxMovementTicks, s.cfg.MaxIgnoredTicks)
}

func (s *Session) handlePlayerPosition(payload []byte) error {
	x, y, z, _, err := protocol.DecodePlayerPosition(payload)
	if err != nil {
		return err
	}
	if s.state.Current() != StateFalling {
		return nil
	}
	switch s.gravity.Advance(y) {
	case GravityContinue:
		return nil
	case GravityCollided:
		s.collisionSeen = !s.cfg.RequireCollisionCheck || CheckCollision(x, z)
		if !s.collisionSeen {
			return protoErr(protocol.KindCollisionMissed, true, "collision point (%.2f,%.2f) outside platform bounds", x, z)
		}
		if err := s.state.Transition(StateCollided); err != nil {
			return err
		}
		if err := s.state.Transition(StateSuccess); err != nil {
			return err
		}
		return s.finishSuccess()
	default:
		return protoErr(protocol.KindGravityViolation, true, "Y=%.4f diverges from expected fall at tick %d", y, s.gravity.Tick())
	}
}

// newKeepAliveToken draws a fresh random token for the outbound KeepAlive.
func newKeepAliveToken() int64 { return rand.Int63() }

func protoErr(kind protocol.Kind, fatal bool, format string, args ...interface{}) error {
	return protocol.NewError(kind, fatal, format, args...)
}

package session

import (
	"github.com/ocx/limbo-gate/internal/protocol"
)

// send writes one clientbound packet, resolving its numeric id from the
// registry for the session's negotiated version.
func (s *Session) send(p protocol.Packet, payload []byte) error {
	id, ok := s.registry.IDFor(s.version, protocol.Clientbound, p)
	if !ok {
		return protoErr(protocol.KindIO, true, "packet %s has no id for version %s", p, s.version)
	}
	threshold := 0
	if s.compressionEnabled {
		threshold = s.cfg.CompressionThreshold
	}
	return protocol.WriteFrame(s.conn, id, payload, threshold)
}

// onEnterConfigOrJoin runs the AwaitConfigOrJoin state's actions: enable
// compression, send LoginSuccess, and either await AckFinishConfiguration
// (>=1.20.2) or fall straight through to AwaitClientSettings (spec.md
// §4.5).
func (s *Session) onEnterConfigOrJoin() error {
	if s.cfg.EnableCompression {
		if err := s.send(protocol.PacketSetCompression, protocol.EncodeSetCompression(int32(s.cfg.CompressionThreshold))); err != nil {
			return err
		}
		s.compressionEnabled = true
	}
	if err := s.send(protocol.PacketLoginSuccess, protocol.EncodeLoginSuccess(s.version, s.playerUUID, s.username)); err != nil {
		return err
	}

	if !s.version.HasConfigurationPhase() {
		if err := s.state.Transition(StateAwaitClientSettings); err != nil {
			return err
		}
		return s.onEnterClientSettings()
	}

	pv := s.assets.ForVersion(s.version)
	if err := s.send(protocol.PacketRegistryData, pv.RegistryData); err != nil {
		return err
	}
	return s.send(protocol.PacketFinishConfiguration, nil)
}

// onEnterClientSettings sends the Play-phase bootstrap: JoinGame,
// Abilities, the spawn teleport, an empty chunk, the barrier-platform
// block updates, and the verification KeepAlive (spec.md §4.5).
func (s *Session) onEnterClientSettings() error {
	pv := s.assets.ForVersion(s.version)

	if err := s.send(protocol.PacketJoinGame, pv.JoinGame); err != nil {
		return err
	}
	if err := s.send(protocol.PacketPlayerAbilities, protocol.EncodePlayerAbilities()); err != nil {
		return err
	}

	s.teleportID = 1
	teleport := protocol.EncodePlayerPositionAndLook(s.version, float64(pv.Platform.SpawnX), pv.Platform.SpawnY, float64(pv.Platform.SpawnZ), 0, 0, s.teleportID)
	if err := s.send(protocol.PacketPlayerPositionLook, teleport); err != nil {
		return err
	}

	if err := s.send(protocol.PacketChunkData, s.assets.EmptyChunk); err != nil {
		return err
	}
	if err := s.send(protocol.PacketUpdateSectionBlocks, pv.Platform.Update.Payload); err != nil {
		return err
	}

	s.keepAliveToken = newKeepAliveToken()
	return s.send(protocol.PacketKeepAliveClientbound, protocol.EncodeKeepAlive(s.keepAliveToken))
}

// finishSuccess records the verified pair and disconnects with the
// success component; the client is expected to reconnect and pass the
// Verified Store's bypass check next time (spec.md §4.5).
func (s *Session) finishSuccess() error {
	if s.cb.OnVerified != nil {
		s.cb.OnVerified(s.peerIP, s.playerUUID, s.username)
	}
	s.sink.OnSuccess(s.peerIP, s.playerUUID, s.username)
	var packet protocol.Packet = protocol.PacketLoginDisconnect
	if s.state.Current() == StateSuccess && s.username != "" {
		packet = protocol.PacketPlayDisconnect
	}
	return s.send(packet, EncodeDisconnect(s.version, ReasonVerificationSuccess))
}

// finishFailed reports the failure to the admission pipeline (which
// tracks the per-IP counter and promotes to the blacklist) and
// disconnects with a reason-specific component.
func (s *Session) finishFailed(reason DisconnectReason) error {
	s.state.Fail()
	if s.cb.OnFailed != nil {
		s.cb.OnFailed(s.peerIP, reason)
	}
	s.sink.OnFail(s.peerIP, Message(reason))
	var packet protocol.Packet = protocol.PacketLoginDisconnect
	if s.state.Current() == StateFailed && s.username != "" {
		packet = protocol.PacketPlayDisconnect
	}
	return s.send(packet, EncodeDisconnect(s.version, reason))
}

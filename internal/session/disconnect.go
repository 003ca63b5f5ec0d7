package session

import "github.com/ocx/limbo-gate/internal/protocol"

// DisconnectReason selects the pre-authored disconnect component (spec.md
// §7). Serializing it into a version-correct chat component is the only
// part of "disconnect" this package owns; persistence and translation of
// the surrounding message text are operator-facing config, not verification
// logic.
type DisconnectReason int

const (
	ReasonVerificationSuccess DisconnectReason = iota
	ReasonVerificationFailed
	ReasonTooManyPlayers
	ReasonTooFastReconnect
	ReasonAlreadyVerifying
	ReasonAlreadyQueued
	ReasonBlacklisted
	ReasonInvalidUsername
	ReasonInvalidProtocol
	ReasonAlreadyConnected
)

// defaultMessages are the built-in texts; an operator-supplied message
// table (outside this package's scope) may override any entry.
var defaultMessages = map[DisconnectReason]string{
	ReasonVerificationSuccess: "Verification complete, reconnecting...",
	ReasonVerificationFailed:  "Verification failed, please reconnect.",
	ReasonTooManyPlayers:      "Server is currently full, try again shortly.",
	ReasonTooFastReconnect:    "You reconnected too quickly, please wait.",
	ReasonAlreadyVerifying:    "You are already being verified.",
	ReasonAlreadyQueued:       "You are already queued.",
	ReasonBlacklisted:         "You have been temporarily blocked.",
	ReasonInvalidUsername:     "Invalid username.",
	ReasonInvalidProtocol:     "Unsupported protocol version.",
	ReasonAlreadyConnected:    "You are already connected from this address.",
}

// Message returns the disconnect text for reason.
func Message(reason DisconnectReason) string {
	if m, ok := defaultMessages[reason]; ok {
		return m
	}
	return "Disconnected."
}

// EncodeDisconnect renders reason as a version-correct Disconnect payload.
func EncodeDisconnect(v protocol.Version, reason DisconnectReason) []byte {
	return protocol.EncodeDisconnect(v, Message(reason))
}

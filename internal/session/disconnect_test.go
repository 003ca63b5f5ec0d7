package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ocx/limbo-gate/internal/protocol"
)

func TestMessageKnownReasons(t *testing.T) {
	require.Equal(t, "Verification complete, reconnecting...", Message(ReasonVerificationSuccess))
	require.Equal(t, "You have been temporarily blocked.", Message(ReasonBlacklisted))
}

func TestMessageUnknownReasonFallsBack(t *testing.T) {
	require.Equal(t, "Disconnected.", Message(DisconnectReason(999)))
}

func TestEncodeDisconnectProducesNonEmptyPayload(t *testing.T) {
	payload := EncodeDisconnect(protocol.V1_16, ReasonTooManyPlayers)
	require.NotEmpty(t, payload)
}

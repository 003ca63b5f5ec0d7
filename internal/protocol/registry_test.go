package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryIDForKnownBrackets(t *testing.T) {
	r := NewRegistry()

	id, ok := r.IDFor(V1_7_2, Clientbound, PacketJoinGame)
	require.True(t, ok)
	require.Equal(t, int32(0x01), id)

	id, ok = r.IDFor(V1_20_2, Clientbound, PacketJoinGame)
	require.True(t, ok)
	require.Equal(t, int32(0x29), id)

	id, ok = r.IDFor(V1_20_2, Clientbound, PacketRegistryData)
	require.True(t, ok)
	require.Equal(t, int32(0x07), id)
}

func TestRegistryMissingPacketBeforeConfigPhase(t *testing.T) {
	r := NewRegistry()
	_, ok := r.IDFor(V1_19, Clientbound, PacketRegistryData)
	require.False(t, ok, "RegistryData only exists from 1.20.2 onward")
}

func TestRegistryNameForRoundTrip(t *testing.T) {
	r := NewRegistry()
	id, ok := r.IDFor(V1_16, Serverbound, PacketKeepAliveServerbound)
	require.True(t, ok)

	name, ok := r.NameFor(V1_16, Serverbound, id)
	require.True(t, ok)
	require.Equal(t, PacketKeepAliveServerbound, name)
}

func TestRegistryUnknownIDNotFound(t *testing.T) {
	r := NewRegistry()
	_, ok := r.NameFor(V1_16, Serverbound, 0x7F)
	require.False(t, ok)
}

func TestRegistryPlayerPositionRegisteredServerboundAcrossBrackets(t *testing.T) {
	r := NewRegistry()
	for _, v := range []Version{V1_7_2, V1_9, V1_16, V1_19, V1_20_2} {
		_, ok := r.IDFor(v, Serverbound, PacketPlayerPosition)
		require.True(t, ok, "version %s missing serverbound PlayerPosition id", v)
		_, ok = r.IDFor(v, Serverbound, PacketPlayerPositionLook)
		require.True(t, ok, "version %s missing serverbound PlayerPositionAndLook id", v)
	}
}

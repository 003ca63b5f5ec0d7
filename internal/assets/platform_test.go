package assets

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ocx/limbo-gate/internal/protocol"
)

func TestBuildPlatformSpawnAboveBarrierTop(t *testing.T) {
	table := BuildFallingTable(8)
	p := BuildPlatform(protocol.V1_16, table, 8)
	require.Greater(t, p.SpawnY, float64(PlatformY+1), "spawn must sit above the barrier top surface")
}

func TestBuildPlatformUpdateFrameHasPacketID(t *testing.T) {
	table := BuildFallingTable(8)
	p := BuildPlatform(protocol.V1_16, table, 8)
	require.NotNil(t, p.Update)
	require.NotZero(t, len(p.Update.Payload))
	id, ok := protocol.NewRegistry().IDFor(protocol.V1_16, protocol.Clientbound, protocol.PacketUpdateSectionBlocks)
	require.True(t, ok)
	require.Equal(t, id, p.Update.PacketID)
}

func TestEncodeSectionUpdateModernVsLegacyDiffer(t *testing.T) {
	modern := encodeSectionUpdate(protocol.V1_16_2, BlocksPerRow, BlocksPerRow)
	legacy := encodeSectionUpdate(protocol.V1_7_2, BlocksPerRow, BlocksPerRow)
	require.NotEqual(t, modern, legacy)
	require.NotEmpty(t, modern)
	require.NotEmpty(t, legacy)
}

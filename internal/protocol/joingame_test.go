package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleJoinGameParams() JoinGameParams {
	return JoinGameParams{
		EntityID:         1,
		Gamemode:         3,
		PreviousGamemode: -1,
		Dimension:        "minecraft:overworld",
		WorldName:        "minecraft:overworld",
		HashedSeed:       0,
		MaxPlayers:       20,
		ViewDistance:     10,
		SimDistance:      10,
		ReducedDebugInfo: false,
		RespawnScreen:    true,
		IsDebug:          false,
		IsFlat:           true,
		DimensionCodec:   Compound(N("minecraft:dimension_type", Compound())),
	}
}

func TestEncodeJoinGameNonEmptyAcrossBrackets(t *testing.T) {
	versions := []Version{V1_7_2, V1_9, V1_14, V1_15_2, V1_16, V1_16_2, V1_18, V1_19, V1_19_1, V1_19_4, V1_20, V1_20_2}
	p := sampleJoinGameParams()
	for _, v := range versions {
		payload := EncodeJoinGame(v, p)
		require.NotEmpty(t, payload, "version %s produced empty JoinGame", v)
	}
}

func TestEncodeJoinGameLegacyOmitsDimensionCodec(t *testing.T) {
	p := sampleJoinGameParams()
	legacy := EncodeJoinGame(V1_7_2, p)
	modern := EncodeJoinGame(V1_16, p)
	require.Less(t, len(legacy), len(modern), "legacy JoinGame should be far smaller without registry NBT")
}

func TestEncodeJoinGameEntityIDPrefix(t *testing.T) {
	p := sampleJoinGameParams()
	p.EntityID = 0x01020304
	payload := EncodeJoinGame(V1_7_2, p)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, payload[:4])
}

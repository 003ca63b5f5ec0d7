package assets

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ocx/limbo-gate/internal/protocol"
)

func TestBuildDimensionCodecStructure(t *testing.T) {
	codec := BuildDimensionCodec(protocol.V1_16)
	dimReg, ok := codec.Compound["minecraft:dimension_type"]
	require.True(t, ok)
	require.Equal(t, "minecraft:dimension_type", dimReg.Compound["type"].Str)

	biomeReg, ok := codec.Compound["minecraft:worldgen/biome"]
	require.True(t, ok)
	require.Equal(t, "minecraft:worldgen/biome", biomeReg.Compound["type"].Str)

	_, hasDamage := codec.Compound["minecraft:damage_type"]
	require.False(t, hasDamage, "damage type registry only appears from 1.19.4 onward")
}

func TestBuildDimensionCodecIncludesDamageTypeFrom1194(t *testing.T) {
	codec := BuildDimensionCodec(protocol.V1_19_4)
	_, ok := codec.Compound["minecraft:damage_type"]
	require.True(t, ok)
}

func TestBuildDimensionCodecEncodesAsValidNBT(t *testing.T) {
	codec := BuildDimensionCodec(protocol.V1_20)
	var buf bytes.Buffer
	require.NoError(t, protocol.WriteNamedNBT(&buf, "", codec))
	name, decoded, err := protocol.ReadNamedNBT(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, "", name)
	require.Contains(t, decoded.Compound, "minecraft:dimension_type")
}

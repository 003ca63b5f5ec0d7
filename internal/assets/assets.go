package assets

import (
	"bytes"

	"github.com/ocx/limbo-gate/internal/protocol"
)

// Options configures asset construction. It is intentionally decoupled
// from the config package's own snapshot type to avoid an import cycle;
// the config package fills one into its Snapshot's Assets field.
type Options struct {
	MaxMovementTicks int
	Gamemode         int8
	MaxPlayers       int32
}

// PerVersion holds everything precomputed for one JoinGame bracket: the
// byte-exact JoinGame image, the Configuration-phase RegistryData payload
// (only sent on brackets with a Configuration phase), and the barrier
// platform.
type PerVersion struct {
	JoinGame     []byte
	RegistryData []byte // empty unless the bracket has a Configuration phase
	Platform     *Platform
}

// Assets is the immutable, shared-by-reference bundle built once at
// startup (spec.md §3 "Lifecycle", §9). No field is ever mutated after
// Prepare returns.
type Assets struct {
	Falling    *FallingTable
	EmptyChunk []byte
	perVersion map[representativeVersion]*PerVersion
}

// representativeVersion is one version per JoinGame bracket; lookups in
// ForVersion resolve an arbitrary negotiated version down to its bracket's
// representative before indexing this map, so Prepare only builds twelve
// images regardless of how many distinct version numbers the handshake
// might carry.
type representativeVersion = protocol.Version

var bracketRepresentatives = []protocol.Version{
	protocol.V1_7_2,
	protocol.V1_9,
	protocol.V1_14,
	protocol.V1_15,
	protocol.V1_16,
	protocol.V1_16_2,
	protocol.V1_18,
	protocol.V1_19,
	protocol.V1_19_1,
	protocol.V1_19_4,
	protocol.V1_20,
	protocol.V1_20_2,
}

// Prepare builds every precomputed asset. It is meant to run exactly once
// at startup, after configuration is known (spec.md §3).
func Prepare(opts Options) *Assets {
	a := &Assets{
		Falling:    BuildFallingTable(opts.MaxMovementTicks),
		EmptyChunk: buildEmptyChunkPayload(),
		perVersion: make(map[representativeVersion]*PerVersion, len(bracketRepresentatives)),
	}

	for _, v := range bracketRepresentatives {
		codec := BuildDimensionCodec(v)
		platform := BuildPlatform(v, a.Falling, opts.MaxMovementTicks)

		params := protocol.JoinGameParams{
			EntityID:         1,
			Gamemode:         opts.Gamemode,
			PreviousGamemode: -1,
			Dimension:        "minecraft:overworld",
			WorldName:        "minecraft:overworld",
			HashedSeed:       0,
			MaxPlayers:       opts.MaxPlayers,
			ViewDistance:     2,
			SimDistance:      2,
			ReducedDebugInfo: true,
			RespawnScreen:    false,
			DimensionCodec:   codec,
		}

		pv := &PerVersion{
			JoinGame: protocol.EncodeJoinGame(v, params),
			Platform: platform,
		}
		if v.HasConfigurationPhase() {
			pv.RegistryData = protocol.EncodeRegistryData(codec)
		}
		a.perVersion[v] = pv
	}
	return a
}

// ForVersion resolves v to its bracket's precomputed assets.
func (a *Assets) ForVersion(v protocol.Version) *PerVersion {
	rep := representativeFor(v)
	return a.perVersion[rep]
}

func representativeFor(v protocol.Version) protocol.Version {
	switch {
	case v >= protocol.V1_20_2:
		return protocol.V1_20_2
	case v >= protocol.V1_20:
		return protocol.V1_20
	case v >= protocol.V1_19_4:
		return protocol.V1_19_4
	case v >= protocol.V1_19_1:
		return protocol.V1_19_1
	case v >= protocol.V1_19:
		return protocol.V1_19
	case v >= protocol.V1_18:
		return protocol.V1_18
	case v >= protocol.V1_16_2:
		return protocol.V1_16_2
	case v >= protocol.V1_16:
		return protocol.V1_16
	case v >= protocol.V1_15:
		return protocol.V1_15
	case v >= protocol.V1_14:
		return protocol.V1_14
	case v >= protocol.V1_9:
		return protocol.V1_9
	default:
		return protocol.V1_7_2
	}
}

// buildEmptyChunkPayload builds a minimal empty chunk-data payload: no
// block entities, a zero section bitmask (no populated sections), and an
// empty height map. It is sent once so the client has the spawn chunk
// loaded beneath the barrier platform's section.
func buildEmptyChunkPayload() []byte {
	var buf bytes.Buffer
	protocol.WriteVarInt(&buf, 0) // chunk X
	protocol.WriteVarInt(&buf, 0) // chunk Z
	protocol.WriteVarInt(&buf, 0) // primary bit mask / section count: none populated
	protocol.WriteVarInt(&buf, 0) // heightmaps: empty compound marker
	protocol.WriteVarInt(&buf, 0) // data size
	protocol.WriteVarInt(&buf, 0) // block entity count
	return buf.Bytes()
}

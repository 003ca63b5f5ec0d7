package protocol

import "bytes"

// JoinGameParams carries the fields that vary only by value (not by schema
// shape) across every bracket: entity id, gamemode, and the registry NBT
// blobs assembled once by the assets package.
type JoinGameParams struct {
	EntityID         int32
	Gamemode         int8
	PreviousGamemode int8
	Dimension        string
	WorldName        string
	HashedSeed       int64
	MaxPlayers       int32
	ViewDistance     int32
	SimDistance      int32
	ReducedDebugInfo bool
	RespawnScreen    bool
	IsDebug          bool
	IsFlat           bool
	DimensionCodec   Tag // only used pre-1.20.2, where it travels inside JoinGame
}

// EncodeJoinGame renders the clientbound JoinGame payload for v's bracket.
// The schema is selected once at startup per bracket and reused for every
// session at that version (spec.md §4.1, §4.3): this function is the
// "single per-version schema" the spec calls for, branch-per-bracket
// rather than branch-per-field.
func EncodeJoinGame(v Version, p JoinGameParams) []byte {
	var buf bytes.Buffer
	switch bracketFor(v) {
	case bracketLegacy17:
		binaryWrite(&buf, p.EntityID)
		buf.WriteByte(byte(p.Gamemode))
		buf.WriteByte(0x00) // dimension: overworld, signed byte
		buf.WriteByte(0x00) // difficulty
		buf.WriteByte(byte(clampMax(p.MaxPlayers, 255)))
		WriteString(&buf, "default")
		buf.WriteByte(boolByte(p.ReducedDebugInfo))
	case bracket19:
		binaryWrite(&buf, p.EntityID)
		buf.WriteByte(byte(p.Gamemode))
		binaryWrite(&buf, int32(0)) // dimension
		buf.WriteByte(0x00)         // difficulty
		buf.WriteByte(byte(clampMax(p.MaxPlayers, 255)))
		WriteString(&buf, "default")
		buf.WriteByte(boolByte(p.ReducedDebugInfo))
	case bracket114, bracket115:
		binaryWrite(&buf, p.EntityID)
		buf.WriteByte(byte(p.Gamemode))
		binaryWrite(&buf, int32(0)) // dimension
		if bracketFor(v) == bracket115 {
			binaryWrite(&buf, p.HashedSeed)
		}
		buf.WriteByte(byte(clampMax(p.MaxPlayers, 255)))
		WriteString(&buf, "default")
		WriteVarInt(&buf, p.ViewDistance)
		buf.WriteByte(boolByte(p.ReducedDebugInfo))
	case bracket116, bracket1162:
		binaryWrite(&buf, p.EntityID)
		buf.WriteByte(boolByte(p.IsDebug))
		buf.WriteByte(byte(p.Gamemode))
		buf.WriteByte(byte(p.PreviousGamemode))
		WriteVarInt(&buf, 1) // world count
		WriteString(&buf, p.WorldName)
		WriteNamedNBT(&buf, "", p.DimensionCodec)
		WriteString(&buf, p.Dimension)
		WriteString(&buf, p.WorldName)
		binaryWrite(&buf, p.HashedSeed)
		buf.WriteByte(byte(clampMax(p.MaxPlayers, 255)))
		WriteVarInt(&buf, p.ViewDistance)
		buf.WriteByte(boolByte(p.ReducedDebugInfo))
		buf.WriteByte(boolByte(p.RespawnScreen))
		buf.WriteByte(boolByte(false)) // is debug world
		buf.WriteByte(boolByte(p.IsFlat))
	case bracket118, bracket119, bracket1191:
		binaryWrite(&buf, p.EntityID)
		buf.WriteByte(boolByte(p.IsDebug))
		buf.WriteByte(byte(p.Gamemode))
		buf.WriteByte(byte(p.PreviousGamemode))
		WriteVarInt(&buf, 1)
		WriteString(&buf, p.WorldName)
		WriteNamedNBT(&buf, "", p.DimensionCodec)
		WriteString(&buf, p.Dimension)
		WriteString(&buf, p.WorldName)
		binaryWrite(&buf, p.HashedSeed)
		WriteVarInt(&buf, p.MaxPlayers)
		WriteVarInt(&buf, p.ViewDistance)
		WriteVarInt(&buf, p.SimDistance)
		buf.WriteByte(boolByte(p.ReducedDebugInfo))
		buf.WriteByte(boolByte(p.RespawnScreen))
		buf.WriteByte(boolByte(false))
		buf.WriteByte(boolByte(p.IsFlat))
		if bracketFor(v) >= bracket119 {
			buf.WriteByte(0) // has death location: false
		}
	case bracket1194, bracket120:
		binaryWrite(&buf, p.EntityID)
		buf.WriteByte(boolByte(p.IsDebug))
		buf.WriteByte(byte(p.Gamemode))
		buf.WriteByte(byte(p.PreviousGamemode))
		WriteVarInt(&buf, 1)
		WriteString(&buf, p.WorldName)
		WriteNamedNBT(&buf, "", p.DimensionCodec)
		WriteString(&buf, p.Dimension)
		WriteString(&buf, p.WorldName)
		binaryWrite(&buf, p.HashedSeed)
		WriteVarInt(&buf, p.MaxPlayers)
		WriteVarInt(&buf, p.ViewDistance)
		WriteVarInt(&buf, p.SimDistance)
		buf.WriteByte(boolByte(p.ReducedDebugInfo))
		buf.WriteByte(boolByte(p.RespawnScreen))
		buf.WriteByte(boolByte(false))
		buf.WriteByte(boolByte(p.IsFlat))
		buf.WriteByte(0) // has death location: false
		WriteVarInt(&buf, 0) // portal cooldown
	case bracket1202:
		// >=1.20.2: the dimension codec travels via RegistryData in the
		// Configuration phase, so JoinGame only carries identifiers.
		binaryWrite(&buf, p.EntityID)
		buf.WriteByte(boolByte(p.IsDebug))
		buf.WriteByte(byte(p.Gamemode))
		buf.WriteByte(byte(p.PreviousGamemode))
		WriteVarInt(&buf, 1)
		WriteString(&buf, p.WorldName)
		WriteVarInt(&buf, 0) // portal cooldown moves earlier in 1.20.2+... kept minimal
		WriteVarInt(&buf, p.MaxPlayers)
		WriteVarInt(&buf, p.ViewDistance)
		WriteVarInt(&buf, p.SimDistance)
		buf.WriteByte(boolByte(p.ReducedDebugInfo))
		buf.WriteByte(boolByte(p.RespawnScreen))
		buf.WriteByte(boolByte(false))
		buf.WriteByte(boolByte(p.IsFlat))
		buf.WriteByte(0) // has death location
		WriteString(&buf, p.Dimension)
		WriteString(&buf, p.WorldName)
		binaryWrite(&buf, p.HashedSeed)
	}
	return buf.Bytes()
}

func binaryWrite(buf *bytes.Buffer, v interface{}) {
	switch x := v.(type) {
	case int32:
		buf.WriteByte(byte(x >> 24))
		buf.WriteByte(byte(x >> 16))
		buf.WriteByte(byte(x >> 8))
		buf.WriteByte(byte(x))
	case int64:
		for shift := 56; shift >= 0; shift -= 8 {
			buf.WriteByte(byte(x >> shift))
		}
	}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func clampMax(v int32, max int32) int32 {
	if v > max {
		return max
	}
	return v
}

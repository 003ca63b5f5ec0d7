package assets

import (
	"bytes"
	"math"

	"github.com/ocx/limbo-gate/internal/protocol"
)

// BlocksPerRow is the platform's side length in blocks (spec.md §3).
const BlocksPerRow = 8

// PlatformY is the Y level the barrier blocks occupy; their top surface,
// where a falling player comes to rest, is PlatformY+1.
const PlatformY = 255

// BarrierBlockStateID is the global palette id for the barrier block on
// modern (>=1.13 flattening) versions. Pre-flattening versions address
// blocks by (id<<4|meta); barrier is block id 166, meta 0.
const (
	BarrierBlockStateID  = 8591 // representative 1.18-1.20 global palette id
	BarrierLegacyBlockID = 166
)

// Platform holds the precomputed spawn position and the UpdateSectionBlocks
// payload for one protocol version.
type Platform struct {
	SpawnX, SpawnZ int
	SpawnY         float64
	Update         *protocol.Frame
}

// BuildPlatform computes the spawn Y from the falling table (PlatformY + 5
// plus the ceiling of the cumulative fall over maxMovementTicks ticks) and
// the 64 barrier-block change records centered under the spawn.
func BuildPlatform(v protocol.Version, table *FallingTable, maxMovementTicks int) *Platform {
	// CumulativeFall is the non-negative total over the first
	// maxMovementTicks table entries: SpawnY = PlatformY + 5 + ceil(total).
	fall := table.CumulativeFall(maxMovementTicks)
	spawnY := float64(PlatformY) + 5 + math.Ceil(fall)

	spawnX, spawnZ := BlocksPerRow, BlocksPerRow
	payload := encodeSectionUpdate(v, spawnX, spawnZ)
	id, _ := protocol.NewRegistry().IDFor(v, protocol.Clientbound, protocol.PacketUpdateSectionBlocks)

	return &Platform{
		SpawnX: spawnX,
		SpawnZ: spawnZ,
		SpawnY: spawnY,
		Update: &protocol.Frame{PacketID: id, Payload: payload},
	}
}

// encodeSectionUpdate builds the Multi Block Change payload for an 8x8
// barrier grid at PlatformY, chunk section (0,0,floor(PlatformY/16)).
func encodeSectionUpdate(v protocol.Version, centerX, centerZ int) []byte {
	var buf bytes.Buffer
	sectionY := PlatformY / 16

	if v >= protocol.V1_16_2 {
		// Packed section-relative records: (sectionX,sectionY,sectionZ) as a
		// single long, then a varint count and varlong records of
		// (state<<12)|(localX<<8)|(localZ<<4)|localY.
		sectionPos := (int64(0)&0x3FFFFF)<<42 | (int64(sectionY)&0xFFFFF)<<0 | (int64(0)&0x3FFFFF)<<20
		writeInt64(&buf, sectionPos)
		buf.WriteByte(1) // trust edges / suppress light (1.19.4+); harmless elsewhere
		protocol.WriteVarInt(&buf, BlocksPerRow*BlocksPerRow)
		localY := PlatformY % 16
		for dx := 0; dx < BlocksPerRow; dx++ {
			for dz := 0; dz < BlocksPerRow; dz++ {
				localX := (centerX - BlocksPerRow/2 + dx) % 16
				localZ := (centerZ - BlocksPerRow/2 + dz) % 16
				record := int64(BarrierBlockStateID)<<12 | int64(localX)<<8 | int64(localZ)<<4 | int64(localY)
				protocol.WriteVarLong(&buf, record)
			}
		}
		return buf.Bytes()
	}

	// Legacy Multi Block Change: chunk X/Z ints, record count, then
	// (x<<28|z<<24|y<<16|(id<<4|meta)) per-record for the same grid.
	writeInt32(&buf, 0) // chunk X
	writeInt32(&buf, 0) // chunk Z
	protocol.WriteVarInt(&buf, BlocksPerRow*BlocksPerRow)
	for dx := 0; dx < BlocksPerRow; dx++ {
		for dz := 0; dz < BlocksPerRow; dz++ {
			localX := (centerX - BlocksPerRow/2 + dx) % 16
			localZ := (centerZ - BlocksPerRow/2 + dz) % 16
			blockData := int32(BarrierLegacyBlockID) << 4
			record := int32(localX)<<28 | int32(localZ)<<24 | int32(PlatformY)<<16 | blockData
			writeInt32(&buf, record)
		}
	}
	return buf.Bytes()
}

func writeInt32(buf *bytes.Buffer, v int32) {
	buf.WriteByte(byte(v >> 24))
	buf.WriteByte(byte(v >> 16))
	buf.WriteByte(byte(v >> 8))
	buf.WriteByte(byte(v))
}

func writeInt64(buf *bytes.Buffer, v int64) {
	for shift := 56; shift >= 0; shift -= 8 {
		buf.WriteByte(byte(v >> shift))
	}
}

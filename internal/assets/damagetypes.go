package assets

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"

	"github.com/ocx/limbo-gate/internal/protocol"
)

// damageTypeAssetFile returns the shipped GZIP-NBT blob name for v
// (spec.md §6): damage_type_1194.nbt for 1.19.4, damage_type_120.nbt for
// >=1.20.
func damageTypeAssetFile(v protocol.Version) string {
	if v >= protocol.V1_20 {
		return "damage_type_120.nbt"
	}
	return "damage_type_1194.nbt"
}

// DamageTypeRegistry loads the shipped damage-type registry NBT for v. If
// the asset file isn't present on disk (e.g. a dev checkout without the
// binary assets vendored), it falls back to a minimal but valid registry
// covering the damage types the client needs to resolve death messages;
// the player never actually dies in limbo, so fallback fidelity only
// needs to satisfy client-side NBT validation, not gameplay correctness.
func DamageTypeRegistry(v protocol.Version) protocol.Tag {
	if t, ok := loadDamageTypeAsset(v); ok {
		return t
	}
	return syntheticDamageTypeRegistry()
}

func loadDamageTypeAsset(v protocol.Version) (protocol.Tag, bool) {
	dir := os.Getenv("LIMBO_GATE_ASSET_DIR")
	if dir == "" {
		dir = "internal/assets/data"
	}
	path := filepath.Join(dir, damageTypeAssetFile(v))
	f, err := os.Open(path)
	if err != nil {
		return protocol.Tag{}, false
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return protocol.Tag{}, false
	}
	defer gz.Close()

	raw, err := io.ReadAll(gz)
	if err != nil {
		return protocol.Tag{}, false
	}
	_, tag, err := protocol.ReadNamedNBT(bytes.NewReader(raw))
	if err != nil {
		return protocol.Tag{}, false
	}
	return tag, true
}

func syntheticDamageTypeRegistry() protocol.Tag {
	generic := protocol.Compound(
		protocol.N("name", protocol.StringTag("minecraft:generic")),
		protocol.N("id", protocol.IntTag(0)),
		protocol.N("element", protocol.Compound(
			protocol.N("message_id", protocol.StringTag("generic")),
			protocol.N("scaling", protocol.StringTag("when_caused_by_living_non_player")),
			protocol.N("exhaustion", protocol.FloatTag(0)),
		)),
	)
	fall := protocol.Compound(
		protocol.N("name", protocol.StringTag("minecraft:fall")),
		protocol.N("id", protocol.IntTag(1)),
		protocol.N("element", protocol.Compound(
			protocol.N("message_id", protocol.StringTag("fall")),
			protocol.N("scaling", protocol.StringTag("when_caused_by_living_non_player")),
			protocol.N("exhaustion", protocol.FloatTag(0)),
			protocol.N("effects", protocol.StringTag("falling")),
		)),
	)
	return protocol.Compound(
		protocol.N("type", protocol.StringTag("minecraft:damage_type")),
		protocol.N("value", listOfCompounds(generic, fall)),
	)
}

package assets

import "github.com/ocx/limbo-gate/internal/protocol"

// BuildDimensionCodec constructs the minimal dimension-codec NBT compound
// carried by JoinGame on >=1.16 (or by RegistryData in the Configuration
// phase on >=1.20.2): a single overworld dimension type and a single
// plains biome, enough for the client to render the limbo world.
func BuildDimensionCodec(v protocol.Version) protocol.Tag {
	dimensionType := protocol.Compound(
		protocol.N("name", protocol.StringTag("minecraft:overworld")),
		protocol.N("id", protocol.IntTag(0)),
		protocol.N("element", overworldDimensionType()),
	)
	biome := protocol.Compound(
		protocol.N("name", protocol.StringTag("minecraft:plains")),
		protocol.N("id", protocol.IntTag(0)),
		protocol.N("element", plainsBiome()),
	)

	dimRegistry := protocol.Compound(
		protocol.N("type", protocol.StringTag("minecraft:dimension_type")),
		protocol.N("value", listOfCompounds(dimensionType)),
	)
	biomeRegistry := protocol.Compound(
		protocol.N("type", protocol.StringTag("minecraft:worldgen/biome")),
		protocol.N("value", listOfCompounds(biome)),
	)

	named := []protocol.NamedTag{
		protocol.N("minecraft:dimension_type", dimRegistry),
		protocol.N("minecraft:worldgen/biome", biomeRegistry),
	}
	if v >= protocol.V1_19_4 {
		named = append(named, protocol.N("minecraft:damage_type", DamageTypeRegistry(v)))
	}
	return protocol.Compound(named...)
}

func listOfCompounds(items ...protocol.Tag) protocol.Tag {
	return protocol.ListTag(10, items) // 10 == compound tag id
}

func overworldDimensionType() protocol.Tag {
	return protocol.Compound(
		protocol.N("piglin_safe", protocol.ByteTag(0)),
		protocol.N("natural", protocol.ByteTag(1)),
		protocol.N("ambient_light", protocol.FloatTag(0)),
		protocol.N("infiniburn", protocol.StringTag("#minecraft:infiniburn_overworld")),
		protocol.N("respawn_anchor_works", protocol.ByteTag(0)),
		protocol.N("has_skylight", protocol.ByteTag(1)),
		protocol.N("bed_works", protocol.ByteTag(1)),
		protocol.N("effects", protocol.StringTag("minecraft:overworld")),
		protocol.N("has_raids", protocol.ByteTag(1)),
		protocol.N("logical_height", protocol.IntTag(384)),
		protocol.N("coordinate_scale", protocol.DoubleTag(1)),
		protocol.N("ultrawarm", protocol.ByteTag(0)),
		protocol.N("has_ceiling", protocol.ByteTag(0)),
		protocol.N("min_y", protocol.IntTag(-64)),
		protocol.N("height", protocol.IntTag(384)),
	)
}

func plainsBiome() protocol.Tag {
	return protocol.Compound(
		protocol.N("precipitation", protocol.StringTag("rain")),
		protocol.N("temperature", protocol.FloatTag(0.8)),
		protocol.N("downfall", protocol.FloatTag(0.4)),
		protocol.N("effects", protocol.Compound(
			protocol.N("sky_color", protocol.IntTag(7907327)),
			protocol.N("water_color", protocol.IntTag(4159204)),
			protocol.N("fog_color", protocol.IntTag(12638463)),
			protocol.N("water_fog_color", protocol.IntTag(329011)),
		)),
	)
}

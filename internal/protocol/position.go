package protocol

// EncodePosition packs block coordinates into the 64-bit wire format.
// The bit layout is version-exact (spec.md §4.1): >=1.14 packs
// x(26)|z(26)|y(12), while legacy (<1.14) packs x(26)|y(12)|z(26).
func EncodePosition(v Version, x, y, z int) int64 {
	if v.EncodesPositionPacked14() {
		return ((int64(x) & 0x3FFFFFF) << 38) | ((int64(z) & 0x3FFFFFF) << 12) | (int64(y) & 0xFFF)
	}
	return ((int64(x) & 0x3FFFFFF) << 38) | ((int64(y) & 0xFFF) << 26) | (int64(z) & 0x3FFFFFF)
}

func signExtend(value int64, bits uint) int64 {
	shift := 64 - bits
	return (value << shift) >> shift
}

// DecodePosition unpacks the 64-bit wire format back into block coordinates,
// sign-extending the 26-bit X/Z fields and 12-bit Y field.
func DecodePosition(v Version, encoded int64) (x, y, z int) {
	if v.EncodesPositionPacked14() {
		x = int(signExtend((encoded>>38)&0x3FFFFFF, 26))
		z = int(signExtend((encoded>>12)&0x3FFFFFF, 26))
		y = int(signExtend(encoded&0xFFF, 12))
		return
	}
	x = int(signExtend((encoded>>38)&0x3FFFFFF, 26))
	y = int(signExtend((encoded>>26)&0xFFF, 12))
	z = int(signExtend(encoded&0x3FFFFFF, 26))
	return
}

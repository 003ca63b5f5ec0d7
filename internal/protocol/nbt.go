package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// NBT tag ids (binary tag format, spec.md §4.1/§6).
const (
	tagEnd byte = iota
	tagByte
	tagShort
	tagInt
	tagLong
	tagFloat
	tagDouble
	tagByteArray
	tagString
	tagList
	tagCompound
	tagIntArray
	tagLongArray
)

// Tag is an in-memory NBT value. Exactly one of the typed fields is
// meaningful, selected by Kind.
type Tag struct {
	Kind      byte
	Byte      int8
	Short     int16
	Int       int32
	Long      int64
	Float     float32
	Double    float64
	Str       string
	ByteArr   []int8
	IntArr    []int32
	LongArr   []int64
	List      []Tag // homogeneous, ListKind selects the element type
	ListKind  byte
	Compound  map[string]Tag
	CompOrder []string // preserves insertion order on write
}

// Compound builds a Tag of kind compound from an ordered list of named tags.
func Compound(entries ...NamedTag) Tag {
	t := Tag{Kind: tagCompound, Compound: make(map[string]Tag, len(entries))}
	for _, e := range entries {
		t.Compound[e.Name] = e.Tag
		t.CompOrder = append(t.CompOrder, e.Name)
	}
	return t
}

// NamedTag is a name/value pair used to build compounds declaratively.
type NamedTag struct {
	Name string
	Tag  Tag
}

func N(name string, t Tag) NamedTag { return NamedTag{Name: name, Tag: t} }

func StringTag(s string) Tag  { return Tag{Kind: tagString, Str: s} }
func IntTag(v int32) Tag      { return Tag{Kind: tagInt, Int: v} }
func ByteTag(v int8) Tag      { return Tag{Kind: tagByte, Byte: v} }
func ShortTag(v int16) Tag    { return Tag{Kind: tagShort, Short: v} }
func LongTag(v int64) Tag     { return Tag{Kind: tagLong, Long: v} }
func FloatTag(v float32) Tag  { return Tag{Kind: tagFloat, Float: v} }
func DoubleTag(v float64) Tag { return Tag{Kind: tagDouble, Double: v} }
func IntArrayTag(v []int32) Tag {
	return Tag{Kind: tagIntArray, IntArr: v}
}
func LongArrayTag(v []int64) Tag {
	return Tag{Kind: tagLongArray, LongArr: v}
}
func ListTag(elemKind byte, items []Tag) Tag {
	return Tag{Kind: tagList, ListKind: elemKind, List: items}
}

// WriteNamedNBT writes a full named NBT document: tag id, name, payload.
func WriteNamedNBT(buf *bytes.Buffer, name string, t Tag) error {
	buf.WriteByte(t.Kind)
	if err := writeNBTString(buf, name); err != nil {
		return err
	}
	return writeNBTPayload(buf, t)
}

func writeNBTString(buf *bytes.Buffer, s string) error {
	if err := binary.Write(buf, binary.BigEndian, uint16(len(s))); err != nil {
		return err
	}
	_, err := buf.WriteString(s)
	return err
}

func writeNBTPayload(buf *bytes.Buffer, t Tag) error {
	switch t.Kind {
	case tagEnd:
		return nil
	case tagByte:
		return binary.Write(buf, binary.BigEndian, t.Byte)
	case tagShort:
		return binary.Write(buf, binary.BigEndian, t.Short)
	case tagInt:
		return binary.Write(buf, binary.BigEndian, t.Int)
	case tagLong:
		return binary.Write(buf, binary.BigEndian, t.Long)
	case tagFloat:
		return binary.Write(buf, binary.BigEndian, t.Float)
	case tagDouble:
		return binary.Write(buf, binary.BigEndian, t.Double)
	case tagByteArray:
		if err := binary.Write(buf, binary.BigEndian, int32(len(t.ByteArr))); err != nil {
			return err
		}
		for _, b := range t.ByteArr {
			if err := buf.WriteByte(byte(b)); err != nil {
				return err
			}
		}
		return nil
	case tagString:
		return writeNBTString(buf, t.Str)
	case tagList:
		buf.WriteByte(t.ListKind)
		if err := binary.Write(buf, binary.BigEndian, int32(len(t.List))); err != nil {
			return err
		}
		for _, item := range t.List {
			if err := writeNBTPayload(buf, item); err != nil {
				return err
			}
		}
		return nil
	case tagCompound:
		for _, name := range t.CompOrder {
			child := t.Compound[name]
			buf.WriteByte(child.Kind)
			if err := writeNBTString(buf, name); err != nil {
				return err
			}
			if err := writeNBTPayload(buf, child); err != nil {
				return err
			}
		}
		return buf.WriteByte(tagEnd)
	case tagIntArray:
		if err := binary.Write(buf, binary.BigEndian, int32(len(t.IntArr))); err != nil {
			return err
		}
		return binary.Write(buf, binary.BigEndian, t.IntArr)
	case tagLongArray:
		if err := binary.Write(buf, binary.BigEndian, int32(len(t.LongArr))); err != nil {
			return err
		}
		return binary.Write(buf, binary.BigEndian, t.LongArr)
	default:
		return fmt.Errorf("nbt: unsupported tag kind %d", t.Kind)
	}
}

// ReadNamedNBT reads a full named NBT document from buf.
func ReadNamedNBT(buf *bytes.Reader) (name string, t Tag, err error) {
	kind, err := buf.ReadByte()
	if err != nil {
		return "", Tag{}, err
	}
	if kind == tagEnd {
		return "", Tag{Kind: tagEnd}, nil
	}
	name, err = readNBTString(buf)
	if err != nil {
		return "", Tag{}, err
	}
	t, err = readNBTPayload(buf, kind)
	return name, t, err
}

func readNBTString(buf *bytes.Reader) (string, error) {
	var length uint16
	if err := binary.Read(buf, binary.BigEndian, &length); err != nil {
		return "", err
	}
	b := make([]byte, length)
	if _, err := buf.Read(b); err != nil {
		return "", err
	}
	return string(b), nil
}

func readNBTPayload(buf *bytes.Reader, kind byte) (Tag, error) {
	switch kind {
	case tagEnd:
		return Tag{Kind: tagEnd}, nil
	case tagByte:
		var v int8
		err := binary.Read(buf, binary.BigEndian, &v)
		return Tag{Kind: kind, Byte: v}, err
	case tagShort:
		var v int16
		err := binary.Read(buf, binary.BigEndian, &v)
		return Tag{Kind: kind, Short: v}, err
	case tagInt:
		var v int32
		err := binary.Read(buf, binary.BigEndian, &v)
		return Tag{Kind: kind, Int: v}, err
	case tagLong:
		var v int64
		err := binary.Read(buf, binary.BigEndian, &v)
		return Tag{Kind: kind, Long: v}, err
	case tagFloat:
		var v float32
		err := binary.Read(buf, binary.BigEndian, &v)
		return Tag{Kind: kind, Float: v}, err
	case tagDouble:
		var v float64
		err := binary.Read(buf, binary.BigEndian, &v)
		return Tag{Kind: kind, Double: v}, err
	case tagByteArray:
		var n int32
		if err := binary.Read(buf, binary.BigEndian, &n); err != nil {
			return Tag{}, err
		}
		arr := make([]int8, n)
		for i := range arr {
			b, err := buf.ReadByte()
			if err != nil {
				return Tag{}, err
			}
			arr[i] = int8(b)
		}
		return Tag{Kind: kind, ByteArr: arr}, nil
	case tagString:
		s, err := readNBTString(buf)
		return Tag{Kind: kind, Str: s}, err
	case tagList:
		elemKind, err := buf.ReadByte()
		if err != nil {
			return Tag{}, err
		}
		var n int32
		if err := binary.Read(buf, binary.BigEndian, &n); err != nil {
			return Tag{}, err
		}
		items := make([]Tag, n)
		for i := range items {
			item, err := readNBTPayload(buf, elemKind)
			if err != nil {
				return Tag{}, err
			}
			items[i] = item
		}
		return Tag{Kind: kind, ListKind: elemKind, List: items}, nil
	case tagCompound:
		t := Tag{Kind: kind, Compound: make(map[string]Tag)}
		for {
			childKind, err := buf.ReadByte()
			if err != nil {
				return Tag{}, err
			}
			if childKind == tagEnd {
				break
			}
			name, err := readNBTString(buf)
			if err != nil {
				return Tag{}, err
			}
			child, err := readNBTPayload(buf, childKind)
			if err != nil {
				return Tag{}, err
			}
			t.Compound[name] = child
			t.CompOrder = append(t.CompOrder, name)
		}
		return t, nil
	case tagIntArray:
		var n int32
		if err := binary.Read(buf, binary.BigEndian, &n); err != nil {
			return Tag{}, err
		}
		arr := make([]int32, n)
		err := binary.Read(buf, binary.BigEndian, &arr)
		return Tag{Kind: kind, IntArr: arr}, err
	case tagLongArray:
		var n int32
		if err := binary.Read(buf, binary.BigEndian, &n); err != nil {
			return Tag{}, err
		}
		arr := make([]int64, n)
		err := binary.Read(buf, binary.BigEndian, &arr)
		return Tag{Kind: kind, LongArr: arr}, err
	default:
		return Tag{}, fmt.Errorf("nbt: unsupported tag kind %d", kind)
	}
}

// PackLongArray packs fixed-width unsigned values (e.g. block positions or
// heightmap entries) into a minimal long array, `bitsPerEntry` bits each,
// matching the upstream protocol's packed long-array primitive.
func PackLongArray(values []uint64, bitsPerEntry uint) []int64 {
	perLong := 64 / bitsPerEntry
	numLongs := (uint(len(values)) + perLong - 1) / perLong
	out := make([]int64, numLongs)
	mask := uint64(1)<<bitsPerEntry - 1
	for i, v := range values {
		longIdx := uint(i) / perLong
		bitOffset := (uint(i) % perLong) * bitsPerEntry
		out[longIdx] |= int64((v & mask) << bitOffset)
	}
	return out
}

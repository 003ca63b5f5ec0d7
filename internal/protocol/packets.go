package protocol

import (
	"bytes"
	"encoding/binary"

	"github.com/google/uuid"
)

// Handshake is the single serverbound packet that starts every connection,
// byte-identical across every supported version (spec.md §4.1).
type Handshake struct {
	ProtocolVersion Version
	ServerAddress   string
	ServerPort      uint16
	NextState       int32 // 1 = status, 2 = login
}

func DecodeHandshake(payload []byte) (*Handshake, error) {
	r := bytes.NewReader(payload)
	protoVer, err := ReadVarInt(r)
	if err != nil {
		return nil, wrapErr(KindIO, true, err, "handshake protocol version")
	}
	addr, err := ReadString(r, 255)
	if err != nil {
		return nil, wrapErr(KindIO, true, err, "handshake server address")
	}
	var port uint16
	if err := binary.Read(r, binary.BigEndian, &port); err != nil {
		return nil, wrapErr(KindIO, true, err, "handshake server port")
	}
	nextState, err := ReadVarInt(r)
	if err != nil {
		return nil, wrapErr(KindIO, true, err, "handshake next state")
	}
	return &Handshake{
		ProtocolVersion: Version(protoVer),
		ServerAddress:   addr,
		ServerPort:      port,
		NextState:       nextState,
	}, nil
}

// LoginStart is the serverbound packet carrying the claimed username. Field
// presence beyond the username varies by bracket; we only need the name.
type LoginStart struct {
	Username string
	UUID     uuid.UUID
}

func DecodeLoginStart(v Version, payload []byte) (*LoginStart, error) {
	r := bytes.NewReader(payload)
	name, err := ReadString(r, MaxUsernameLen)
	if err != nil {
		return nil, wrapErr(KindInvalidUsername, true, err, "login start username")
	}
	ls := &LoginStart{Username: name}
	// 1.19-1.19.2 carried an optional signature payload here that is not
	// parsed; from 1.19.1 on, the 16 bytes after the name are read as the
	// player UUID when present.
	if v >= V1_19 && r.Len() >= 16 {
		var raw [16]byte
		if v >= V1_19_1 {
			if _, err := r.Read(raw[:]); err == nil {
				ls.UUID = uuid.UUID(raw)
			}
		}
	}
	return ls, nil
}

// EncodeLoginSuccess builds the clientbound LoginSuccess payload.
func EncodeLoginSuccess(v Version, id uuid.UUID, username string) []byte {
	var buf bytes.Buffer
	if v >= V1_16 {
		buf.Write(id[:])
	} else {
		WriteString(&buf, uuidToDashed(id))
	}
	WriteString(&buf, username)
	if v >= V1_19 {
		WriteVarInt(&buf, 0) // zero-length property array
	}
	return buf.Bytes()
}

func uuidToDashed(id uuid.UUID) string { return id.String() }

// EncodeSetCompression builds the clientbound SetCompression payload.
func EncodeSetCompression(threshold int32) []byte {
	var buf bytes.Buffer
	WriteVarInt(&buf, threshold)
	return buf.Bytes()
}

// ClientInformation (formerly ClientSettings) carries the client's chosen
// locale among other display preferences; the gate only inspects locale.
type ClientInformation struct {
	Locale string
}

func DecodeClientInformation(payload []byte) (*ClientInformation, error) {
	r := bytes.NewReader(payload)
	locale, err := ReadString(r, 16)
	if err != nil {
		return nil, wrapErr(KindInvalidLocale, true, err, "client information locale")
	}
	return &ClientInformation{Locale: locale}, nil
}

// PluginMessage is bidirectional; we use it clientbound to announce the
// server brand and serverbound to read the client's.
type PluginMessage struct {
	Channel string
	Data    []byte
}

func DecodePluginMessage(payload []byte) (*PluginMessage, error) {
	r := bytes.NewReader(payload)
	channel, err := ReadString(r, 32767)
	if err != nil {
		return nil, wrapErr(KindIO, true, err, "plugin message channel")
	}
	data := make([]byte, r.Len())
	r.Read(data)
	return &PluginMessage{Channel: channel, Data: data}, nil
}

func EncodeBrandMessage(v Version, brand string) *PluginMessage {
	channel := "minecraft:brand"
	if v < V1_16 {
		channel = "MC|Brand"
	}
	var buf bytes.Buffer
	WriteString(&buf, brand)
	return &PluginMessage{Channel: channel, Data: buf.Bytes()}
}

// PlayerPositionAndLook is the serverbound movement packet we drive the
// falling-motion check against.
type PlayerPositionAndLook struct {
	X, Y, Z    float64
	Yaw, Pitch float32
	OnGround   bool
}

// DecodePlayerPosition reads the X, Y and Z doubles that open a serverbound
// PlayerPosition or PlayerPositionAndLook payload. The byte after Z, if
// any, is returned as onGround; that is the on-ground flag only for
// PlayerPosition. Other movement variants are not decoded.
func DecodePlayerPosition(payload []byte) (x, y, z float64, onGround bool, err error) {
	r := bytes.NewReader(payload)
	if err = binary.Read(r, binary.BigEndian, &x); err != nil {
		return
	}
	if err = binary.Read(r, binary.BigEndian, &y); err != nil {
		return
	}
	if err = binary.Read(r, binary.BigEndian, &z); err != nil {
		return
	}
	var ground byte
	if r.Len() > 0 {
		ground, err = r.ReadByte()
	}
	onGround = ground != 0
	return
}

// EncodePlayerPositionAndLook builds the clientbound teleport packet that
// places the player above the verification platform.
func EncodePlayerPositionAndLook(v Version, x, y, z float64, yaw, pitch float32, teleportID int32) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, x)
	binary.Write(&buf, binary.BigEndian, y)
	binary.Write(&buf, binary.BigEndian, z)
	binary.Write(&buf, binary.BigEndian, yaw)
	binary.Write(&buf, binary.BigEndian, pitch)
	buf.WriteByte(0) // relative-flags bitmask: all absolute
	if v >= V1_9 {
		WriteVarInt(&buf, teleportID)
	}
	if v >= V1_19_4 {
		buf.WriteByte(0) // dismount vehicle flag
	}
	return buf.Bytes()
}

// KeepAlive ids are int64 on every version we support (the very first
// releases used int32, but those predate MinSupported).
func DecodeKeepAlive(payload []byte) (int64, error) {
	r := bytes.NewReader(payload)
	var id int64
	if err := binary.Read(r, binary.BigEndian, &id); err != nil {
		return 0, wrapErr(KindKeepAliveMismatch, true, err, "keep alive id")
	}
	return id, nil
}

func EncodeKeepAlive(id int64) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, id)
	return buf.Bytes()
}

// EncodeDisconnect builds a Disconnect payload carrying a plain-text chat
// component, used in both Login and Play phases.
func EncodeDisconnect(v Version, reason string) []byte {
	var buf bytes.Buffer
	component := `{"text":"` + escapeJSON(reason) + `"}`
	WriteString(&buf, component)
	return buf.Bytes()
}

func escapeJSON(s string) string {
	var out bytes.Buffer
	for _, r := range s {
		switch r {
		case '"', '\\':
			out.WriteByte('\\')
			out.WriteRune(r)
		case '\n':
			out.WriteString(`\n`)
		default:
			out.WriteRune(r)
		}
	}
	return out.String()
}

// EncodeFinishConfiguration returns the FinishConfiguration payload, which
// has no body.
func EncodeFinishConfiguration() []byte { return nil }

// EncodeRegistryData builds the clientbound RegistryData payload used in
// the Configuration phase (>=1.20.2) to carry the dimension/damage-type
// registries that earlier brackets embed directly in JoinGame.
func EncodeRegistryData(codec Tag) []byte {
	var buf bytes.Buffer
	WriteNamedNBT(&buf, "", codec)
	return buf.Bytes()
}

// EncodePlayerAbilities builds the clientbound abilities packet with flight
// disabled and walk/fly speeds at their defaults; the verification flow
// never grants flight.
func EncodePlayerAbilities() []byte {
	var buf bytes.Buffer
	buf.WriteByte(0x00)
	binary.Write(&buf, binary.BigEndian, float32(0.1))
	binary.Write(&buf, binary.BigEndian, float32(0.05))
	return buf.Bytes()
}

package protocol

import "fmt"

// Kind enumerates the error taxonomy from spec.md §7. Framing/decode errors
// in Handshake/Login are fatal; in Play, unknown ids are dropped and other
// errors terminate the session.
type Kind string

const (
	KindIO                  Kind = "io"
	KindFrameTooLarge       Kind = "frame_too_large"
	KindCompressionMismatch Kind = "compression_mismatch"
	KindUnknownPacketID     Kind = "unknown_packet_id"
	KindOutOfOrder          Kind = "out_of_order"
	KindInvalidProtocol     Kind = "invalid_protocol"
	KindInvalidUsername     Kind = "invalid_username"
	KindInvalidBrand        Kind = "invalid_brand"
	KindInvalidLocale       Kind = "invalid_locale"
	KindGravityViolation    Kind = "gravity_violation"
	KindCollisionMissed     Kind = "collision_missed"
	KindKeepAliveMismatch   Kind = "keep_alive_mismatch"
	KindTimeout             Kind = "timeout"
	KindTooManyPackets      Kind = "too_many_packets"
	KindCancelled           Kind = "cancelled"
)

// Error is the codec/session error type, carrying a Kind so callers can
// branch with errors.Is/As without string matching, and a Fatal flag so
// Handshake/Login failures can be distinguished from recoverable Play-phase
// drops (spec.md §7).
type Error struct {
	Kind    Kind
	Fatal   bool
	Message string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Wrapped }

// Is lets errors.Is(err, &Error{Kind: KindX}) match by Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newErr(kind Kind, fatal bool, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Fatal: fatal, Message: fmt.Sprintf(format, args...)}
}

// NewError is the exported constructor other packages (session, admission)
// use to raise a codec-taxonomy error without depending on unexported
// helpers.
func NewError(kind Kind, fatal bool, format string, args ...interface{}) *Error {
	return newErr(kind, fatal, format, args...)
}

func wrapErr(kind Kind, fatal bool, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Fatal: fatal, Message: fmt.Sprintf(format, args...), Wrapped: err}
}

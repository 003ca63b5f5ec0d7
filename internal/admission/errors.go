package admission

// Decision is the outcome of Gate.Evaluate (spec.md §4.4). Exactly one of
// these is returned per handshake. The const block lists the admitting
// outcomes first; it is not the pipeline's first-match-wins evaluation
// order, which Gate.Evaluate defines.
type Decision int

const (
	DecisionAdmitVerifying Decision = iota // construct a Session
	DecisionAdmitVerified                  // bypass straight to backend
	DecisionQueued
	DecisionLockdown
	DecisionInvalidProtocol
	DecisionTooManyOnline
	DecisionTooFastReconnect
	DecisionBlacklisted
	DecisionAlreadyVerifying
	DecisionTooManyPlayers
	DecisionAlreadyQueued
)

func (d Decision) String() string {
	switch d {
	case DecisionAdmitVerifying:
		return "ADMIT_VERIFYING"
	case DecisionAdmitVerified:
		return "ADMIT_VERIFIED"
	case DecisionQueued:
		return "QUEUED"
	case DecisionLockdown:
		return "LOCKDOWN"
	case DecisionInvalidProtocol:
		return "INVALID_PROTOCOL"
	case DecisionTooManyOnline:
		return "TOO_MANY_ONLINE"
	case DecisionTooFastReconnect:
		return "TOO_FAST_RECONNECT"
	case DecisionBlacklisted:
		return "BLACKLISTED"
	case DecisionAlreadyVerifying:
		return "ALREADY_VERIFYING"
	case DecisionTooManyPlayers:
		return "TOO_MANY_PLAYERS"
	case DecisionAlreadyQueued:
		return "ALREADY_QUEUED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether d rejects the connection outright (no Session,
// no queueing).
func (d Decision) Terminal() bool {
	switch d {
	case DecisionAdmitVerifying, DecisionAdmitVerified, DecisionQueued:
		return false
	default:
		return true
	}
}

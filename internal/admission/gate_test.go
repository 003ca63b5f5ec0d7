package admission

import (
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ocx/limbo-gate/internal/observability"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.ReconnectDelay = 50 * time.Millisecond
	cfg.MaxVerifyingPlayers = 2
	cfg.FailureWindow = time.Minute
	return cfg
}

func newTestGate(cfg Config) *Gate {
	return New(cfg, observability.NopSink{}, NewMemoryPersister())
}

func TestGateAdmitsFreshConnection(t *testing.T) {
	g := newTestGate(testConfig())
	ip := net.ParseIP("10.0.0.1")
	d := g.Evaluate(ip, true, uuid.New(), 0, func() {})
	require.Equal(t, DecisionAdmitVerifying, d)
}

func TestGateRejectsUnsupportedProtocol(t *testing.T) {
	g := newTestGate(testConfig())
	ip := net.ParseIP("10.0.0.2")
	d := g.Evaluate(ip, false, uuid.New(), 0, func() {})
	require.Equal(t, DecisionInvalidProtocol, d)
}

func TestGateLockdownRejectsEveryone(t *testing.T) {
	g := newTestGate(testConfig())
	g.SetLockdown(true)
	ip := net.ParseIP("10.0.0.3")
	d := g.Evaluate(ip, true, uuid.New(), 0, func() {})
	require.Equal(t, DecisionLockdown, d)
}

func TestGateAlreadyVerifyingRejectsSecondHandshakeFromSameIP(t *testing.T) {
	g := newTestGate(testConfig())
	ip := net.ParseIP("10.0.0.4")
	first := g.Evaluate(ip, true, uuid.New(), 0, func() {})
	require.Equal(t, DecisionAdmitVerifying, first)

	second := g.Evaluate(ip, true, uuid.New(), 1, func() {})
	require.Equal(t, DecisionAlreadyVerifying, second)
}

func TestGateFastReconnectRejected(t *testing.T) {
	g := newTestGate(testConfig())
	ip := net.ParseIP("10.0.0.5")

	d := g.Evaluate(ip, true, uuid.New(), 0, func() {})
	require.Equal(t, DecisionAdmitVerifying, d)
	g.ReleaseVerifying(ip)

	// Reconnecting immediately, inside the reconnect delay, must be rejected.
	d = g.Evaluate(ip, true, uuid.New(), 0, func() {})
	require.Equal(t, DecisionTooFastReconnect, d)
}

func TestGateReconnectAllowedAfterDelay(t *testing.T) {
	cfg := testConfig()
	cfg.ReconnectDelay = 10 * time.Millisecond
	g := newTestGate(cfg)
	ip := net.ParseIP("10.0.0.6")

	d := g.Evaluate(ip, true, uuid.New(), 0, func() {})
	require.Equal(t, DecisionAdmitVerifying, d)
	g.ReleaseVerifying(ip)

	time.Sleep(20 * time.Millisecond)
	d = g.Evaluate(ip, true, uuid.New(), 0, func() {})
	require.Equal(t, DecisionAdmitVerifying, d)
}

func TestGateBlacklistAfterConsecutiveFailures(t *testing.T) {
	g := newTestGate(testConfig())
	ip := net.ParseIP("10.0.0.7")

	for i := 0; i < DefaultConfig().BlacklistThreshold; i++ {
		g.RecordFailure(ip)
	}
	require.True(t, g.Blacklist.Contains(ip))

	d := g.Evaluate(ip, true, uuid.New(), 0, func() {})
	require.Equal(t, DecisionBlacklisted, d)
}

func TestGateVerifiedCacheBypass(t *testing.T) {
	g := newTestGate(testConfig())
	ip := net.ParseIP("10.0.0.8")
	id := uuid.New()
	g.Verified.Insert(ip.String(), id, "steve")

	d := g.Evaluate(ip, true, id, 0, func() {})
	require.Equal(t, DecisionAdmitVerified, d)
}

func TestGateCapacityQueuesOverflow(t *testing.T) {
	cfg := testConfig()
	cfg.MaxVerifyingPlayers = 1
	g := newTestGate(cfg)

	ip1 := net.ParseIP("10.0.1.1")
	d := g.Evaluate(ip1, true, uuid.New(), 0, func() {})
	require.Equal(t, DecisionAdmitVerifying, d)

	ip2 := net.ParseIP("10.0.1.2")
	admitted := false
	d = g.Evaluate(ip2, true, uuid.New(), 1, func() { admitted = true })
	require.Equal(t, DecisionQueued, d)
	require.False(t, admitted)
	require.Equal(t, 1, g.Queue.Len())
}

// TestGateQueuedConnectionPromotedWithoutFalseReconnectRejection guards
// against the enqueue path stamping lastJoin: the queue's own drain ticker
// re-invokes Evaluate moments later to promote the entry, and that
// re-evaluation must not trip the reconnect-delay check against a
// "join" that never actually happened.
func TestGateQueuedConnectionPromotedWithoutFalseReconnectRejection(t *testing.T) {
	cfg := testConfig()
	cfg.MaxVerifyingPlayers = 1
	cfg.ReconnectDelay = time.Hour
	g := newTestGate(cfg)

	ip1 := net.ParseIP("10.0.4.1")
	d := g.Evaluate(ip1, true, uuid.New(), 0, func() {})
	require.Equal(t, DecisionAdmitVerifying, d)

	ip2 := net.ParseIP("10.0.4.2")
	id2 := uuid.New()
	var promoted Decision
	enqueue := func() {
		promoted = g.Evaluate(ip2, true, id2, 0, func() {})
	}
	d = g.Evaluate(ip2, true, id2, 1, enqueue)
	require.Equal(t, DecisionQueued, d)

	g.ReleaseVerifying(ip1)
	g.Queue.Drain(10)

	require.Equal(t, DecisionAdmitVerifying, promoted)
}

func TestGateMaxOnlinePerIP(t *testing.T) {
	cfg := testConfig()
	cfg.MaxOnlinePerIP = 1
	cfg.MaxVerifyingPlayers = 10
	g := newTestGate(cfg)
	ip := net.ParseIP("10.0.2.1")

	d := g.Evaluate(ip, true, uuid.New(), 0, func() {})
	require.Equal(t, DecisionAdmitVerifying, d)

	// Same IP tries again concurrently without releasing the first slot.
	d = g.Evaluate(ip, true, uuid.New(), 0, func() {})
	require.True(t, d == DecisionTooManyOnline || d == DecisionAlreadyVerifying)
}

func TestGateRecordSuccessResetsFailureCounter(t *testing.T) {
	g := newTestGate(testConfig())
	ip := net.ParseIP("10.0.3.1")

	g.RecordFailure(ip)
	g.RecordFailure(ip)
	g.RecordSuccess(ip)

	for i := 0; i < DefaultConfig().BlacklistThreshold-1; i++ {
		g.RecordFailure(ip)
	}
	require.False(t, g.Blacklist.Contains(ip), "counter should have reset after RecordSuccess")
}

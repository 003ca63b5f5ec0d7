package admission

import (
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ocx/limbo-gate/internal/observability"
)

// admissionRecord is the per-IP bookkeeping the gate consults (spec.md
// §3's "Admission Record"): last-join timestamp for the reconnect-window
// check and a consecutive-failure counter for blacklist promotion.
type admissionRecord struct {
	lastJoin            time.Time
	consecutiveFailures int
	firstFailure        time.Time
}

// Gate runs the nine-step admission pipeline (spec.md §4.4). Its internal
// maps are guarded by a single mutex: the spec requires the per-IP
// "verifying" check to be linearizable with Session construction so
// "exactly one active Session per IP" holds even under concurrent
// handshakes from the same address (spec.md §5).
type Gate struct {
	cfg  Config
	sink observability.Sink

	mu          sync.Mutex
	records     map[string]*admissionRecord
	onlineCount map[string]int
	verifying   map[string]struct{}

	Verified  *VerifiedStore
	Blacklist *Blacklist
	Queue     *Queue
	Attack    *AttackDetector

	lockdown bool
}

// New constructs a Gate with fresh Verified/Blacklist/Queue/Attack state.
func New(cfg Config, sink observability.Sink, persister Persister) *Gate {
	return &Gate{
		cfg:         cfg,
		sink:        sink,
		records:     make(map[string]*admissionRecord),
		onlineCount: make(map[string]int),
		verifying:   make(map[string]struct{}),
		Verified:    NewVerifiedStore(cfg.VerifiedStoreMaxSize, cfg.VerifiedTTL, persister),
		Blacklist:   NewBlacklist(cfg.BlacklistTTL),
		Queue:       NewQueue(cfg.MaxVerifyingPlayers * 4),
		Attack:      NewAttackDetector(cfg.MinPlayersForAttack, sink),
		lockdown:    cfg.LockdownEnabled,
	}
}

// SetLockdown toggles the global gate at runtime (an admin-API action).
func (g *Gate) SetLockdown(enabled bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lockdown = enabled
}

// Evaluate runs the ordered checks in spec.md §4.4 against one inbound
// connection whose Handshake and LoginStart have already been decoded
// (the verified-cache check needs the UUID, which only LoginStart
// carries). activeSessions reports the gateway's current concurrent
// Session count for the capacity check.
func (g *Gate) Evaluate(ip net.IP, protocolSupported bool, id uuid.UUID, activeSessions int, enqueue func()) Decision {
	key := ip.String()

	if g.lockdownActive() {
		return DecisionLockdown
	}
	if !protocolSupported {
		return DecisionInvalidProtocol
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cfg.MaxOnlinePerIP > 0 && g.onlineCount[key] >= g.cfg.MaxOnlinePerIP {
		return DecisionTooManyOnline
	}
	if g.Verified.Contains(key, id) {
		return DecisionAdmitVerified
	}
	if rec, ok := g.records[key]; ok {
		if time.Since(rec.lastJoin) < g.cfg.ReconnectDelay {
			return DecisionTooFastReconnect
		}
	}
	if g.Blacklist.Contains(ip) {
		return DecisionBlacklisted
	}
	if _, busy := g.verifying[key]; busy {
		return DecisionAlreadyVerifying
	}

	if activeSessions >= g.cfg.MaxVerifyingPlayers {
		if enqueue == nil {
			return DecisionTooManyPlayers
		}
		if ok := g.Queue.Enqueue(key, enqueue); !ok {
			return DecisionTooManyPlayers
		}
		return DecisionQueued
	}

	// lastJoin is only recorded on an actual admission. The queue ticker
	// re-runs this whole method (including the reconnect check above) to
	// promote a drained entry; touching it on the enqueue branch would make
	// that re-evaluation, a few hundred milliseconds later, look like a
	// fast reconnect and reject the very promotion it's trying to perform.
	g.touchRecordLocked(key)
	g.verifying[key] = struct{}{}
	g.onlineCount[key]++
	g.Attack.RecordAdmission()
	g.sink.OnAdmit(ip)
	return DecisionAdmitVerifying
}

func (g *Gate) lockdownActive() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lockdown
}

func (g *Gate) touchRecordLocked(key string) {
	rec, ok := g.records[key]
	if !ok {
		rec = &admissionRecord{}
		g.records[key] = rec
	}
	rec.lastJoin = time.Now()
}

// ReleaseVerifying clears the per-IP verifying marker and online count on
// session termination, matching the cancellation contract in spec.md §5
// ("the session synchronously releases its admission slot and per-IP
// verifying marker before the socket close completes").
func (g *Gate) ReleaseVerifying(ip net.IP) {
	key := ip.String()
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.verifying, key)
	if g.onlineCount[key] > 0 {
		g.onlineCount[key]--
	}
	if g.onlineCount[key] == 0 {
		delete(g.onlineCount, key)
	}
}

// RecordFailure bumps the per-IP consecutive-failure counter and promotes
// to the Blacklist once it crosses the configured threshold, which is
// lower while the gate is in attack mode (spec.md §4.4, §9).
func (g *Gate) RecordFailure(ip net.IP) {
	key := ip.String()
	g.mu.Lock()
	rec, ok := g.records[key]
	if !ok {
		rec = &admissionRecord{}
		g.records[key] = rec
	}
	if rec.consecutiveFailures == 0 || time.Since(rec.firstFailure) > g.cfg.FailureWindow {
		rec.firstFailure = time.Now()
		rec.consecutiveFailures = 0
	}
	rec.consecutiveFailures++

	threshold := g.cfg.BlacklistThreshold
	if g.Attack.InAttackMode() {
		threshold = g.cfg.BlacklistThresholdAttack
	}
	shouldBlacklist := rec.consecutiveFailures >= threshold
	g.mu.Unlock()

	if shouldBlacklist {
		g.Blacklist.Add(ip)
		g.sink.OnBlacklist(ip)
	}
}

// RecordSuccess clears the IP's failure counter; a clean verification
// resets the slate for future attempts.
func (g *Gate) RecordSuccess(ip net.IP) {
	key := ip.String()
	g.mu.Lock()
	defer g.mu.Unlock()
	if rec, ok := g.records[key]; ok {
		rec.consecutiveFailures = 0
	}
}

// RunQueueTicker drains the queue every 500ms until stop is closed
// (spec.md §4.4). It is meant to run in its own goroutine for the
// lifetime of the gateway.
func (g *Gate) RunQueueTicker(stop <-chan struct{}) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			g.Queue.Drain(g.cfg.MaxQueuePolls)
		}
	}
}

package admission

import (
	"net"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/crypto/blake2b"
)

// bloomBits is the per-generation filter width. At BlacklistThreshold-scale
// traffic this keeps the false-positive rate low without tracking exact
// membership, which the spec explicitly allows (§3, §4.6: "false positives
// on the blacklist are a cost of defense, not a correctness violation").
const bloomBits = 1 << 20 // 128KiB per generation

// Blacklist is a two-generation, dual-hashed Bloom filter: inserts always
// land in the current generation, membership checks consult both, and Add
// rotates the generations once at least TTL/2 has passed since the last
// rotation. Rotation happens only inside Add, so an entry stays visible
// for at least TTL/2; how long beyond that depends on when later Adds
// arrive, and without further Adds it does not age out. This trades exact
// expiry for O(1) memory instead of a per-IP timer.
type Blacklist struct {
	mu         sync.RWMutex
	ttl        time.Duration
	current    *bloomFilter
	previous   *bloomFilter
	lastRotate time.Time
}

func NewBlacklist(ttl time.Duration) *Blacklist {
	return &Blacklist{
		ttl:        ttl,
		current:    newBloomFilter(),
		previous:   newBloomFilter(),
		lastRotate: time.Now(),
	}
}

// Add inserts ip into the current generation.
func (b *Blacklist) Add(ip net.IP) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rotateIfDueLocked()
	b.current.add(ip.String())
}

// Contains reports probable membership. False positives are possible by
// design; false negatives for an entry added within the last TTL/2 are not.
func (b *Blacklist) Contains(ip net.IP) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	key := ip.String()
	return b.current.mightContain(key) || b.previous.mightContain(key)
}

// EstimatedSize reports an approximate cardinality for observability
// (spec.md §4.6).
func (b *Blacklist) EstimatedSize() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current.estimatedCount() + b.previous.estimatedCount()
}

func (b *Blacklist) rotateIfDueLocked() {
	if time.Since(b.lastRotate) < b.ttl/2 {
		return
	}
	b.previous = b.current
	b.current = newBloomFilter()
	b.lastRotate = time.Now()
}

// bloomFilter is a fixed-width bit array addressed by two independent
// hashes (blake2b and xxhash), the classic two-hash Bloom construction
// using double hashing to synthesize k probe positions from a pair of
// hash values.
type bloomFilter struct {
	bits    []uint64
	entries int
}

func newBloomFilter() *bloomFilter {
	return &bloomFilter{bits: make([]uint64, bloomBits/64)}
}

const bloomK = 4

func (f *bloomFilter) add(key string) {
	h1, h2 := f.hashes(key)
	for i := uint64(0); i < bloomK; i++ {
		pos := (h1 + i*h2) % bloomBits
		f.bits[pos/64] |= 1 << (pos % 64)
	}
	f.entries++
}

func (f *bloomFilter) mightContain(key string) bool {
	h1, h2 := f.hashes(key)
	for i := uint64(0); i < bloomK; i++ {
		pos := (h1 + i*h2) % bloomBits
		if f.bits[pos/64]&(1<<(pos%64)) == 0 {
			return false
		}
	}
	return true
}

func (f *bloomFilter) estimatedCount() int { return f.entries }

func (f *bloomFilter) hashes(key string) (uint64, uint64) {
	sum := blake2b.Sum256([]byte(key))
	h1 := xxhash.Sum64(sum[:16])
	h2 := xxhash.Sum64(sum[16:])
	if h2 == 0 {
		h2 = 1
	}
	return h1, h2
}

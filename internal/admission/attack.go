package admission

import (
	"sync"
	"time"

	"github.com/ocx/limbo-gate/internal/observability"
)

// AttackDetector watches the rate of new admissions and flips into
// "attack mode" when it exceeds minPlayersForAttack in the trailing
// one-second window (spec.md §4.4). It keeps two per-second buckets rather
// than every timestamp, estimating that window as the current second's
// count plus the previous second's count weighted by the share of it still
// inside the window.
type AttackDetector struct {
	mu        sync.Mutex
	threshold int
	sink      observability.Sink

	buckets    [2]int // [current second, previous second]
	bucketSec  int64
	inAttack   bool
}

func NewAttackDetector(threshold int, sink observability.Sink) *AttackDetector {
	return &AttackDetector{threshold: threshold, sink: sink, bucketSec: currentSecond()}
}

func currentSecond() int64 { return time.Now().Unix() }

// RecordAdmission registers one new admission and re-evaluates attack
// mode.
func (d *AttackDetector) RecordAdmission() {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	sec := now.Unix()
	switch sec - d.bucketSec {
	case 0:
		// same second
	case 1:
		d.buckets[1] = d.buckets[0]
		d.buckets[0] = 0
		d.bucketSec = sec
	default:
		d.buckets[0], d.buckets[1] = 0, 0
		d.bucketSec = sec
	}
	d.buckets[0]++

	remaining := 1 - float64(now.Nanosecond())/float64(time.Second)
	rate := float64(d.buckets[0]) + float64(d.buckets[1])*remaining
	threshold := float64(d.threshold)
	switch {
	case !d.inAttack && rate > threshold:
		d.inAttack = true
		d.sink.OnAttackStart()
	case d.inAttack && rate <= threshold:
		d.inAttack = false
		d.sink.OnAttackEnd()
	}
}

// InAttackMode reports the current attack-mode state.
func (d *AttackDetector) InAttackMode() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inAttack
}

package admission

import (
	"container/list"
	"sync"
	"time"
)

// QueueEntry is one deferred admission, replayed by Queue.Drain once
// capacity frees up.
type QueueEntry struct {
	IP      string
	Admit   func()
	Queued  time.Time
}

// Queue is the bounded, per-IP-deduplicated FIFO of deferred admissions
// (spec.md §4.4, §9): at most one entry per IP, insertion order preserved,
// a duplicate submission replaces the pending entry rather than queuing
// twice. Draining happens on the caller's own 500ms ticker via Drain, kept
// outside the lock so producers never block on admission work (spec.md
// §5).
type Queue struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	byIP     map[string]*list.Element
}

func NewQueue(capacity int) *Queue {
	return &Queue{capacity: capacity, order: list.New(), byIP: make(map[string]*list.Element)}
}

// Enqueue adds or replaces ip's pending admission. ok is false if the
// queue is full and ip wasn't already present.
func (q *Queue) Enqueue(ip string, admit func()) (ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if el, exists := q.byIP[ip]; exists {
		el.Value.(*QueueEntry).Admit = admit
		el.Value.(*QueueEntry).Queued = time.Now()
		return true
	}
	if q.order.Len() >= q.capacity {
		return false
	}
	el := q.order.PushBack(&QueueEntry{IP: ip, Admit: admit, Queued: time.Now()})
	q.byIP[ip] = el
	return true
}

// Remove drops ip's pending entry, e.g. because it connected directly
// through another path before its turn came up.
func (q *Queue) Remove(ip string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if el, ok := q.byIP[ip]; ok {
		q.order.Remove(el)
		delete(q.byIP, ip)
	}
}

// Len reports the current queue depth.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.order.Len()
}

// Drain promotes up to maxPolls entries in FIFO order, invoking each
// entry's Admit callback outside the lock.
func (q *Queue) Drain(maxPolls int) {
	promoted := make([]*QueueEntry, 0, maxPolls)

	q.mu.Lock()
	for i := 0; i < maxPolls; i++ {
		front := q.order.Front()
		if front == nil {
			break
		}
		entry := front.Value.(*QueueEntry)
		q.order.Remove(front)
		delete(q.byIP, entry.IP)
		promoted = append(promoted, entry)
	}
	q.mu.Unlock()

	for _, entry := range promoted {
		entry.Admit()
	}
}

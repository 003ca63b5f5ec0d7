package admission

import "sync"

// MemoryPersister is the default in-memory Persister: it survives process
// restarts not at all, but satisfies the Persister interface for gateways
// run without Postgres/Redis configured.
type MemoryPersister struct {
	mu      sync.Mutex
	entries map[string]VerifiedEntry
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{entries: make(map[string]VerifiedEntry)}
}

func (m *MemoryPersister) Load() ([]VerifiedEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]VerifiedEntry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	return out, nil
}

func (m *MemoryPersister) Put(e VerifiedEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.IP+"|"+e.UUID.String()] = e
	return nil
}

func (m *MemoryPersister) Remove(ip string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.entries {
		if len(k) >= len(ip) && k[:len(ip)] == ip {
			delete(m.entries, k)
		}
	}
	return nil
}

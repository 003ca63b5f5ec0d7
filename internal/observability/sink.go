// Package observability defines the event-sink collaborator interface
// (spec.md §6) and two implementations: a Prometheus metrics sink and a
// websocket admin event feed. Both are pluggable; the core only depends
// on the Sink interface.
package observability

import (
	"net"

	"github.com/google/uuid"
)

// Sink receives verification lifecycle events. Implementations must not
// block the caller for longer than a metric increment or a
// non-blocking channel send; anything slower belongs behind its own
// goroutine.
type Sink interface {
	OnAdmit(ip net.IP)
	OnSuccess(ip net.IP, id uuid.UUID, username string)
	OnFail(ip net.IP, reason string)
	OnBlacklist(ip net.IP)
	OnAttackStart()
	OnAttackEnd()
}

// MultiSink fans one event out to several sinks, letting the gateway wire
// metrics and the admin feed simultaneously.
type MultiSink struct {
	Sinks []Sink
}

func (m MultiSink) OnAdmit(ip net.IP) {
	for _, s := range m.Sinks {
		s.OnAdmit(ip)
	}
}

func (m MultiSink) OnSuccess(ip net.IP, id uuid.UUID, username string) {
	for _, s := range m.Sinks {
		s.OnSuccess(ip, id, username)
	}
}

func (m MultiSink) OnFail(ip net.IP, reason string) {
	for _, s := range m.Sinks {
		s.OnFail(ip, reason)
	}
}

func (m MultiSink) OnBlacklist(ip net.IP) {
	for _, s := range m.Sinks {
		s.OnBlacklist(ip)
	}
}

func (m MultiSink) OnAttackStart() {
	for _, s := range m.Sinks {
		s.OnAttackStart()
	}
}

func (m MultiSink) OnAttackEnd() {
	for _, s := range m.Sinks {
		s.OnAttackEnd()
	}
}

// NopSink discards every event; useful in tests and as a config default.
type NopSink struct{}

func (NopSink) OnAdmit(net.IP)                       {}
func (NopSink) OnSuccess(net.IP, uuid.UUID, string)  {}
func (NopSink) OnFail(net.IP, string)                {}
func (NopSink) OnBlacklist(net.IP)                   {}
func (NopSink) OnAttackStart()                       {}
func (NopSink) OnAttackEnd()                         {}

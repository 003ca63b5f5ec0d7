package observability

import (
	"net"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusSink implements Sink by incrementing counters, matching the
// teacher's metrics-registration style (one Collector set registered once
// at construction, methods just touch the pre-registered handles).
type PrometheusSink struct {
	admitted   prometheus.Counter
	succeeded  prometheus.Counter
	failed     *prometheus.CounterVec
	blacklisted prometheus.Counter
	attackMode prometheus.Gauge
}

// NewPrometheusSink registers its metrics against reg and returns a Sink.
func NewPrometheusSink(reg prometheus.Registerer) *PrometheusSink {
	s := &PrometheusSink{
		admitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "limbo_gate_admitted_total",
			Help: "Total connections admitted into a verification session.",
		}),
		succeeded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "limbo_gate_verified_total",
			Help: "Total connections that passed verification.",
		}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "limbo_gate_failed_total",
			Help: "Total connections that failed verification, by reason.",
		}, []string{"reason"}),
		blacklisted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "limbo_gate_blacklisted_total",
			Help: "Total IPs promoted to the blacklist.",
		}),
		attackMode: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "limbo_gate_attack_mode",
			Help: "1 while the gateway considers itself under attack, else 0.",
		}),
	}
	reg.MustRegister(s.admitted, s.succeeded, s.failed, s.blacklisted, s.attackMode)
	return s
}

func (s *PrometheusSink) OnAdmit(net.IP) { s.admitted.Inc() }

func (s *PrometheusSink) OnSuccess(net.IP, uuid.UUID, string) { s.succeeded.Inc() }

func (s *PrometheusSink) OnFail(_ net.IP, reason string) { s.failed.WithLabelValues(reason).Inc() }

func (s *PrometheusSink) OnBlacklist(net.IP) { s.blacklisted.Inc() }

func (s *PrometheusSink) OnAttackStart() { s.attackMode.Set(1) }

func (s *PrometheusSink) OnAttackEnd() { s.attackMode.Set(0) }

// Package telemetry exposes match counters and gauges in the Prometheus format.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"monument.ai/internal/protocol"
	"monument.ai/internal/sim/match"
)

type StatsSource interface {
	Stats() match.Stats
}

// Recorder is an event and audit sink that turns the match stream into metrics. It is fed
// from the match goroutine and scraped from HTTP handlers; the prometheus types synchronize.
type Recorder struct {
	reg       *prometheus.Registry
	namespace string
	labels    prometheus.Labels

	events      *prometheus.CounterVec
	completions *prometheus.CounterVec
	decisions   *prometheus.CounterVec
	refillUnits prometheus.Counter
	craftDenied prometheus.Counter
}

func New(namespace, worldID string, src StatsSource) *Recorder {
	if namespace == "" {
		namespace = "monument"
	}
	labels := prometheus.Labels{"world": worldID}
	r := &Recorder{
		reg:       prometheus.NewRegistry(),
		namespace: namespace,
		labels:    labels,
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "events_total",
			Help:        "Match events emitted, by kind.",
			ConstLabels: labels,
		}, []string{"event"}),
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "goal_completions_total",
			Help:        "Goals completed, by goal and owner team.",
			ConstLabels: labels,
		}, []string{"goal", "team"}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "block_decisions_total",
			Help:        "Block changes inside monuments, by decision.",
			ConstLabels: labels,
		}, []string{"action", "decision"}),
		refillUnits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "refill_units_total",
			Help:        "Wool units written back into objective containers.",
			ConstLabels: labels,
		}),
		craftDenied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "craft_denied_total",
			Help:        "Crafts cleared because the goal color may not be crafted.",
			ConstLabels: labels,
		}),
	}
	r.reg.MustRegister(r.events, r.completions, r.decisions, r.refillUnits, r.craftDenied)
	r.reg.MustRegister(collectors.NewGoCollector())

	if src != nil {
		gauge := func(name, help string, v func(match.Stats) float64) prometheus.GaugeFunc {
			return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace:   namespace,
				Name:        name,
				Help:        help,
				ConstLabels: labels,
			}, func() float64 { return v(src.Stats()) })
		}
		r.reg.MustRegister(
			gauge("match_tick", "Current match tick.", func(s match.Stats) float64 { return float64(s.Tick) }),
			gauge("match_running", "1 while the match is running.", func(s match.Stats) float64 {
				if s.State == match.StateRunning {
					return 1
				}
				return 0
			}),
			gauge("match_players", "Connected participants.", func(s match.Stats) float64 { return float64(s.Players) }),
			gauge("goals_placed", "Goals placed so far.", func(s match.Stats) float64 { return float64(s.GoalsPlaced) }),
			gauge("goals_total", "Goals in the match.", func(s match.Stats) float64 { return float64(s.GoalsTotal) }),
			gauge("containers_classified", "Containers observed by the wool module.", func(s match.Stats) float64 { return float64(s.ClassifiedContainers) }),
			gauge("containers_objective", "Containers holding objective wool when first observed.", func(s match.Stats) float64 { return float64(s.ObjectiveContainers) }),
		)
	}
	return r
}

// AddGauge registers an extra gauge read at scrape time, e.g. index queue depth. The name is
// prefixed with the recorder namespace and carries the world label.
func (r *Recorder) AddGauge(name, help string, fn func() float64) error {
	return r.reg.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   r.namespace,
		Name:        name,
		Help:        help,
		ConstLabels: r.labels,
	}, fn))
}

func (r *Recorder) WriteEvent(ev protocol.EventMsg) error {
	r.events.WithLabelValues(ev.Event).Inc()
	if ev.Event == protocol.EventGoalComplete {
		r.completions.WithLabelValues(ev.GoalID, ev.Owner).Inc()
	}
	return nil
}

func (r *Recorder) WriteAudit(e match.AuditEntry) error {
	switch e.Action {
	case match.AuditRefill:
		r.refillUnits.Add(float64(e.Count))
	case match.AuditCraft:
		r.craftDenied.Inc()
	default:
		r.decisions.WithLabelValues(e.Action, e.Decision).Inc()
	}
	return nil
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

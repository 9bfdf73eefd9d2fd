// Package metrics exports engine activity as Prometheus metrics
package metrics

import (
	"time"

	"github.com/ShiJbey/neighborly/internal/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ListenerID is the bus subscription id of the recorder
const ListenerID = "metrics"

// Recorder counts engine events and times simulation steps
type Recorder struct {
	events       *prometheus.CounterVec
	traits       *prometheus.GaugeVec
	steps        prometheus.Counter
	stepDuration prometheus.Histogram
	population   prometheus.Gauge
}

// New registers the engine metrics with reg. Use prometheus.DefaultRegisterer
// to expose them on the default handler.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "neighborly_events_total",
			Help: "Engine events by type",
		}, []string{"type"}),
		traits: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "neighborly_trait_holders",
			Help: "Entities currently holding each trait",
		}, []string{"trait"}),
		steps: factory.NewCounter(prometheus.CounterOpts{
			Name: "neighborly_steps_total",
			Help: "Simulation steps run",
		}),
		stepDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "neighborly_step_duration_seconds",
			Help:    "Simulation step duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
		population: factory.NewGauge(prometheus.GaugeOpts{
			Name: "neighborly_population",
			Help: "Characters currently in the settlement",
		}),
	}
}

// Attach subscribes the recorder to every event type on bus
func (r *Recorder) Attach(bus *events.Bus) {
	bus.SubscribeAll(r)
}

func (r *Recorder) ID() string    { return ListenerID }
func (r *Recorder) Priority() int { return events.PriorityMetrics }

// HandleEvent counts the event. It never cancels or fails.
func (r *Recorder) HandleEvent(e events.Event) error {
	r.events.WithLabelValues(string(e.GetType())).Inc()

	switch ev := e.(type) {
	case *events.TraitEvent:
		switch ev.GetType() {
		case events.EventTypeTraitAttached:
			r.traits.WithLabelValues(ev.TraitID).Inc()
		case events.EventTypeTraitDetached, events.EventTypeTraitExpired:
			r.traits.WithLabelValues(ev.TraitID).Dec()
		}
	case *events.CharacterEvent:
		switch ev.GetType() {
		case events.EventTypeCharacterSpawned:
			r.population.Inc()
		case events.EventTypeCharacterDeparted:
			r.population.Dec()
		}
	}
	return nil
}

// ObserveStep records one finished simulation step
func (r *Recorder) ObserveStep(d time.Duration) {
	r.steps.Inc()
	r.stepDuration.Observe(d.Seconds())
}

// EventCounter returns the counter for one event type
func (r *Recorder) EventCounter(t events.EventType) prometheus.Counter {
	return r.events.WithLabelValues(string(t))
}

// TraitHolders returns the holder gauge for one trait
func (r *Recorder) TraitHolders(traitID string) prometheus.Gauge {
	return r.traits.WithLabelValues(traitID)
}

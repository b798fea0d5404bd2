// Package metrics exposes onboarding funnel metrics to Prometheus.
package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lusoconnect/onboarding/internal/wizard"
)

const namespace = "onboarding"

// Metrics records wizard and registration activity. It implements
// wizard.Observer and members.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	stepTransitions    *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	submissions        *prometheus.CounterVec
	membersRegistered  *prometheus.CounterVec
}

var _ wizard.Observer = (*Metrics)(nil)

// New builds a Metrics instance on its own registry, with Go runtime and
// process collectors attached.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		stepTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wizard_step_transitions_total",
			Help:      "Wizard step changes by origin and destination step.",
		}, []string{"from", "to"}),
		validationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wizard_validation_failures_total",
			Help:      "Blocked navigation attempts by step and failing field.",
		}, []string{"step", "field"}),
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wizard_submissions_total",
			Help:      "Finished submissions by outcome.",
		}, []string{"outcome"}),
		membersRegistered: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "members_registered_total",
			Help:      "Members created by plan.",
		}, []string{"plan"}),
	}
}

// TrackRegistry exports the registry's open and active wizard counts.
func (m *Metrics) TrackRegistry(r *wizard.Registry) {
	factory := promauto.With(m.registry)
	factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "wizards_opened_total",
		Help:      "Wizards opened since start.",
	}, func() float64 { return float64(r.Opened()) })
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "wizards_active",
		Help:      "Wizards currently held in memory.",
	}, func() float64 { return float64(r.Len()) })
}

func (m *Metrics) StepChanged(from, to wizard.Step) {
	m.stepTransitions.WithLabelValues(from.String(), to.String()).Inc()
}

func (m *Metrics) ValidationFailed(step wizard.Step, fields wizard.FieldErrors) {
	for field := range fields {
		m.validationFailures.WithLabelValues(step.String(), string(field)).Inc()
	}
}

func (m *Metrics) SubmissionFinished(err error) {
	m.submissions.WithLabelValues(wizard.Outcome(err)).Inc()
}

// MemberRegistered counts a created member.
func (m *Metrics) MemberRegistered(plan string) {
	m.membersRegistered.WithLabelValues(plan).Inc()
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry}))
}

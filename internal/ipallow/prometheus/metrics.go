package prometheus

import (
	"errors"
	"fmt"

	"github.com/abczzz13/referral-balance-api/internal/ipallow"
	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics is a Prometheus-backed implementation of ipallow.Metrics.
type PrometheusMetrics struct {
	decisions    *prom.CounterVec
	invalidRules prom.Counter
}

// WithMetrics returns an ipallow option that installs Prometheus-backed
// metrics using prom.DefaultRegisterer.
func WithMetrics() ipallow.Option {
	return ipallow.WithMetricsFactory(func() (ipallow.Metrics, error) {
		return New()
	})
}

// WithRegisterer returns an ipallow option that installs Prometheus-backed
// metrics using the provided registerer.
//
// If registerer is nil, prom.DefaultRegisterer is used.
func WithRegisterer(registerer prom.Registerer) ipallow.Option {
	return ipallow.WithMetricsFactory(func() (ipallow.Metrics, error) {
		return NewWithRegisterer(registerer)
	})
}

// New creates PrometheusMetrics and registers its collectors on
// prom.DefaultRegisterer.
func New() (*PrometheusMetrics, error) {
	return NewWithRegisterer(prom.DefaultRegisterer)
}

// NewWithRegisterer creates PrometheusMetrics and registers its collectors on
// the given registerer.
//
// If registerer is nil, prom.DefaultRegisterer is used. If the metrics are
// already registered, existing compatible collectors are reused.
func NewWithRegisterer(registerer prom.Registerer) (*PrometheusMetrics, error) {
	if registerer == nil {
		registerer = prom.DefaultRegisterer
	}

	decisionsCollector := prom.NewCounterVec(
		prom.CounterOpts{
			Name: "ip_allowlist_decisions_total",
			Help: "Access decisions made by the IP allowlist filter, labeled by outcome (allow, deny) and reason.",
		},
		[]string{"outcome", "reason"},
	)
	invalidRulesCollector := prom.NewCounter(
		prom.CounterOpts{
			Name: "ip_allowlist_invalid_rules_total",
			Help: "Configured allowlist rules excluded from the active match set because they could not be parsed.",
		},
	)

	decisions, err := registerCounterVec(registerer, decisionsCollector, "ip_allowlist_decisions_total")
	if err != nil {
		return nil, err
	}

	invalidRules, err := registerCounter(registerer, invalidRulesCollector, "ip_allowlist_invalid_rules_total")
	if err != nil {
		return nil, err
	}

	return &PrometheusMetrics{
		decisions:    decisions,
		invalidRules: invalidRules,
	}, nil
}

func registerCounterVec(registerer prom.Registerer, collector *prom.CounterVec, metricName string) (*prom.CounterVec, error) {
	if err := registerer.Register(collector); err != nil {
		var alreadyRegistered prom.AlreadyRegisteredError
		if errors.As(err, &alreadyRegistered) {
			existing, ok := alreadyRegistered.ExistingCollector.(*prom.CounterVec)
			if ok {
				return existing, nil
			}
			return nil, fmt.Errorf("metric %q already registered with incompatible collector type %T", metricName, alreadyRegistered.ExistingCollector)
		}

		return nil, fmt.Errorf("register metric %q: %w", metricName, err)
	}

	return collector, nil
}

func registerCounter(registerer prom.Registerer, collector prom.Counter, metricName string) (prom.Counter, error) {
	if err := registerer.Register(collector); err != nil {
		var alreadyRegistered prom.AlreadyRegisteredError
		if errors.As(err, &alreadyRegistered) {
			existing, ok := alreadyRegistered.ExistingCollector.(prom.Counter)
			if ok {
				return existing, nil
			}
			return nil, fmt.Errorf("metric %q already registered with incompatible collector type %T", metricName, alreadyRegistered.ExistingCollector)
		}

		return nil, fmt.Errorf("register metric %q: %w", metricName, err)
	}

	return collector, nil
}

// RecordDecision increments ip_allowlist_decisions_total for the provided
// outcome and reason labels.
func (m *PrometheusMetrics) RecordDecision(outcome, reason string) {
	m.decisions.WithLabelValues(outcome, reason).Inc()
}

// RecordInvalidRule increments ip_allowlist_invalid_rules_total.
func (m *PrometheusMetrics) RecordInvalidRule() {
	m.invalidRules.Inc()
}

package ipallow

import (
	"fmt"
	"reflect"
)

// Option configures a Filter.
//
// Construct options using package-provided option builder functions.
type Option func(*config) error

// config holds filter configuration state.
//
// It is mutated by Option functions during construction.
type config struct {
	rules   Rules
	logger  Logger
	metrics Metrics

	metricsFactory    func() (Metrics, error)
	useMetricsFactory bool
}

func defaultConfig() *config {
	return &config{
		logger:  noopLogger{},
		metrics: noopMetrics{},
	}
}

func configFromOptions(opts ...Option) (*config, error) {
	cfg := defaultConfig()

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.useMetricsFactory {
		if cfg.metricsFactory == nil {
			return nil, fmt.Errorf("metrics factory cannot be nil")
		}

		metrics, err := cfg.metricsFactory()
		if err != nil {
			return nil, err
		}
		cfg.metrics = metrics
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *config) validate() error {
	if isNilInterface(c.logger) {
		return fmt.Errorf("logger cannot be nil")
	}
	if isNilInterface(c.metrics) {
		return fmt.Errorf("metrics cannot be nil")
	}
	return nil
}

// WithRules sets the rule list enforced by the filter.
func WithRules(rules Rules) Option {
	return func(c *config) error {
		c.rules = rules
		return nil
	}
}

// WithLogger sets the logger implementation used for denied requests.
func WithLogger(logger Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithMetrics sets a concrete metrics implementation.
//
// If previously configured, a metrics factory is disabled.
func WithMetrics(metrics Metrics) Option {
	return func(c *config) error {
		c.metrics = metrics
		c.metricsFactory = nil
		c.useMetricsFactory = false
		return nil
	}
}

// WithMetricsFactory configures a lazy metrics constructor.
//
// The factory is invoked once, after all options have been applied.
func WithMetricsFactory(factory func() (Metrics, error)) Option {
	return func(c *config) error {
		if factory == nil {
			return fmt.Errorf("metrics factory cannot be nil")
		}

		c.metricsFactory = factory
		c.useMetricsFactory = true
		return nil
	}
}

func isNilInterface(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}

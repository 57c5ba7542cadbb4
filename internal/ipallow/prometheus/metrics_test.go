package prometheus

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/abczzz13/referral-balance-api/internal/ipallow"
)

func counterValue(registry *prom.Registry, metricName string, labels map[string]string) (float64, error) {
	families, err := registry.Gather()
	if err != nil {
		return 0, err
	}

	for _, family := range families {
		if family.GetName() != metricName {
			continue
		}

	metric:
		for _, metric := range family.GetMetric() {
			for name, value := range labels {
				found := false
				for _, pair := range metric.GetLabel() {
					if pair.GetName() == name && pair.GetValue() == value {
						found = true
						break
					}
				}
				if !found {
					continue metric
				}
			}
			return metric.GetCounter().GetValue(), nil
		}
	}

	return 0, fmt.Errorf("counter %q with labels %v not found", metricName, labels)
}

func TestWithRegisterer_RecordsDecisions(t *testing.T) {
	registry := prom.NewRegistry()

	filter, err := ipallow.New(
		ipallow.WithRules(ipallow.NewRules([]string{"10.0.0.0/8"})),
		WithRegisterer(registry),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	handler := filter.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, remoteAddr := range []string{"10.1.2.3:1111", "11.0.0.1:2222"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remoteAddr
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	allowed, err := counterValue(registry, "ip_allowlist_decisions_total",
		map[string]string{"outcome": "allow", "reason": ipallow.ReasonRuleMatched})
	if err != nil {
		t.Fatal(err)
	}
	if allowed != 1 {
		t.Errorf("allow counter = %v, want 1", allowed)
	}

	denied, err := counterValue(registry, "ip_allowlist_decisions_total",
		map[string]string{"outcome": "deny", "reason": ipallow.ReasonNoRuleMatched})
	if err != nil {
		t.Fatal(err)
	}
	if denied != 1 {
		t.Errorf("deny counter = %v, want 1", denied)
	}
}

func TestWithRegisterer_RecordsInvalidRules(t *testing.T) {
	registry := prom.NewRegistry()

	_, err := ipallow.New(
		ipallow.WithRules(ipallow.NewRules([]string{"not-an-ip/33", "10.0.0.0/8"})),
		WithRegisterer(registry),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	invalid, err := counterValue(registry, "ip_allowlist_invalid_rules_total", nil)
	if err != nil {
		t.Fatal(err)
	}
	if invalid != 1 {
		t.Errorf("invalid rules counter = %v, want 1", invalid)
	}
}

func TestNewWithRegisterer_ReusesExistingCollectors(t *testing.T) {
	registry := prom.NewRegistry()

	first, err := NewWithRegisterer(registry)
	if err != nil {
		t.Fatalf("first NewWithRegisterer() error = %v", err)
	}

	second, err := NewWithRegisterer(registry)
	if err != nil {
		t.Fatalf("second NewWithRegisterer() error = %v", err)
	}

	first.RecordDecision("allow", ipallow.ReasonFailOpen)
	second.RecordDecision("allow", ipallow.ReasonFailOpen)

	value, err := counterValue(registry, "ip_allowlist_decisions_total",
		map[string]string{"outcome": "allow", "reason": ipallow.ReasonFailOpen})
	if err != nil {
		t.Fatal(err)
	}
	if value != 2 {
		t.Errorf("shared counter = %v, want 2 (collectors not reused)", value)
	}
}

package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveDecision(t *testing.T) {
	m := NewMetrics()
	m.ObserveDecision("permission", true)
	m.ObserveDecision("permission", false)
	m.ObserveDecision("permission", false)

	if got := testutil.ToFloat64(m.AccessDecisions.WithLabelValues("permission", "deny")); got != 2 {
		t.Errorf("deny count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.AccessDecisions.WithLabelValues("permission", "allow")); got != 1 {
		t.Errorf("allow count = %v, want 1", got)
	}
}

func TestObserveFilteredAndDigest(t *testing.T) {
	m := NewMetrics()
	m.ObserveFiltered("tasks", 3)
	m.ObserveFiltered("tasks", 0)
	m.ObserveDigest(nil)
	m.ObserveDigest(errors.New("boom"))

	if got := testutil.ToFloat64(m.RecordsFiltered.WithLabelValues("tasks")); got != 3 {
		t.Errorf("filtered = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.DigestRuns.WithLabelValues("error")); got != 1 {
		t.Errorf("digest errors = %v, want 1", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveDecision("page", true)
	m.ObserveFiltered("tasks", 1)
	m.ObserveDigest(nil)
}

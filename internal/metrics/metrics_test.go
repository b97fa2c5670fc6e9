package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.SessionsCreatedTotal.Inc()
	m.PuttUpdatesTotal.WithLabelValues("ok").Inc()
	m.PuttUpdatesTotal.WithLabelValues("invalid").Add(2)

	if got := testutil.ToFloat64(m.SessionsCreatedTotal); got != 1 {
		t.Fatalf("sessions created = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.PuttUpdatesTotal.WithLabelValues("invalid")); got != 2 {
		t.Fatalf("invalid updates = %v, want 2", got)
	}

	// A second set on a fresh registry must not collide.
	_ = New(prometheus.NewRegistry())
}

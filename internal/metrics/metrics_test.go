package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersRecord(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementTransition("search", "login")
	m.IncrementTransition("search", "login")
	m.IncrementAuditFailure()
	m.IncrementStaffSearch("found")
	m.ObserveRemoteCall("beneficiary.find", 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Transitions.WithLabelValues("search", "login")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuditFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StaffSearches.WithLabelValues("found")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RemoteCallLatency))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementTransition("a", "b")
		m.ObserveRemoteCall("op", time.Second)
		m.IncrementAuditFailure()
		m.IncrementStaffSearch("found")
	})
}

func TestRegistryGathers(t *testing.T) {
	reg := NewRegistry()
	New(reg).IncrementAuditFailure()

	families, err := reg.Gather()
	assert.NoError(t, err)
	assert.NotEmpty(t, families)
}

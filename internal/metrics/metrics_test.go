package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_ExposesPointCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	Register(reg)

	PointOperations.WithLabelValues("charge", "ok").Inc()
	LockRegistryEntries.Set(3)
	LockWait.Observe(0.002)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["point_operations_total"])
	assert.True(t, names["point_lock_registry_entries"])
	assert.True(t, names["point_lock_wait_seconds"])
	assert.Equal(t, float64(3), testutil.ToFloat64(LockRegistryEntries))
}

func TestInit_IsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Init()
		Init()
	})
}

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_IsIdempotent(t *testing.T) {
	m := Init()
	require.NotNil(t, m)
	assert.Same(t, m, Init())
	assert.Same(t, m, Get())
}

func TestRecordersExposeFamilies(t *testing.T) {
	m := Init()
	m.RecordValidation(false)
	m.RecordCacheLookup(true)
	m.RecordAutomationTest(true)

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["ora_boards_form_validations_total"])
	assert.True(t, names["ora_boards_schema_cache_lookups_total"])
	assert.True(t, names["ora_boards_automation_tests_total"])
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("GET", "/health", "200", 0.01)
		m.RecordValidation(true)
		m.RecordAutomationTest(false)
		m.RecordWebSocketConnect()
	})
}

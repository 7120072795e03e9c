package hub

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStates(n int) []StateRecord {
	states := make([]StateRecord, n)
	for i := range states {
		states[i] = StateRecord{
			EntityID:   fmt.Sprintf("sensor.temp_%d", i),
			State:      fmt.Sprintf("%d", 20+i),
			Attributes: map[string]any{"unit_of_measurement": "°C"},
		}
	}
	return states
}

func TestFilterStates_LimitPreservesOrder(t *testing.T) {
	out := FilterStates(sampleStates(5), StateFilter{Limit: 2})
	require.Len(t, out, 2)
	assert.Equal(t, "sensor.temp_0", out[0].EntityID)
	assert.Equal(t, "sensor.temp_1", out[1].EntityID)
}

func TestFilterStates_NonPositiveLimit(t *testing.T) {
	assert.Empty(t, FilterStates(sampleStates(5), StateFilter{Limit: 0}))
	assert.Empty(t, FilterStates(sampleStates(5), StateFilter{Limit: -3}))
}

func TestFilterStates_DomainFilter(t *testing.T) {
	states := []StateRecord{
		{EntityID: "light.kitchen", State: "on"},
		{EntityID: "sensor.kitchen_temp", State: "21"},
		{EntityID: "light.bedroom", State: "off"},
	}
	out := FilterStates(states, StateFilter{Domain: "light", Limit: 10})
	require.Len(t, out, 2)
	assert.Equal(t, "light.kitchen", out[0].EntityID)
	assert.Equal(t, "light.bedroom", out[1].EntityID)
}

func TestFilterStates_DomainIsPrefixNotSubstring(t *testing.T) {
	states := []StateRecord{
		{EntityID: "light.kitchen", State: "on"},
		{EntityID: "lightning.detector", State: "clear"},
	}
	out := FilterStates(states, StateFilter{Domain: "light", Limit: 10})
	require.Len(t, out, 1)
	assert.Equal(t, "light.kitchen", out[0].EntityID)
}

func TestFilterStates_SearchCaseInsensitive(t *testing.T) {
	states := []StateRecord{
		{EntityID: "light.Kitchen_Main", State: "on"},
		{EntityID: "light.bedroom", State: "off"},
	}
	out := FilterStates(states, StateFilter{Search: "KITCHEN", Limit: 10})
	require.Len(t, out, 1)
	assert.Equal(t, "light.Kitchen_Main", out[0].EntityID)
}

func TestFilterStates_AttributesProjection(t *testing.T) {
	states := []StateRecord{
		{EntityID: "sensor.a", State: "1", Attributes: map[string]any{"unit": "W"}},
		{EntityID: "sensor.b", State: "2"},
	}

	out := FilterStates(states, StateFilter{Limit: 10})
	require.Len(t, out, 2)
	assert.Nil(t, out[0].Attributes, "attributes omitted unless requested")

	out = FilterStates(states, StateFilter{Limit: 10, IncludeAttributes: true})
	require.Len(t, out, 2)
	assert.Equal(t, map[string]any{"unit": "W"}, out[0].Attributes)
	assert.NotNil(t, out[1].Attributes, "missing attributes become an empty map")
	assert.Empty(t, out[1].Attributes)
}

func sampleLogEntries() []map[string]any {
	return []map[string]any{
		{"level": "ERROR", "name": "homeassistant.core", "message": []any{"zigbee adapter lost"}, "source": []any{"core.py", 123}},
		{"level": "WARNING", "name": "homeassistant.setup", "message": []any{"setup of light is taking over 10 seconds"}},
		{"level": "ERROR", "name": "custom_components.magic", "message": []any{"spell failed"}},
	}
}

func TestFilterLogEntries_LevelSetCaseInsensitive(t *testing.T) {
	out := FilterLogEntries(sampleLogEntries(), LogFilter{Levels: []string{"error"}, Limit: 10})
	require.Len(t, out, 2)
	assert.Equal(t, "homeassistant.core", out[0]["name"])
	assert.Equal(t, "custom_components.magic", out[1]["name"])
}

func TestFilterLogEntries_SearchOverNameMessageSource(t *testing.T) {
	out := FilterLogEntries(sampleLogEntries(), LogFilter{Search: "ZIGBEE", Limit: 10})
	require.Len(t, out, 1)
	assert.Equal(t, "homeassistant.core", out[0]["name"])

	out = FilterLogEntries(sampleLogEntries(), LogFilter{Search: "magic", Limit: 10})
	require.Len(t, out, 1)

	out = FilterLogEntries(sampleLogEntries(), LogFilter{Search: "no such text", Limit: 10})
	assert.Empty(t, out)
}

func TestFilterLogEntries_LimitAndOrder(t *testing.T) {
	out := FilterLogEntries(sampleLogEntries(), LogFilter{Limit: 2})
	require.Len(t, out, 2)
	assert.Equal(t, "homeassistant.core", out[0]["name"])
	assert.Equal(t, "homeassistant.setup", out[1]["name"])
}

func TestFilterLogEntries_NonPositiveLimit(t *testing.T) {
	assert.Empty(t, FilterLogEntries(sampleLogEntries(), LogFilter{Limit: 0}))
	assert.Empty(t, FilterLogEntries(sampleLogEntries(), LogFilter{Limit: -1}))
}

func TestFilterLogEntries_BlankLevelsIgnored(t *testing.T) {
	out := FilterLogEntries(sampleLogEntries(), LogFilter{Levels: []string{"", "  "}, Limit: 10})
	assert.Len(t, out, 3, "blank level tokens must not filter anything out")
}

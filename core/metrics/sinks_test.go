package metrics_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/rescuesim/core/factory"
	"github.com/kilianp07/rescuesim/core/metrics"
	inframetrics "github.com/kilianp07/rescuesim/infra/metrics"
)

func TestNewMetricsSink_Shapes(t *testing.T) {
	s, err := metrics.NewMetricsSink(nil)
	require.NoError(t, err)
	assert.IsType(t, metrics.NopSink{}, s)

	s, err = metrics.NewMetricsSink([]factory.ModuleConfig{{Type: "prometheus"}})
	require.NoError(t, err)
	assert.IsType(t, &inframetrics.PromSink{}, s)

	s, err = metrics.NewMetricsSink([]factory.ModuleConfig{{Type: "nop"}, {Type: "prometheus"}})
	require.NoError(t, err)
	multi, ok := s.(*metrics.MultiSink)
	require.True(t, ok, "got %T", s)
	assert.Len(t, multi.Sinks, 2)
}

func TestNewMetricsSink_UnknownType(t *testing.T) {
	_, err := metrics.NewMetricsSink([]factory.ModuleConfig{{Type: "statsd"}})
	assert.Error(t, err)
}

func TestMetricsConfig_Decode(t *testing.T) {
	var fromYAML metrics.Config
	require.NoError(t, yaml.Unmarshal([]byte("sinks:\n  - type: nop\n  - type: nop\n"), &fromYAML))
	s, err := metrics.NewMetricsSink(fromYAML.Sinks)
	require.NoError(t, err)
	assert.IsType(t, &metrics.MultiSink{}, s)

	var fromJSON metrics.Config
	require.NoError(t, json.Unmarshal([]byte(`{"sinks":[{"type":"influx","conf":{"url":""}}]}`), &fromJSON))
	require.Len(t, fromJSON.Sinks, 1)
	assert.Equal(t, "influx", fromJSON.Sinks[0].Type)
	assert.Equal(t, "", fromJSON.Sinks[0].Conf["url"])
}

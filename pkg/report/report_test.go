package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DashNode-Org/zk-blocktime-soundness/pkg/blockstats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleStats = blockstats.Stats{
	StartBlock:        101,
	EndBlock:          105,
	SampleSize:        5,
	AvgBlockTime:      12,
	AvgGasUtilization: 50,
	TimeVariation:     0,
}

func TestDocument_JSONFields(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("CET", 3600))
	doc := NewDocument(sampleStats, blockstats.StabilityReport{Label: blockstats.StabilityStable}, "http://node:8545", now, 1234*time.Millisecond)

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf).JSON(doc))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, 101.0, got["start_block"])
	assert.Equal(t, 105.0, got["end_block"])
	assert.Equal(t, 5.0, got["sample_size"])
	assert.Equal(t, 12.0, got["avg_block_time"])
	assert.Equal(t, 50.0, got["avg_gas_utilization"])
	assert.Equal(t, 0.0, got["time_variation"])
	assert.Equal(t, "normal", got["speed"])
	assert.Equal(t, "stable", got["stability"])
	assert.Equal(t, "http://node:8545", got["rpc"])
	assert.Equal(t, "2024-01-02T02:04:05.000000Z", got["timestamp_utc"])
	assert.Equal(t, 1.23, got["elapsed_seconds"])
}

func TestPrinter_Lines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Header("http://node:8545", 101, 5, time.Unix(0, 0))
	p.Stats(sampleStats)
	p.Stability(blockstats.StabilityReport{Label: blockstats.StabilityStable})
	p.Footer(1500 * time.Millisecond)

	out := buf.String()
	assert.Contains(t, out, "🔧 zk-blocktime-soundness")
	assert.Contains(t, out, "🧱 Start Block: 101")
	assert.Contains(t, out, "🧭 Range: 101 → 105")
	assert.Contains(t, out, "⏱️ Average Block Time: 12.00 seconds")
	assert.Contains(t, out, "⛽ Avg Gas Utilization: 50.00%")
	assert.Contains(t, out, "Normal block time detected.")
	assert.Contains(t, out, "Stable block production")
	assert.Contains(t, out, "✅ Completed in 1.50s")
}

func TestPrinter_SpeedAndStabilityLabels(t *testing.T) {
	tests := []struct {
		avg       float64
		stability blockstats.Stability
		speedLine string
		stabLine  string
	}{
		{25, blockstats.StabilityVolatile, "Slow network", "Volatile timing"},
		{2, blockstats.StabilitySlightlyVariable, "Fast block production", "Slightly variable timing"},
		{12, blockstats.StabilityUnknown, "Normal block time", "Could not compute stability analysis."},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		p := NewPrinter(&buf)
		p.Stats(blockstats.Stats{AvgBlockTime: tt.avg})
		p.Stability(blockstats.StabilityReport{Label: tt.stability})

		assert.Contains(t, buf.String(), tt.speedLine)
		assert.Contains(t, buf.String(), tt.stabLine)
	}
}

func TestPrinter_Failure(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Failure(errors.New("failed to fetch block 7: timeout"))

	assert.Equal(t, "❌ failed to fetch block 7: timeout\n", buf.String())
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RPCRequestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blocktime_rpc_requests_total",
		Help: "The total number of JSON-RPC requests sent to the node",
	}, []string{"backend", "method", "status"})

	RPCRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blocktime_rpc_request_duration_seconds",
		Help:    "The duration of JSON-RPC requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend", "method"})

	AnalysisTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blocktime_analysis_runs_total",
		Help: "The total number of block window analyses",
	}, []string{"status"})

	AvgBlockTime = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "blocktime_avg_block_time_seconds",
		Help: "Average inter-block time of the last analyzed window",
	})

	AvgGasUtilization = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "blocktime_avg_gas_utilization_percent",
		Help: "Average gas utilization of the last analyzed window (0-100)",
	})

	TimeVariation = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "blocktime_time_variation_seconds",
		Help: "Spread between the slowest and fastest block interval in the last window",
	})

	WindowEndBlock = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "blocktime_window_end_block",
		Help: "Last block number of the analyzed window",
	})

	StabilityKnown = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "blocktime_stability_known",
		Help: "Whether the stability pass succeeded (1 = known, 0 = unknown)",
	})
)

// RecordRPCRequest increments the request counter
func RecordRPCRequest(backend, method, status string) {
	RPCRequestTotal.WithLabelValues(backend, method, status).Inc()
}

// ObserveRPCDuration observes the request duration
func ObserveRPCDuration(backend, method string, duration float64) {
	RPCRequestDuration.WithLabelValues(backend, method).Observe(duration)
}

// RecordAnalysis counts a finished analysis run
func RecordAnalysis(ok bool) {
	status := "ok"
	if !ok {
		status = "error"
	}
	AnalysisTotal.WithLabelValues(status).Inc()
}

// SetWindowStats publishes the aggregates of the latest window
func SetWindowStats(endBlock int64, avgBlockTime, avgGasUtilization float64, timeVariation int64) {
	WindowEndBlock.Set(float64(endBlock))
	AvgBlockTime.Set(avgBlockTime)
	AvgGasUtilization.Set(avgGasUtilization)
	TimeVariation.Set(float64(timeVariation))
}

// SetStabilityKnown sets the stability gauge
func SetStabilityKnown(known bool) {
	val := 0.0
	if known {
		val = 1.0
	}
	StabilityKnown.Set(val)
}

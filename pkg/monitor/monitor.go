package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/DashNode-Org/zk-blocktime-soundness/pkg/blockstats"
	"github.com/DashNode-Org/zk-blocktime-soundness/pkg/health"
	"github.com/DashNode-Org/zk-blocktime-soundness/pkg/metrics"
	"github.com/DashNode-Org/zk-blocktime-soundness/pkg/rpc"
	"github.com/rs/zerolog/log"
)

// Snapshot is the latest analysis of the window ending at the chain head.
type Snapshot struct {
	Stats          blockstats.Stats     `json:"stats"`
	Speed          blockstats.Speed     `json:"speed"`
	Stability      blockstats.Stability `json:"stability"`
	StabilityKnown bool                 `json:"stabilityKnown"`
	Head           uint64               `json:"head"`
	UpdatedAt      time.Time            `json:"updatedAt"`
	Error          string               `json:"error,omitempty"`
}

type Monitor struct {
	node     rpc.Node
	checker  *health.Checker
	samples  int
	interval time.Duration

	latest *Snapshot
	mu     sync.RWMutex
}

func New(node rpc.Node, checker *health.Checker, samples int, interval time.Duration) *Monitor {
	return &Monitor{
		node:     node,
		checker:  checker,
		samples:  samples,
		interval: interval,
	}
}

// Run analyzes once immediately and then on every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		if err := m.Tick(ctx); err != nil {
			log.Error().Err(err).Msg("Window analysis failed")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Tick analyzes the last samples blocks ending at the current head.
func (m *Monitor) Tick(ctx context.Context) error {
	st, err := m.checker.Check(ctx)
	if err != nil {
		m.fail(err)
		return err
	}

	start := int64(st.BlockNumber) - int64(m.samples) + 1
	analyzer := blockstats.NewAnalyzer(blockstats.NewMemoSource(m.node))

	stats, err := analyzer.ComputeStats(ctx, start, m.samples)
	if err != nil {
		m.fail(err)
		return err
	}
	stability := analyzer.Stability(ctx, start, m.samples)

	metrics.RecordAnalysis(true)
	metrics.SetWindowStats(stats.EndBlock, stats.AvgBlockTime, stats.AvgGasUtilization, stats.TimeVariation)
	metrics.SetStabilityKnown(stability.Known())

	m.store(&Snapshot{
		Stats:          stats,
		Speed:          stats.Speed(),
		Stability:      stability.Label,
		StabilityKnown: stability.Known(),
		Head:           st.BlockNumber,
		UpdatedAt:      time.Now(),
	})

	log.Info().
		Int64("from", stats.StartBlock).
		Int64("to", stats.EndBlock).
		Float64("avgBlockTime", stats.AvgBlockTime).
		Float64("avgGasUtilization", stats.AvgGasUtilization).
		Str("stability", string(stability.Label)).
		Msg("Window analysis completed")
	return nil
}

// Latest returns the most recent snapshot, if any tick has run.
func (m *Monitor) Latest() (Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.latest == nil {
		return Snapshot{}, false
	}
	return *m.latest, true
}

// fail keeps the last good numbers but flags the error.
func (m *Monitor) fail(err error) {
	metrics.RecordAnalysis(false)

	m.mu.Lock()
	defer m.mu.Unlock()
	snap := Snapshot{}
	if m.latest != nil {
		snap = *m.latest
	}
	snap.Error = err.Error()
	snap.UpdatedAt = time.Now()
	m.latest = &snap
}

func (m *Monitor) store(snap *Snapshot) {
	m.mu.Lock()
	m.latest = snap
	m.mu.Unlock()
}

package blockstats

import (
	"context"
	"fmt"
	"math"

	"github.com/DashNode-Org/zk-blocktime-soundness/pkg/rpc"
	"github.com/rs/zerolog/log"
)

// Stats aggregates a window of consecutive block intervals.
type Stats struct {
	StartBlock        int64   `json:"start_block"`
	EndBlock          int64   `json:"end_block"`
	SampleSize        int     `json:"sample_size"`
	AvgBlockTime      float64 `json:"avg_block_time"`
	AvgGasUtilization float64 `json:"avg_gas_utilization"`
	TimeVariation     int64   `json:"time_variation"`
}

func (s Stats) Speed() Speed {
	return ClassifySpeed(s.AvgBlockTime)
}

// StabilityReport is the outcome of the stability pass. A failed pass is not
// an error for the caller: Label is StabilityUnknown and Err holds the cause.
type StabilityReport struct {
	Label         Stability
	TimeVariation int64
	Err           error
}

func (r StabilityReport) Known() bool {
	return r.Err == nil
}

type Analyzer struct {
	source rpc.BlockSource
}

func NewAnalyzer(source rpc.BlockSource) *Analyzer {
	return &Analyzer{source: source}
}

// ComputeStats walks blocks [startBlock, startBlock+sampleSize-1], pairing each
// with its parent. Any fetch failure aborts the whole window.
func (a *Analyzer) ComputeStats(ctx context.Context, startBlock int64, sampleSize int) (Stats, error) {
	if err := validateWindow(startBlock, sampleSize); err != nil {
		return Stats{}, err
	}

	deltas := make([]int64, 0, sampleSize)
	ratios := make([]float64, 0, sampleSize)

	for i := startBlock; i < startBlock+int64(sampleSize); i++ {
		block, parent, err := a.fetchPair(ctx, i)
		if err != nil {
			return Stats{}, err
		}
		deltas = append(deltas, blockDelta(block, parent))
		ratios = append(ratios, gasRatio(block))
	}

	var totalTime int64
	for _, d := range deltas {
		totalTime += d
	}
	var totalRatio float64
	for _, r := range ratios {
		totalRatio += r
	}

	return Stats{
		StartBlock:        startBlock,
		EndBlock:          startBlock + int64(sampleSize) - 1,
		SampleSize:        sampleSize,
		AvgBlockTime:      round2(float64(totalTime) / float64(sampleSize)),
		AvgGasUtilization: round2(totalRatio / float64(sampleSize) * 100),
		TimeVariation:     variation(deltas),
	}, nil
}

// Stability re-reads the window and buckets the spread of block intervals.
// It never fails; problems degrade the report to StabilityUnknown.
func (a *Analyzer) Stability(ctx context.Context, startBlock int64, sampleSize int) StabilityReport {
	if err := validateWindow(startBlock, sampleSize); err != nil {
		return StabilityReport{Label: StabilityUnknown, Err: err}
	}

	deltas := make([]int64, 0, sampleSize)
	for i := startBlock; i < startBlock+int64(sampleSize); i++ {
		block, parent, err := a.fetchPair(ctx, i)
		if err != nil {
			log.Warn().Err(err).Int64("block", i).Msg("Stability analysis degraded")
			return StabilityReport{Label: StabilityUnknown, Err: err}
		}
		deltas = append(deltas, blockDelta(block, parent))
	}

	v := variation(deltas)
	return StabilityReport{
		Label:         ClassifyStability(v),
		TimeVariation: v,
	}
}

func (a *Analyzer) fetchPair(ctx context.Context, number int64) (rpc.Block, rpc.Block, error) {
	block, err := a.source.GetBlock(ctx, uint64(number))
	if err != nil {
		return rpc.Block{}, rpc.Block{}, &FetchError{Block: number, Err: err}
	}
	parent, err := a.source.GetBlock(ctx, uint64(number-1))
	if err != nil {
		return rpc.Block{}, rpc.Block{}, &FetchError{Block: number - 1, Err: err}
	}
	return block, parent, nil
}

func validateWindow(startBlock int64, sampleSize int) error {
	if sampleSize <= 0 {
		return fmt.Errorf("%w: sample size must be positive, got %d", ErrInvalidArgument, sampleSize)
	}
	// block 0 has no parent
	if startBlock < 1 {
		return fmt.Errorf("%w: start block must be at least 1, got %d", ErrInvalidArgument, startBlock)
	}
	return nil
}

// blockDelta is signed: out-of-order timestamps are recorded, not rejected.
func blockDelta(block, parent rpc.Block) int64 {
	d := int64(block.Timestamp) - int64(parent.Timestamp)
	if d < 0 {
		log.Warn().
			Uint64("block", block.Number).
			Int64("delta", d).
			Msg("Non-monotonic block timestamp")
	}
	return d
}

func gasRatio(block rpc.Block) float64 {
	if block.GasLimit == 0 {
		return 0
	}
	return float64(block.GasUsed) / float64(block.GasLimit)
}

func variation(deltas []int64) int64 {
	if len(deltas) == 0 {
		return 0
	}
	min, max := deltas[0], deltas[0]
	for _, d := range deltas {
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return max - min
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

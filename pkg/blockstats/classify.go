package blockstats

type Speed string

const (
	SpeedSlow   Speed = "slow"
	SpeedNormal Speed = "normal"
	SpeedFast   Speed = "fast"
)

type Stability string

const (
	StabilityStable           Stability = "stable"
	StabilitySlightlyVariable Stability = "slightly variable"
	StabilityVolatile         Stability = "volatile"
	StabilityUnknown          Stability = "unknown"
)

const (
	slowBlockTimeSeconds = 20
	fastBlockTimeSeconds = 8

	stableVariationSeconds   = 2
	variableVariationSeconds = 5
)

func ClassifySpeed(avgBlockTime float64) Speed {
	if avgBlockTime > slowBlockTimeSeconds {
		return SpeedSlow
	} else if avgBlockTime < fastBlockTimeSeconds {
		return SpeedFast
	}
	return SpeedNormal
}

func ClassifyStability(timeVariation int64) Stability {
	if timeVariation < stableVariationSeconds {
		return StabilityStable
	} else if timeVariation < variableVariationSeconds {
		return StabilitySlightlyVariable
	}
	return StabilityVolatile
}

package blockstats

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoSource_DeduplicatesWindow(t *testing.T) {
	src := newChain(100, []uint64{1000, 1012, 1024, 1036, 1048, 1060}, 1, 2)
	memo := NewMemoSource(src)
	a := NewAnalyzer(memo)

	_, err := a.ComputeStats(context.Background(), 101, 5)
	require.NoError(t, err)

	// 5 pairs share parents: blocks 100..105
	assert.Equal(t, 6, src.calls)

	report := a.Stability(context.Background(), 101, 5)
	assert.True(t, report.Known())
	assert.Equal(t, 6, src.calls)
}

func TestMemoSource_DoesNotCacheFailures(t *testing.T) {
	src := newChain(1, []uint64{10, 22}, 1, 2)
	src.fail[2] = errors.New("flaky")
	memo := NewMemoSource(src)

	_, err := memo.GetBlock(context.Background(), 2)
	require.Error(t, err)

	delete(src.fail, 2)
	b, err := memo.GetBlock(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(22), b.Timestamp)
	assert.Equal(t, 2, src.calls)
}

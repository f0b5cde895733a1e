package blockstats

import (
	"context"
	"sync"

	"github.com/DashNode-Org/zk-blocktime-soundness/pkg/rpc"
)

// MemoSource remembers successfully fetched blocks so that overlapping pairs
// and the stability pass hit the node once per block. Failures are not cached.
type MemoSource struct {
	source rpc.BlockSource
	blocks map[uint64]rpc.Block
	mu     sync.Mutex
}

func NewMemoSource(source rpc.BlockSource) *MemoSource {
	return &MemoSource{
		source: source,
		blocks: make(map[uint64]rpc.Block),
	}
}

func (m *MemoSource) GetBlock(ctx context.Context, number uint64) (rpc.Block, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if b, ok := m.blocks[number]; ok {
		return b, nil
	}

	b, err := m.source.GetBlock(ctx, number)
	if err != nil {
		return rpc.Block{}, err
	}
	m.blocks[number] = b
	return b, nil
}

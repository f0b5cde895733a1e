package rpc

import "context"

// BlockSource fetches a single block by number.
type BlockSource interface {
	GetBlock(ctx context.Context, number uint64) (Block, error)
}

// Node is a BlockSource that can also answer connection probes.
type Node interface {
	BlockSource
	ChainID(ctx context.Context) (uint64, error)
	BlockNumber(ctx context.Context) (uint64, error)
	Close()
}

var (
	_ Node = (*Client)(nil)
	_ Node = (*GethSource)(nil)
)

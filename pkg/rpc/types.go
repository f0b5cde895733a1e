package rpc

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

var (
	ErrBlockNotFound  = errors.New("block not found")
	ErrMalformedBlock = errors.New("malformed block")
)

// Block is the subset of an EVM block header the analyzer needs.
type Block struct {
	Number    uint64 `json:"number"`
	Timestamp uint64 `json:"timestamp"`
	GasUsed   uint64 `json:"gasUsed"`
	GasLimit  uint64 `json:"gasLimit"`
}

// blockHeader mirrors the eth_getBlockByNumber result. Pointers let us tell a
// missing field apart from a zero one.
type blockHeader struct {
	Number    *hexutil.Uint64 `json:"number"`
	Timestamp *hexutil.Uint64 `json:"timestamp"`
	GasUsed   *hexutil.Uint64 `json:"gasUsed"`
	GasLimit  *hexutil.Uint64 `json:"gasLimit"`
}

func (h *blockHeader) toBlock(requested uint64) (Block, error) {
	fields := []struct {
		name string
		val  *hexutil.Uint64
	}{
		{"number", h.Number},
		{"timestamp", h.Timestamp},
		{"gasUsed", h.GasUsed},
		{"gasLimit", h.GasLimit},
	}
	for _, f := range fields {
		if f.val == nil {
			return Block{}, fmt.Errorf("%w: missing %s", ErrMalformedBlock, f.name)
		}
	}

	if uint64(*h.Number) != requested {
		return Block{}, fmt.Errorf("%w: requested %d, got %d", ErrMalformedBlock, requested, uint64(*h.Number))
	}

	return Block{
		Number:    uint64(*h.Number),
		Timestamp: uint64(*h.Timestamp),
		GasUsed:   uint64(*h.GasUsed),
		GasLimit:  uint64(*h.GasLimit),
	}, nil
}

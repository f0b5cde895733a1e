package health

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/DashNode-Org/zk-blocktime-soundness/pkg/rpc"
	"github.com/rs/zerolog/log"
)

var ErrConnection = errors.New("rpc connection failed")

type Status struct {
	Healthy     bool          `json:"healthy"`
	ChainID     uint64        `json:"chainId"`
	BlockNumber uint64        `json:"blockNumber"`
	Latency     time.Duration `json:"latency"`
	LastChecked time.Time     `json:"lastCheck"`
	Error       string        `json:"error,omitempty"`
}

// Checker probes the node with eth_chainId and eth_blockNumber.
type Checker struct {
	node rpc.Node
	last Status
	mu   sync.RWMutex
}

func NewChecker(node rpc.Node) *Checker {
	return &Checker{node: node}
}

// Check fails with ErrConnection when the node cannot answer both probes.
func (c *Checker) Check(ctx context.Context) (Status, error) {
	start := time.Now()

	chainID, err := c.node.ChainID(ctx)
	if err != nil {
		return c.record(Status{Latency: time.Since(start)}, err)
	}

	blockNum, err := c.node.BlockNumber(ctx)
	if err != nil {
		return c.record(Status{ChainID: chainID, Latency: time.Since(start)}, err)
	}

	// Success
	st := Status{
		Healthy:     true,
		ChainID:     chainID,
		BlockNumber: blockNum,
		Latency:     time.Since(start),
	}
	log.Debug().Uint64("chain", chainID).Uint64("block", blockNum).Dur("latency", st.Latency).Msg("Health check passed")
	return c.record(st, nil)
}

// Last returns the outcome of the most recent Check.
func (c *Checker) Last() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

func (c *Checker) record(st Status, err error) (Status, error) {
	st.LastChecked = time.Now()
	if err != nil {
		st.Healthy = false
		st.Error = err.Error()
		err = fmt.Errorf("%w: %v", ErrConnection, err)
		log.Warn().Err(err).Msg("Node marked unhealthy")
	}

	c.mu.Lock()
	c.last = st
	c.mu.Unlock()

	return st, err
}

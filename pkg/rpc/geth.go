package rpc

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/DashNode-Org/zk-blocktime-soundness/pkg/metrics"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/ethclient"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/zerolog/log"
)

const backendGeth = "geth"

// GethSource reads blocks through go-ethereum's ethclient. Unlike Client it
// also understands ws:// and wss:// endpoints.
type GethSource struct {
	client  *ethclient.Client
	timeout time.Duration
}

func DialGeth(ctx context.Context, url string, timeout time.Duration) (*GethSource, error) {
	rc, err := gethrpc.DialOptions(ctx, url, gethrpc.WithHTTPClient(&http.Client{Timeout: timeout}))
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return &GethSource{
		client:  ethclient.NewClient(rc),
		timeout: timeout,
	}, nil
}

func (s *GethSource) GetBlock(ctx context.Context, number uint64) (Block, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	header, err := s.client.HeaderByNumber(ctx, new(big.Int).SetUint64(number))
	s.observe("eth_getBlockByNumber", start, err)
	if errors.Is(err, ethereum.NotFound) {
		return Block{}, fmt.Errorf("%w: %d", ErrBlockNotFound, number)
	}
	if err != nil {
		return Block{}, err
	}
	if header.Number == nil || header.Number.Uint64() != number {
		return Block{}, fmt.Errorf("%w: requested %d, got %v", ErrMalformedBlock, number, header.Number)
	}

	log.Debug().Uint64("block", number).Dur("latency", time.Since(start)).Msg("Fetched header")
	return Block{
		Number:    number,
		Timestamp: header.Time,
		GasUsed:   header.GasUsed,
		GasLimit:  header.GasLimit,
	}, nil
}

func (s *GethSource) BlockNumber(ctx context.Context) (uint64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	n, err := s.client.BlockNumber(ctx)
	s.observe("eth_blockNumber", start, err)
	return n, err
}

func (s *GethSource) ChainID(ctx context.Context) (uint64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	id, err := s.client.ChainID(ctx)
	s.observe("eth_chainId", start, err)
	if err != nil {
		return 0, err
	}
	return id.Uint64(), nil
}

func (s *GethSource) Close() {
	s.client.Close()
}

func (s *GethSource) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *GethSource) observe(method string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.RecordRPCRequest(backendGeth, method, status)
	metrics.ObserveRPCDuration(backendGeth, method, time.Since(start).Seconds())
}

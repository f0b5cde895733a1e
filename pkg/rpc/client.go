package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/DashNode-Org/zk-blocktime-soundness/pkg/metrics"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rs/zerolog/log"
)

const backendJSONRPC = "jsonrpc"

// Client is a minimal JSON-RPC 2.0 client for EVM nodes.
type Client struct {
	url    string
	client *http.Client
}

type JSONRPCRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

type JSONRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *JSONRPCError   `json:"error,omitempty"`
	ID      int             `json:"id"`
}

type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Call(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error) {
	start := time.Now()
	res, err := c.call(ctx, method, params...)

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.RecordRPCRequest(backendJSONRPC, method, status)
	metrics.ObserveRPCDuration(backendJSONRPC, method, time.Since(start).Seconds())

	return res, err
}

func (c *Client) call(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error) {
	if params == nil {
		params = []interface{}{}
	}
	reqBody := JSONRPCRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var rpcResp JSONRPCResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if rpcResp.Error != nil {
		return nil, fmt.Errorf("rpc error: %s (code %d)", rpcResp.Error.Message, rpcResp.Error.Code)
	}

	return rpcResp.Result, nil
}

func (c *Client) GetBlock(ctx context.Context, number uint64) (Block, error) {
	start := time.Now()
	res, err := c.Call(ctx, "eth_getBlockByNumber", hexutil.EncodeUint64(number), false)
	if err != nil {
		return Block{}, err
	}

	if len(res) == 0 || string(res) == "null" {
		return Block{}, fmt.Errorf("%w: %d", ErrBlockNotFound, number)
	}

	var header blockHeader
	if err := json.Unmarshal(res, &header); err != nil {
		return Block{}, fmt.Errorf("%w: %v", ErrMalformedBlock, err)
	}

	block, err := header.toBlock(number)
	if err != nil {
		return Block{}, err
	}

	log.Debug().Uint64("block", number).Dur("latency", time.Since(start)).Msg("Fetched block")
	return block, nil
}

func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	res, err := c.Call(ctx, "eth_blockNumber")
	if err != nil {
		return 0, err
	}
	return parseQuantity(res)
}

func (c *Client) ChainID(ctx context.Context) (uint64, error) {
	res, err := c.Call(ctx, "eth_chainId")
	if err != nil {
		return 0, err
	}
	return parseQuantity(res)
}

// Close is a no-op; the underlying http.Client keeps no per-client state.
func (c *Client) Close() {}

func parseQuantity(res json.RawMessage) (uint64, error) {
	// Hex quantity first (standard encoding)
	var q hexutil.Uint64
	if err := json.Unmarshal(res, &q); err == nil {
		return uint64(q), nil
	}

	// Some gateways answer with a plain number
	var n uint64
	if err := json.Unmarshal(res, &n); err == nil {
		return n, nil
	}

	var s string
	if err := json.Unmarshal(res, &s); err == nil {
		val, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse quantity string: %w", err)
		}
		return val, nil
	}

	return 0, fmt.Errorf("unmarshal quantity failed: %s", string(res))
}

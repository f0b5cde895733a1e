package rpc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gethHeader = `{"parentHash":"0x0000000000000000000000000000000000000000000000000000000000000000","sha3Uncles":"0x0000000000000000000000000000000000000000000000000000000000000000","miner":"0x0000000000000000000000000000000000000000","stateRoot":"0x0000000000000000000000000000000000000000000000000000000000000000","transactionsRoot":"0x0000000000000000000000000000000000000000000000000000000000000000","receiptsRoot":"0x0000000000000000000000000000000000000000000000000000000000000000","logsBloom":"0x00000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000","difficulty":"0x0","number":"0x64","gasLimit":"0x1c9c380","gasUsed":"0xe4e1c0","timestamp":"0x65a0c2b0","extraData":"0x","mixHash":"0x0000000000000000000000000000000000000000000000000000000000000000","nonce":"0x0000000000000000","baseFeePerGas":"0x7"}`

func TestGethSource_GetBlock(t *testing.T) {
	srv := newNodeServer(t, map[string]string{
		"eth_getBlockByNumber": gethHeader,
		"eth_chainId":          `"0x1"`,
		"eth_blockNumber":      `"0x65"`,
	})
	defer srv.Close()

	src, err := DialGeth(context.Background(), srv.URL, time.Second)
	require.NoError(t, err)
	defer src.Close()

	block, err := src.GetBlock(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), block.Number)
	assert.Equal(t, uint64(0x65a0c2b0), block.Timestamp)
	assert.Equal(t, uint64(15000000), block.GasUsed)
	assert.Equal(t, uint64(30000000), block.GasLimit)

	id, err := src.ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)

	head, err := src.BlockNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(101), head)
}

func TestGethSource_NotFound(t *testing.T) {
	srv := newNodeServer(t, map[string]string{"eth_getBlockByNumber": `null`})
	defer srv.Close()

	src, err := DialGeth(context.Background(), srv.URL, time.Second)
	require.NoError(t, err)
	defer src.Close()

	_, err = src.GetBlock(context.Background(), 100)
	assert.ErrorIs(t, err, ErrBlockNotFound)
}

func TestGethSource_WrongNumber(t *testing.T) {
	srv := newNodeServer(t, map[string]string{"eth_getBlockByNumber": gethHeader})
	defer srv.Close()

	src, err := DialGeth(context.Background(), srv.URL, time.Second)
	require.NoError(t, err)
	defer src.Close()

	_, err = src.GetBlock(context.Background(), 7)
	assert.ErrorIs(t, err, ErrMalformedBlock)
}

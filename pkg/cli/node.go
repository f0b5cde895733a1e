package cli

import (
	"context"
	"fmt"

	"github.com/DashNode-Org/zk-blocktime-soundness/config"
	"github.com/DashNode-Org/zk-blocktime-soundness/pkg/rpc"
)

// NodeFactory builds the BlockSource for the configured backend.
type NodeFactory func(ctx context.Context, cfg *config.Config) (rpc.Node, error)

func DialNode(ctx context.Context, cfg *config.Config) (rpc.Node, error) {
	switch cfg.Backend {
	case config.BackendJSONRPC:
		return rpc.NewClient(cfg.RPCURL, cfg.RPCTimeout), nil
	case config.BackendGeth:
		return rpc.DialGeth(ctx, cfg.RPCURL, cfg.RPCTimeout)
	default:
		return nil, fmt.Errorf("unknown rpc backend %q", cfg.Backend)
	}
}

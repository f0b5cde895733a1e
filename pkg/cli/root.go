package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/DashNode-Org/zk-blocktime-soundness/config"
	"github.com/DashNode-Org/zk-blocktime-soundness/pkg/blockstats"
	"github.com/DashNode-Org/zk-blocktime-soundness/pkg/health"
	"github.com/DashNode-Org/zk-blocktime-soundness/pkg/report"
	"github.com/DashNode-Org/zk-blocktime-soundness/pkg/rpc"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type App struct {
	cfg         *config.Config
	out         io.Writer
	nodeFactory NodeFactory

	timeoutSec int
	startBlock int64
	asJSON     bool
}

func NewApp(cfg *config.Config, out io.Writer) *App {
	return &App{
		cfg:         cfg,
		out:         out,
		nodeFactory: DialNode,
	}
}

// WithNodeFactory allows injecting a fake node for testing
func (a *App) WithNodeFactory(f NodeFactory) *App {
	a.nodeFactory = f
	return a
}

func (a *App) RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blocktime",
		Short: "Analyze average block time and gas utilization across recent blocks.",
		Long: `zk-blocktime-soundness samples a contiguous range of blocks from an EVM JSON-RPC
endpoint and reports the average block time, the average gas utilization and how
stable block production was over the window.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.cfg.RPCTimeout = time.Duration(a.timeoutSec) * time.Second
			if level, err := zerolog.ParseLevel(a.cfg.LogLevel); err == nil {
				zerolog.SetGlobalLevel(level)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.analyze(cmd.Context())
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.cfg.RPCURL, "rpc", a.cfg.RPCURL, "EVM RPC URL (default from RPC_URL)")
	pf.IntVar(&a.timeoutSec, "timeout", int(a.cfg.RPCTimeout/time.Second), "RPC timeout in seconds")
	pf.StringVar(&a.cfg.Backend, "backend", a.cfg.Backend, "block source: jsonrpc or geth")
	pf.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level (debug, info, warn, error)")

	f := cmd.Flags()
	f.Int64Var(&a.startBlock, "start-block", 0, "Starting block number")
	f.IntVar(&a.cfg.Samples, "samples", a.cfg.Samples, "Number of blocks to average")
	f.BoolVar(&a.asJSON, "json", false, "Output results as JSON")
	_ = cmd.MarkFlagRequired("start-block")

	cmd.AddCommand(a.watchCmd())
	return cmd
}

// connect validates the endpoint, dials it and runs the connection check.
func (a *App) connect(ctx context.Context) (rpc.Node, *health.Checker, error) {
	if err := a.cfg.ValidateRPCURL(); err != nil {
		return nil, nil, &ExitError{Code: ExitConnection, Err: err}
	}

	node, err := a.nodeFactory(ctx, a.cfg)
	if err != nil {
		return nil, nil, connectionFailure("RPC connection failed: %w", err)
	}

	checker := health.NewChecker(node)
	st, err := checker.Check(ctx)
	if err != nil {
		node.Close()
		return nil, nil, connectionFailure("RPC connection failed. Check RPC_URL or --rpc argument: %w", err)
	}

	log.Info().Str("rpc", a.cfg.RPCURL).Uint64("chain", st.ChainID).Uint64("head", st.BlockNumber).Msg("Connected to node")
	return node, checker, nil
}

func (a *App) analyze(ctx context.Context) error {
	started := time.Now()

	node, _, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer node.Close()

	p := report.NewPrinter(a.out)
	p.Header(a.cfg.RPCURL, a.startBlock, a.cfg.Samples, time.Now())

	analyzer := blockstats.NewAnalyzer(blockstats.NewMemoSource(node))

	stats, err := analyzer.ComputeStats(ctx, a.startBlock, a.cfg.Samples)
	if err != nil {
		return analysisFailure(err)
	}
	p.Stats(stats)

	stability := analyzer.Stability(ctx, a.startBlock, a.cfg.Samples)
	p.Stability(stability)

	elapsed := time.Since(started)
	p.Footer(elapsed)

	if a.asJSON {
		doc := report.NewDocument(stats, stability, a.cfg.RPCURL, time.Now(), elapsed)
		if err := p.JSON(doc); err != nil {
			return analysisFailure(fmt.Errorf("encode json: %w", err))
		}
	}
	return nil
}

// Execute runs the command line and returns the process exit code.
func (a *App) Execute(ctx context.Context, args []string) int {
	cmd := a.RootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(a.out)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	report.NewPrinter(a.out).Failure(err)

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	// flag and usage errors
	return ExitAnalysis
}

package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/DashNode-Org/zk-blocktime-soundness/pkg/monitor"
	"github.com/DashNode-Org/zk-blocktime-soundness/pkg/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func (a *App) watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Continuously analyze the newest blocks and serve the results over HTTP.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.watch(cmd.Context())
		},
	}

	f := cmd.Flags()
	f.IntVar(&a.cfg.Samples, "samples", a.cfg.Samples, "Number of blocks in each window")
	f.DurationVar(&a.cfg.WatchInterval, "interval", a.cfg.WatchInterval, "Time between analyses")
	f.IntVar(&a.cfg.ListenPort, "port", a.cfg.ListenPort, "HTTP port for /metrics, /health and /stats")
	return cmd
}

func (a *App) watch(ctx context.Context) error {
	if a.cfg.Samples <= 0 {
		return analysisFailure(errors.New("sample size must be positive"))
	}
	if a.cfg.WatchInterval <= 0 {
		return analysisFailure(errors.New("interval must be positive"))
	}

	node, checker, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer node.Close()

	mon := monitor.New(node, checker, a.cfg.Samples, a.cfg.WatchInterval)
	srv := server.NewServer(a.cfg.ListenPort, a.cfg.RPCTimeout, checker, mon)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("Server startup failed")
		}
	}()

	err = mon.Run(ctx)
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		log.Error().Err(serr).Msg("Server forced to shutdown")
	}

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

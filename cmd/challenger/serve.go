package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/bezalel6/computer-chess/pkg/api"
	"github.com/bezalel6/computer-chess/pkg/logging"
	"github.com/bezalel6/computer-chess/pkg/metrics"
	"github.com/bezalel6/computer-chess/pkg/monitor"
	"github.com/bezalel6/computer-chess/pkg/session"
	"github.com/bezalel6/computer-chess/pkg/store"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the challenge API, metrics and live events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "override server.addr")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	st, err := store.Open(a.cfg.Database.File, store.WithLogger(a.logger))
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			a.logger.Error("failed to close store", logging.ErrorField(err))
		}
	}()

	ev, stopEngine, err := startEvaluator(a.cfg.Engine, a.logger)
	if err != nil {
		return err
	}
	defer func() { _ = stopEngine() }()

	b, err := a.catalogue()
	if err != nil {
		return err
	}

	rec := metrics.NewPrometheus(prometheus.DefaultRegisterer)
	collector := monitor.NewEventCollector()
	opts := append(a.sessionOptions(b, rec),
		session.WithStore(st),
		session.WithPublisher(collector),
	)
	manager := session.NewManager(a.aggregator(ev, rec), rec, opts...)

	apiOpts := []api.Option{
		api.WithPlayers(st),
		api.WithGatherer(prometheus.DefaultGatherer),
		api.WithLogger(a.logger),
		api.WithReportDir(a.cfg.Server.ReportDir),
		api.WithToken(a.cfg.Server.Token),
	}
	if a.cfg.Server.WebSocket {
		host, _ := os.Hostname()
		hub := monitor.NewHub(collector, monitor.NewDashboardData(host), a.logger)
		apiOpts = append(apiOpts, api.WithHub(hub))
	}

	return api.New(manager, apiOpts...).Run(ctx, a.cfg.Server.Addr)
}

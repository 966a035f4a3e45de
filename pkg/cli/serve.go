package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"feuerwehr-web/pkg/config"
	"feuerwehr-web/pkg/logger"
	"feuerwehr-web/pkg/server"
)

func newServeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the website and the admin area",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts.cfg)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	engine, err := server.NewEngine(cfg, a.handler(cfg))
	if err != nil {
		return err
	}

	if err := a.site.Warm(ctx); err != nil {
		logger.Warn("initial cache warm-up failed", zap.Error(err))
	}
	if a.refresher != nil {
		a.refresher.Start(ctx)
		defer a.refresher.Stop()
	}
	a.limiter.Start(ctx)
	defer a.limiter.Stop()

	logger.Info("starting",
		zap.String("addr", cfg.Server.Addr),
		zap.String("mode", cfg.Server.Mode),
		zap.String("db", cfg.Database.Driver),
		zap.Bool("github_login", cfg.OAuth() != nil),
	)
	return server.New(cfg, engine).Run(ctx)
}

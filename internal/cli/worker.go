package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Jgiet001-AI/NetDocGen/internal/broker"
	"github.com/Jgiet001-AI/NetDocGen/internal/config"
	"github.com/Jgiet001-AI/NetDocGen/internal/health"
	"github.com/Jgiet001-AI/NetDocGen/internal/storage"
	"github.com/Jgiet001-AI/NetDocGen/internal/worker"
	"github.com/Jgiet001-AI/NetDocGen/pkg/ai"
)

// workerCommand creates the worker command with parse and generate
// subcommands. Each runs a long-lived message consumer plus a health
// endpoint, stopping on signal.
func (c *CLI) workerCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run a message-driven worker service",
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")

	cmd.AddCommand(&cobra.Command{
		Use:   "parse",
		Short: "Run the diagram parse worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWorker(cmd.Context(), configPath, "parse-worker")
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "generate",
		Short: "Run the document generate worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWorker(cmd.Context(), configPath, "generate-worker")
		},
	})

	return cmd
}

func (c *CLI) runWorker(ctx context.Context, configPath, component string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := c.Logger
	logger.Info("starting worker", "component", component)

	b, err := broker.Connect(cfg.RabbitMQURL, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	store, err := storage.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL, logger)
	if err != nil {
		return err
	}

	var run func(context.Context) error
	switch component {
	case "parse-worker":
		run = worker.NewParseWorker(b, store, logger, cfg.OperationTimeout.Duration).Run
	case "generate-worker":
		var aiClient *ai.Client
		if cfg.AIBaseURL != "" {
			aiClient = ai.NewClient(cfg.AIBaseURL, cfg.AIModel, logger)
		}
		run = worker.NewGenerateWorker(b, store, aiClient, logger, cfg.OperationTimeout.Duration).Run
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return run(ctx)
	})
	g.Go(func() error {
		return health.NewServer(component, logger).Start(ctx, cfg.HealthAddr)
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		logger.Info("worker stopped", "component", component)
		return nil
	}
	return err
}

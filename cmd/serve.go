package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/smilepat/csat-connectedu-company/internal/api"
	"github.com/smilepat/csat-connectedu-company/internal/config"
	"github.com/smilepat/csat-connectedu-company/internal/generate"
	"github.com/smilepat/csat-connectedu-company/internal/llm"
	"github.com/smilepat/csat-connectedu-company/internal/router"
	"github.com/smilepat/csat-connectedu-company/internal/spec"
	"github.com/smilepat/csat-connectedu-company/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the item generation HTTP service",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides CSAT_ADDR env var)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}
	if cfg.DBPath == "" {
		cfg.DBPath, err = resolveDBPath(cmd)
		if err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gateway, err := llm.NewGatewayFromConfig(ctx, cfg.LLM, st.RequestLog())
	if err != nil {
		return fmt.Errorf("configure providers: %w", err)
	}

	registry, err := spec.Load()
	if err != nil {
		return err
	}

	rt := router.New(router.NewModelClassifier(gateway), cfg.ClassifyTimeout, logger)
	orch := generate.New(registry, rt, gateway, generate.Config{
		MaxAttempts: cfg.MaxAttempts,
		CallTimeout: cfg.LLM.CallTimeout,
	}, logger)

	server := api.New(registry, orch, rt, st.Items(), cfg.Heartbeat, logger)

	logger.Info("starting service",
		"addr", cfg.Addr,
		"db", cfg.DBPath,
		"provider", cfg.LLM.Provider,
		"bundle_version", registry.BundleVersion(),
	)
	return server.Serve(ctx, cfg.Addr)
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"search-agent/internal/application/port/output"
	"search-agent/internal/di"
	"search-agent/internal/infrastructure/env"
	"search-agent/internal/infrastructure/theme"
	"search-agent/internal/infrastructure/web"

	"github.com/spf13/cobra"
)

const (
	defaultAddr            = ":8080"
	defaultShutdownTimeout = 10 * time.Second
)

func newServeCmd() *cobra.Command {
	var (
		addr      string
		themePath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			envService := env.NewEnvService()
			resolveServeFlags(cmd, envService, &addr, &themePath)
			cfg := loadConfig(envService)

			container, err := di.NewContainer(cfg)
			if err != nil {
				return fmt.Errorf("initialization failed: %w", err)
			}
			defer container.Close()

			th, err := theme.Load(themePath)
			if err != nil {
				container.Logger.Warn("Using default theme", "error", err)
			}

			webCfg := web.DefaultConfig()
			webCfg.Addr = addr
			webCfg.Theme = th
			webCfg.LogJSON = !cfg.Logger.Development
			webCfg.LogLevel = cfg.Logger.Level
			webCfg.ShutdownTimeout = envService.GetDuration("SHUTDOWN_TIMEOUT", defaultShutdownTimeout)

			server, err := web.NewServer(container.Runner, container.Logger, webCfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address (env WEB_ADDR)")
	cmd.Flags().StringVar(&themePath, "theme", theme.DefaultPath, "TOML file with a [theme] table (env THEME_FILE)")
	return cmd
}

// resolveServeFlags fills flags the user did not pass from the environment,
// which by now includes the .env files.
func resolveServeFlags(cmd *cobra.Command, cfg output.ConfigPort, addr, themePath *string) {
	if !cmd.Flags().Changed("addr") {
		*addr = cfg.GetWithDefault("WEB_ADDR", *addr)
	}
	if !cmd.Flags().Changed("theme") {
		*themePath = cfg.GetWithDefault("THEME_FILE", *themePath)
	}
}

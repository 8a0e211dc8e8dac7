package servecmder

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/bridge/pkg/config"
	"github.com/papercomputeco/bridge/pkg/logger"
	"github.com/papercomputeco/bridge/proxy"
)

const serveLongDesc string = `Run the local API server.

Configuration comes from built-in defaults, then the config file (--config
or BRIDGE_CONFIG), then environment variables, then the flags below. When a
config file is in use it is watched, and think filter changes apply to new
requests without a restart.

Examples:
  bridge serve
  bridge serve --config ~/.config/bridge/bridge.toml
  OPENAI_API_KEY=sk-... bridge serve --upstream https://api.openai.com/v1 --debug`

const serveShortDesc string = "Run the local API server"

// shutdownTimeout bounds how long in-flight requests may take to drain.
const shutdownTimeout = 10 * time.Second

type serveCommander struct {
	configPath string
	listen     string
	upstream   string
	debug      bool
	logFile    string
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "", "Path to a TOML or YAML config file")
	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", "", "Address to listen on (default \":11434\")")
	cmd.Flags().StringVarP(&cmder.upstream, "upstream", "u", "", "Base URL of the OpenAI-compatible API")
	cmd.Flags().BoolVarP(&cmder.debug, "debug", "d", false, "Enable debug logging")
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also write JSON logs to this rotated file")

	return cmd
}

// loadConfig layers explicitly set flags over the loaded config.
func (c *serveCommander) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("listen") {
		cfg.Server.Listen = c.listen
	}
	if flags.Changed("upstream") {
		cfg.Upstream.BaseURL = c.upstream
	}
	if flags.Changed("debug") {
		cfg.Log.Debug = c.debug
	}
	if flags.Changed("log-file") {
		cfg.Log.File = c.logFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func (c *serveCommander) run(ctx context.Context, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}

	log := logger.NewLogger(logger.Options{
		Debug:      cfg.Log.Debug,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Console:    cmd.OutOrStdout(),
	})
	defer func() { _ = log.Sync() }()

	log.Info("bridge starting",
		zap.String("listen", cfg.Server.Listen),
		zap.String("upstream", cfg.Upstream.BaseURL),
		zap.Bool("api_key_set", cfg.Upstream.APIKey != ""),
		zap.Bool("debug", cfg.Log.Debug),
	)

	p, err := proxy.New(proxy.ConfigFrom(cfg), log)
	if err != nil {
		return fmt.Errorf("could not create proxy: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if path := config.DiscoverFile(c.configPath); path != "" {
		go func() {
			err := config.Watch(ctx, path, log, func(next *config.Config) {
				p.SetThinkFilter(proxy.ThinkFilterFrom(next))
			})
			if err != nil {
				log.Warn("config watcher stopped", zap.Error(err))
			}
		}()
	}

	ln, err := net.Listen("tcp", cfg.Server.Listen)
	if err != nil {
		return fmt.Errorf("could not listen on %s: %w", cfg.Server.Listen, err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- p.RunWithListener(ln)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("proxy server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := p.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("could not shut down cleanly: %w", err)
	}

	return nil
}

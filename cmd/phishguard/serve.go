package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/phishguard/internal/api"
	"github.com/nao1215/phishguard/internal/classifier"
	"github.com/nao1215/phishguard/internal/config"
	"github.com/nao1215/phishguard/internal/feature"
	"github.com/nao1215/phishguard/internal/monitor"
	"github.com/nao1215/phishguard/internal/tabstate"
)

// readHeaderTimeout bounds how long a client may take to send headers.
const readHeaderTimeout = 5 * time.Second

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the companion daemon for the browser extension",
		Long: `Serve starts the local API used by the browser extension.

The extension reports completed navigations and closed tabs. Every page load
is assessed in the background; when a page looks like phishing, subscribers
of the event stream receive a notification and a request to show the
warning banner in that tab.

Endpoints:
  GET    /healthz
  POST   /api/v1/tabs/{id}/navigated
  GET    /api/v1/tabs/{id}
  DELETE /api/v1/tabs/{id}
  POST   /api/v1/check
  GET    /api/v1/features?url=...
  GET    /api/v1/events            (WebSocket)

Examples:
  # Listen on the default loopback address
  phishguard serve

  # Use a different classifier and port
  phishguard serve --classifier http://10.0.0.5:5000/predict --listen 127.0.0.1:9000`,
		RunE: runServeCmd,
	}

	addClassifierFlags(cmd)
	cmd.Flags().StringP("listen", "l", config.DefaultListenAddress,
		"Address the local API listens on")
	cmd.Flags().Bool("skip-model-check", false,
		"Do not query the classifier's model info at startup")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("listen") {
		if cfg.ListenAddress, err = flags.GetString("listen"); err != nil {
			return err
		}
	}
	if flags.Changed("skip-model-check") {
		if cfg.SkipModelCheck, err = flags.GetBool("skip-model-check"); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := setupLogger(os.Stderr, cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runServe(ctx, cfg, logger, cmd.OutOrStdout())
}

// runServe runs the daemon until ctx is cancelled.
func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	client, err := newClassifier(cfg, logger)
	if err != nil {
		return err
	}

	if !cfg.SkipModelCheck {
		if err := client.CheckCompatibility(ctx); err != nil {
			if errors.Is(err, classifier.ErrFeatureMismatch) {
				return err
			}
			// The service may come up after the daemon; classification
			// errors surface per page load instead.
			logger.Warn("classifier model check failed", "endpoint", client.Endpoint(), "error", err)
		}
	}

	newPipeline := pipelineFactory(cfg, client, logger)
	store := tabstate.New()
	hub := api.NewHub(logger)
	mon := monitor.New(store, newPipeline,
		monitor.WithPresenter(hub),
		monitor.WithLogger(logger),
		monitor.WithCheckTimeout(cfg.Timeout),
	)
	server := api.NewServer(mon, store, hub, newPipeline,
		api.WithLogger(logger),
		api.WithExtractor(feature.New(cfg.Lists)),
		api.WithMaxBodyBytes(cfg.MaxBodySize),
	)

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.ListenAddress, err)
	}

	httpServer := &http.Server{
		Handler:           server.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	fmt.Fprintf(out, "phishguard listening on http://%s\n", ln.Addr())
	logger.Info("daemon started",
		"listen", ln.Addr().String(),
		"classifier", client.Endpoint(),
		"timeout", cfg.Timeout,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		// Stop taking tab events before the monitor drains its checks.
		err := httpServer.Shutdown(shutdownCtx)
		hub.Close()
		mon.Close()
		if err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		logger.Info("daemon stopped")
		return nil
	})

	return g.Wait()
}

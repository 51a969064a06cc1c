package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nao1215/phishguard/internal/allowlist"
	"github.com/nao1215/phishguard/internal/classifier"
	"github.com/nao1215/phishguard/internal/config"
	"github.com/nao1215/phishguard/internal/feature"
	plog "github.com/nao1215/phishguard/internal/log"
	"github.com/nao1215/phishguard/internal/model"
	"github.com/nao1215/phishguard/internal/pipeline"
)

// errOffline is recorded for URLs that would need the classifier while
// running with --offline.
var errOffline = errors.New("offline mode: classifier not contacted")

// offlineClassifier never answers.
type offlineClassifier struct{}

func (offlineClassifier) Classify(context.Context, feature.Vector) (model.Verdict, error) {
	return model.VerdictError, errOffline
}

// getVerboseFlag returns the verbose flag value from persistent flags.
// Returns false if the flag cannot be retrieved.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return false
	}
	return verbose
}

// loadConfig reads the configuration file selected by --config and applies
// the classifier flags that were set explicitly on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg.Verbose = getVerboseFlag(cmd)
	if cfg.JSONLog, err = cmd.Flags().GetBool("log-json"); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("classifier") {
		if cfg.ClassifierURL, err = flags.GetString("classifier"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// addClassifierFlags registers the flags read by loadConfig.
func addClassifierFlags(cmd *cobra.Command) {
	cmd.Flags().String("classifier", config.DefaultClassifierURL,
		"Classification service endpoint")
	cmd.Flags().Duration("timeout", config.DefaultTimeout,
		"Timeout for one classification request")
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy used to reach the classifier (host:port)")
}

// setupLogger builds the secure logger writing to w.
func setupLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	if cfg.JSONLog {
		return plog.NewSecureJSONLogger(w, cfg.Verbose)
	}
	return plog.NewSecureLogger(w, cfg.Verbose)
}

// newClassifier builds the classifier client described by cfg.
func newClassifier(cfg *config.Config, logger *slog.Logger) (*classifier.Client, error) {
	opts := []classifier.Option{
		classifier.WithTimeout(cfg.Timeout),
		classifier.WithLogger(logger),
	}
	if cfg.ProxyAddress != "" {
		opts = append(opts, classifier.WithProxy(cfg.ProxyAddress))
	}
	if cfg.ModelInfoURL != "" {
		opts = append(opts, classifier.WithModelInfoURL(cfg.ModelInfoURL))
	}

	c, err := classifier.New(cfg.ClassifierURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, cfg.ClassifierURL)
	}
	return c, nil
}

// pipelineFactory returns a constructor for the standard assessment
// pipeline. The allowlist and extractor are immutable and shared.
func pipelineFactory(cfg *config.Config, c pipeline.Classifier, logger *slog.Logger) func() *pipeline.Pipeline {
	al := allowlist.New(cfg.Allowlist)
	ex := feature.New(cfg.Lists)
	return func() *pipeline.Pipeline {
		return pipeline.NewStandard(al, ex, c, pipeline.WithLogger(logger))
	}
}

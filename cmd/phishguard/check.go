package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/phishguard/internal/config"
	"github.com/nao1215/phishguard/internal/model"
	"github.com/nao1215/phishguard/internal/pipeline"
	"github.com/nao1215/phishguard/internal/report"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [url]...",
		Short: "Assess URLs for phishing from the command line",
		Long: `Check runs URLs through the same assessment as the daemon:
allowlist lookup, feature extraction and classification.

URLs are read from the arguments and from the file given with --list
(one URL per line, "#" starts a comment). Use "-" to read the list from
standard input.

Examples:
  # Check a single URL
  phishguard check http://192.168.1.1/login

  # Check many URLs, 20 at a time, as JSON
  phishguard check --list urls.txt --batch 20 --json

  # Show only the allowlist and feature results, without the classifier
  phishguard check --offline -v https://mail.google.com/

  # Write a Markdown report
  phishguard check --list urls.txt --markdown -o report.md`,
		RunE: runCheckCmd,
	}

	addClassifierFlags(cmd)
	cmd.Flags().StringP("list", "L", "", "File with one URL per line (\"-\" for stdin)")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize, "Number of URLs assessed concurrently")
	cmd.Flags().Bool("offline", false, "Do not contact the classifier")
	cmd.Flags().BoolP("json", "j", false, "Output report in JSON format")
	cmd.Flags().BoolP("markdown", "m", false, "Output report in Markdown format")
	cmd.Flags().StringP("output", "o", "", "Write report to file instead of stdout")

	return cmd
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildCheckConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.ValidateTargets(); err != nil {
		return err
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg)

	assessments, err := runCheck(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	return outputReport(cfg, assessments, cmd.OutOrStdout())
}

// buildCheckConfig merges the configuration file with the check flags.
func buildCheckConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
		return nil, err
	}
	if cfg.Offline, err = flags.GetBool("offline"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}

	cfg.Targets = append(cfg.Targets, args...)

	listPath, err := flags.GetString("list")
	if err != nil {
		return nil, err
	}
	if listPath != "" {
		urls, err := readURLList(cmd.InOrStdin(), listPath)
		if err != nil {
			return nil, err
		}
		cfg.Targets = append(cfg.Targets, urls...)
	}

	return cfg, nil
}

// readURLList reads URLs from path, or from stdin when path is "-".
func readURLList(stdin io.Reader, path string) ([]string, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("failed to open URL list: %w", err)
		}
		defer f.Close()
		r = f
	}

	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URL list: %w", err)
	}
	return urls, nil
}

// runCheck assesses every target and returns the assessments in input order.
func runCheck(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]*model.Assessment, error) {
	var c pipeline.Classifier = offlineClassifier{}
	if !cfg.Offline {
		client, err := newClassifier(cfg, logger)
		if err != nil {
			return nil, err
		}
		c = client
	}

	bp := pipeline.NewBatchProcessor(
		pipelineFactory(cfg, c, logger),
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)
	return bp.ProcessBatch(ctx, cfg.Targets)
}

// outputReport writes the assessments in the configured format to the
// report file, or to stdout when no file is configured.
func outputReport(cfg *config.Config, assessments []*model.Assessment, stdout io.Writer) error {
	output := stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports list visited URLs, so only the owner may read them.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := writer.Write(assessments)
	return err
}

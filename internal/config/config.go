package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/phishguard/internal/allowlist"
	"github.com/nao1215/phishguard/internal/classifier"
	"github.com/nao1215/phishguard/internal/feature"
)

// Default configuration values.
const (
	// DefaultClassifierURL is the prediction endpoint of the bundled
	// Flask service.
	DefaultClassifierURL = "http://127.0.0.1:5000/predict"

	// DefaultTimeout bounds one classifier round trip.
	DefaultTimeout = classifier.DefaultTimeout

	// DefaultListenAddress is where the daemon accepts extension requests.
	// It binds to loopback only: the API carries browsing history.
	DefaultListenAddress = "127.0.0.1:8765"

	// DefaultBatchSize is the number of URLs the check command assesses at once.
	DefaultBatchSize = 10

	// DefaultMaxBodySize limits request bodies accepted by the daemon.
	DefaultMaxBodySize = 64 * 1024

	// DefaultShutdownTimeout bounds graceful shutdown of the daemon.
	DefaultShutdownTimeout = 5 * time.Second

	// AppName is the application name used for XDG directory paths.
	AppName = "phishguard"
)

// Config holds all configuration options for phishguard.
// It is populated from the config file first and from CLI flags second.
type Config struct {
	// ClassifierURL is the POST endpoint that answers {"prediction": 0|1}.
	ClassifierURL string

	// ModelInfoURL overrides the diagnostic endpoint. When empty it is
	// derived from ClassifierURL.
	ModelInfoURL string

	// Timeout bounds each classifier request.
	Timeout time.Duration

	// ProxyAddress is an optional SOCKS5 proxy ("host:port") used to reach
	// the classifier.
	ProxyAddress string

	// ListenAddress is the daemon's HTTP listen address.
	ListenAddress string

	// MaxBodySize caps request bodies accepted by the daemon.
	MaxBodySize int64

	// ShutdownTimeout bounds graceful shutdown of the daemon.
	ShutdownTimeout time.Duration

	// SkipModelCheck disables the startup compatibility probe against
	// the classifier's /model_info endpoint.
	SkipModelCheck bool

	// Allowlist holds the trusted domains. Matching includes subdomains.
	Allowlist []string

	// Lists are the word lists for the feature extractor.
	Lists feature.Lists

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// JSONLog switches log output to JSON lines.
	JSONLog bool

	// BatchSize is the number of concurrent assessments in the check command.
	BatchSize int

	// Offline makes the check command skip the classifier. URLs that are
	// not allowlisted end with an error verdict.
	Offline bool

	// JSONReport enables JSON report output. Mutually exclusive with
	// MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output. Mutually exclusive
	// with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When empty the report goes to stdout.
	ReportFile string

	// ConfigFilePath is the path to the configuration file.
	// If empty, FindConfigFile searches the usual locations.
	ConfigFilePath string

	// Targets is the list of URLs for the check command.
	Targets []string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		ClassifierURL:   DefaultClassifierURL,
		Timeout:         DefaultTimeout,
		ListenAddress:   DefaultListenAddress,
		MaxBodySize:     DefaultMaxBodySize,
		ShutdownTimeout: DefaultShutdownTimeout,
		BatchSize:       DefaultBatchSize,
		Allowlist:       append([]string(nil), allowlist.DefaultDomains...),
		Lists:           feature.DefaultLists(),
	}
}

// XDGConfigDir returns the XDG config directory for phishguard.
// On Linux: ~/.config/phishguard
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGConfigFile returns the config file path inside XDGConfigDir.
func XDGConfigFile() string {
	return filepath.Join(XDGConfigDir(), "config.yaml")
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the package's sentinel errors.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ClassifierURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidClassifierURL
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.ListenAddress == "" {
		return ErrEmptyListenAddress
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}

// ValidateTargets additionally requires at least one target URL.
func (c *Config) ValidateTargets() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	return c.Validate()
}

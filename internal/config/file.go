package config

import (
	"time"

	"github.com/nao1215/phishguard/internal/feature"
)

// ClassifierSection configures the classifier client.
type ClassifierSection struct {
	URL          string        `yaml:"url,omitempty"`
	ModelInfoURL string        `yaml:"modelInfoUrl,omitempty"`
	Timeout      time.Duration `yaml:"timeout,omitempty"`
	Proxy        string        `yaml:"proxy,omitempty"`
	// SkipModelCheck disables the startup probe of /model_info.
	SkipModelCheck bool `yaml:"skipModelCheck,omitempty"`
}

// ServerSection configures the daemon's HTTP listener.
type ServerSection struct {
	Listen      string `yaml:"listen,omitempty"`
	MaxBodySize int64  `yaml:"maxBodySize,omitempty"`
}

// File represents the structure of the .phishguard configuration file.
type File struct {
	Classifier ClassifierSection `yaml:"classifier,omitempty"`
	Server     ServerSection     `yaml:"server,omitempty"`

	// Allowlist replaces the built-in trusted domains when non-empty.
	Allowlist []string `yaml:"allowlist,omitempty"`

	// Lists replace the corresponding default word lists. Lists left out
	// keep their defaults.
	Lists feature.Lists `yaml:"lists,omitempty"`
}

// Apply copies the values set in the file onto c. Zero values are skipped
// so unset keys keep the defaults.
func (cf *File) Apply(c *Config) {
	if cf == nil {
		return
	}

	if cf.Classifier.URL != "" {
		c.ClassifierURL = cf.Classifier.URL
	}
	if cf.Classifier.ModelInfoURL != "" {
		c.ModelInfoURL = cf.Classifier.ModelInfoURL
	}
	if cf.Classifier.Timeout > 0 {
		c.Timeout = cf.Classifier.Timeout
	}
	if cf.Classifier.Proxy != "" {
		c.ProxyAddress = cf.Classifier.Proxy
	}
	if cf.Classifier.SkipModelCheck {
		c.SkipModelCheck = true
	}

	if cf.Server.Listen != "" {
		c.ListenAddress = cf.Server.Listen
	}
	if cf.Server.MaxBodySize > 0 {
		c.MaxBodySize = cf.Server.MaxBodySize
	}

	if len(cf.Allowlist) > 0 {
		c.Allowlist = append([]string(nil), cf.Allowlist...)
	}
	c.Lists = cf.Lists.Merge(c.Lists)
}

package soap

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConnectTimeout = 20 * time.Second
	DefaultReadTimeout    = 60 * time.Second
)

// ClientConfig holds the connection details for a SPIRE SOAP endpoint.
// Zero timeouts fall back to DefaultConnectTimeout and DefaultReadTimeout.
type ClientConfig struct {
	Username       string        `yaml:"username" envconfig:"USERNAME"`
	Password       string        `yaml:"password" envconfig:"PASSWORD"`
	URL            string        `yaml:"url" envconfig:"URL"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" envconfig:"CONNECT_TIMEOUT"`
	ReadTimeout    time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
}

func (c ClientConfig) withDefaults() ClientConfig {
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	return c
}

func (c ClientConfig) validate() error {
	if c.URL == "" {
		return fmt.Errorf("url is required")
	}
	return nil
}

// LoadClientConfig reads a ClientConfig from environment variables named
// <prefix>_USERNAME, <prefix>_PASSWORD, <prefix>_URL, <prefix>_CONNECT_TIMEOUT
// and <prefix>_READ_TIMEOUT.
func LoadClientConfig(prefix string) (ClientConfig, error) {
	var cfg ClientConfig
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return ClientConfig{}, fmt.Errorf("failed to process environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return ClientConfig{}, err
	}
	return cfg.withDefaults(), nil
}

// LoadClientConfigFile reads a YAML file and then applies environment
// overrides using prefix. An empty prefix skips the environment.
func LoadClientConfigFile(path, prefix string) (ClientConfig, error) {
	var cfg ClientConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return ClientConfig{}, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ClientConfig{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	if prefix != "" {
		if err := envconfig.Process(prefix, &cfg); err != nil {
			return ClientConfig{}, fmt.Errorf("failed to process environment: %w", err)
		}
	}
	if err := cfg.validate(); err != nil {
		return ClientConfig{}, err
	}
	return cfg.withDefaults(), nil
}

// RequestConfig describes one remote operation: the namespace segment used
// both as URL suffix and XML namespace, and the body's payload element.
type RequestConfig struct {
	Namespace          string
	RequestChildName   string
	UseNamespacePrefix bool
}

package opensearch

import (
	"errors"
	"strings"
	"time"
)

// Config holds connection settings for an OpenSearch index.
type Config struct {
	// Addresses lists cluster nodes. Entries without a scheme get http://.
	// Example: "localhost:9200", "https://search.internal:9200"
	Addresses []string

	// Index is the target index name.
	Index string

	// Username and Password enable HTTP basic auth when Username is set.
	Username string
	Password string

	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool

	// CompressRequestBody gzips request bodies.
	CompressRequestBody bool

	// Timeout bounds each request.
	Timeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithAddresses sets the cluster addresses.
func WithAddresses(addrs ...string) ConfigOption {
	return func(c *Config) {
		c.Addresses = addrs
	}
}

// WithIndex sets the target index.
func WithIndex(index string) ConfigOption {
	return func(c *Config) {
		c.Index = index
	}
}

// WithBasicAuth sets basic auth credentials.
func WithBasicAuth(username, password string) ConfigOption {
	return func(c *Config) {
		c.Username = username
		c.Password = password
	}
}

// WithInsecureSkipVerify toggles TLS certificate verification.
func WithInsecureSkipVerify(skip bool) ConfigOption {
	return func(c *Config) {
		c.InsecureSkipVerify = skip
	}
}

// WithCompression toggles request body compression.
func WithCompression(enabled bool) ConfigOption {
	return func(c *Config) {
		c.CompressRequestBody = enabled
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// DefaultConfig returns a Config for a local single-node cluster.
func DefaultConfig() *Config {
	return &Config{
		Addresses:           []string{"http://localhost:9200"},
		Index:               "lexora_support",
		InsecureSkipVerify:  true,
		CompressRequestBody: true,
		Timeout:             60 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// NormalizeAddress adds an http:// scheme to a bare host[:port] and trims trailing slashes.
func NormalizeAddress(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return ""
	}
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "http://" + addr
	}
	return strings.TrimRight(addr, "/")
}

// Normalize puts every address in canonical form and drops empty entries.
func (c *Config) Normalize() {
	addrs := make([]string, 0, len(c.Addresses))
	for _, a := range c.Addresses {
		if n := NormalizeAddress(a); n != "" {
			addrs = append(addrs, n)
		}
	}
	c.Addresses = addrs
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if len(c.Addresses) == 0 {
		return errors.New("opensearch config: at least one address is required")
	}
	if c.Index == "" {
		return errors.New("opensearch config: Index is required")
	}
	if c.Timeout <= 0 {
		return errors.New("opensearch config: Timeout must be positive")
	}
	return nil
}

package jsonquery

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultTimeout is the request timeout of the stock HTTP transport,
	// see [ClientConfig.Timeout].
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent is sent when [ClientConfig.UserAgent] is empty.
	DefaultUserAgent = "jsonquery/1.0"
)

// ClientConfig holds configuration parameters for creating a [Client].
// It can be written in YAML and read with [LoadClientConfig]:
//
//	timeout: 10s
//	max_in_flight: 8
//	user_agent: my-app/2.1
//	headers:
//	  X-Api-Key: secret
//	rate_limit: 20
//	burst: 5
//	content_root: ./Content
//	project_root: .
//	allow_comments: true
type ClientConfig struct {
	// Headers are added to every request.
	Headers map[string]string `yaml:"headers"`

	// UserAgent is sent with every request. Defaults to [DefaultUserAgent].
	UserAgent string `yaml:"user_agent"`

	// ContentRoot and ProjectRoot configure the [Loader] returned by
	// [ClientConfig.Loader]. Empty entries fall back to [DefaultDirs].
	ContentRoot string `yaml:"content_root"`
	ProjectRoot string `yaml:"project_root"`

	// Timeout bounds a whole exchange on the stock HTTP transport built by
	// [NewClient]. Defaults to [DefaultTimeout] if zero; negative disables it.
	Timeout time.Duration `yaml:"timeout"`

	// RateLimit caps dispatched requests per second. Zero disables limiting.
	RateLimit float64 `yaml:"rate_limit"`

	// Burst is the rate limiter bucket size. Defaults to 1.
	Burst int `yaml:"burst"`

	// MaxInFlight bounds how many requests may be on the wire at once; further
	// calls wait on their own goroutine. If zero or negative, it defaults to
	// `min(runtime.NumCPU(), runtime.GOMAXPROCS(-1)) * 2`.
	MaxInFlight int32 `yaml:"max_in_flight"`

	// AllowComments lets the [Loader] accept comments and trailing commas.
	AllowComments bool `yaml:"allow_comments"`
}

// LoadClientConfig reads a YAML [ClientConfig] from path. Unknown keys are
// rejected. An empty file yields the zero config.
func LoadClientConfig(path string) (ClientConfig, error) {
	var config ClientConfig

	data, err := readWholeFile(path)
	if err != nil {
		return config, fmt.Errorf("jsonquery: failed to read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return ClientConfig{}, fmt.Errorf("jsonquery: failed to parse config %s: %w", path, err)
	}

	return config, config.validate()
}

func (c ClientConfig) validate() error {
	if c.RateLimit < 0 {
		return fmt.Errorf("%w: rate_limit must not be negative, got %v", ErrInvalidArgument, c.RateLimit)
	}

	if c.Burst < 0 {
		return fmt.Errorf("%w: burst must not be negative, got %d", ErrInvalidArgument, c.Burst)
	}

	return nil
}

// withDefaults fills in zero values.
func (c ClientConfig) withDefaults() ClientConfig {
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}

	if c.Timeout < 0 {
		c.Timeout = 0
	}

	if c.MaxInFlight <= 0 {
		//nolint:gosec,mnd //How many cpus do you think we have? Puddle requires int32.
		c.MaxInFlight = int32(min(runtime.NumCPU(), runtime.GOMAXPROCS(-1)) * 2)
	}

	if c.Burst <= 0 {
		c.Burst = 1
	}

	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}

	return c
}

// Dirs returns the configured base directories. An empty ProjectRoot falls
// back to [DefaultDirs]; an empty ContentRoot means "Content" under the project root.
func (c ClientConfig) Dirs() Dirs {
	dirs := DefaultDirs()

	if c.ProjectRoot != "" {
		dirs.Project = c.ProjectRoot
		dirs.Content = filepath.Join(c.ProjectRoot, "Content")
	}

	if c.ContentRoot != "" {
		dirs.Content = c.ContentRoot
	}

	return dirs
}

// Loader returns a [Loader] configured from c.
func (c ClientConfig) Loader() *Loader {
	return &Loader{Resolver: c.Dirs(), AllowComments: c.AllowComments}
}

package config

import (
	"github.com/creasty/defaults"
	"github.com/spf13/viper"
)

type ConfigurationOption func(c *Configuration)

// NewConfigurationWithOptions creates a new Configuration with the passed in options set
func NewConfigurationWithOptions(opts ...ConfigurationOption) *Configuration {
	c := &Configuration{}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NewConfigurationWithOptionsAndDefaults creates a new Configuration with the passed in options set starting from the defaults
func NewConfigurationWithOptionsAndDefaults(opts ...ConfigurationOption) *Configuration {
	c := &Configuration{}
	defaults.MustSet(c)
	for _, o := range opts {
		o(c)
	}
	return c
}

// WithScheduler returns an option that can set Scheduler on a Configuration
func WithScheduler(scheduler Scheduler) ConfigurationOption {
	return func(c *Configuration) {
		c.Scheduler = scheduler
	}
}

// WithStore returns an option that can set Store on a Configuration
func WithStore(store Store) ConfigurationOption {
	return func(c *Configuration) {
		c.Store = store
	}
}

// WithServer returns an option that can set Server on a Configuration
func WithServer(server Server) ConfigurationOption {
	return func(c *Configuration) {
		c.Server = server
	}
}

// WithLogFormat returns an option that can set LogFormat on a Configuration
func WithLogFormat(logFormat string) ConfigurationOption {
	return func(c *Configuration) {
		c.LogFormat = logFormat
	}
}

// WithLogLevel returns an option that can set LogLevel on a Configuration
func WithLogLevel(logLevel string) ConfigurationOption {
	return func(c *Configuration) {
		c.LogLevel = logLevel
	}
}

// DebugMap returns a map form of Configuration for debugging
func (c *Configuration) DebugMap() map[string]any {
	return map[string]any{
		"Scheduler": map[string]any{
			"Concurrency": c.Scheduler.Concurrency,
			"JobTimeout":  c.Scheduler.JobTimeout.String(),
		},
		"Store": map[string]any{
			"Path": c.Store.Path,
		},
		"Server": map[string]any{
			"ServerMode": c.Server.ServerMode,
			"HTTPPort":   c.Server.HTTPPort,
		},
		"LogFormat": c.LogFormat,
		"LogLevel":  c.LogLevel,
	}
}

// Load starts from the defaults, overlays every key known to v and validates the result.
func Load(v *viper.Viper) (*Configuration, error) {
	c := NewConfigurationWithOptionsAndDefaults()
	if err := v.Unmarshal(c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

package config

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap/zapcore"
)

const (
	ServerModeDev  = "dev"
	ServerModeProd = "prod"

	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

type Configuration struct {
	Scheduler Scheduler `mapstructure:"scheduler"`
	Store     Store     `mapstructure:"store"`
	Server    Server    `mapstructure:"server"`
	LogFormat string    `mapstructure:"log-format" default:"console"`
	LogLevel  string    `mapstructure:"log-level" default:"info"`
}

type Scheduler struct {
	// Concurrency is the number of jobs allowed to run at once.
	Concurrency int `mapstructure:"concurrency" default:"3"`
	// JobTimeout bounds each job. Zero means no timeout.
	JobTimeout time.Duration `mapstructure:"job-timeout" default:"0s"`
}

type Store struct {
	// Path of the DuckDB file. ":memory:" keeps history in memory only.
	Path string `mapstructure:"path" default:":memory:"`
}

type Server struct {
	ServerMode string `mapstructure:"mode" default:"dev"`
	HTTPPort   int    `mapstructure:"http-port" default:"8000"`
}

func (c *Configuration) Validate() error {
	var errs []error

	if c.Scheduler.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("scheduler concurrency must be positive, got %d", c.Scheduler.Concurrency))
	}
	if c.Scheduler.JobTimeout < 0 {
		errs = append(errs, fmt.Errorf("job timeout cannot be negative, got %s", c.Scheduler.JobTimeout))
	}
	if c.Store.Path == "" {
		errs = append(errs, errors.New("store path is empty"))
	}
	if c.Server.ServerMode != ServerModeDev && c.Server.ServerMode != ServerModeProd {
		errs = append(errs, fmt.Errorf("invalid server mode %q: must be %q or %q", c.Server.ServerMode, ServerModeDev, ServerModeProd))
	}
	if c.Server.HTTPPort < 1 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid http port %d", c.Server.HTTPPort))
	}
	if c.LogFormat != LogFormatConsole && c.LogFormat != LogFormatJSON {
		errs = append(errs, fmt.Errorf("invalid log format %q: must be %q or %q", c.LogFormat, LogFormatConsole, LogFormatJSON))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid log level: %w", err))
	}

	return errors.Join(errs...)
}

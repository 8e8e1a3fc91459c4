// Package config defines the configuration structure for the job runner.
//
// # Configuration Structure
//
//	Configuration
//	├── Scheduler      - Worker pool settings
//	├── Store          - Run/result history database
//	├── Server         - HTTP server settings
//	├── LogFormat      - Logging format
//	└── LogLevel       - Logging verbosity
//
// # Scheduler Configuration
//
//	┌──────────────────┬─────────┬──────────────────────────────────────────┐
//	│ Field            │ Default │ Description                              │
//	├──────────────────┼─────────┼──────────────────────────────────────────┤
//	│ Concurrency      │ 3       │ Jobs allowed to run at the same time     │
//	│ JobTimeout       │ 0s      │ Per-job deadline, 0 disables it          │
//	└──────────────────┴─────────┴──────────────────────────────────────────┘
//
// # Store Configuration
//
//	┌──────────────────┬────────────┬───────────────────────────────────────┐
//	│ Field            │ Default    │ Description                           │
//	├──────────────────┼────────────┼───────────────────────────────────────┤
//	│ Path             │ ":memory:" │ DuckDB file holding runs and results  │
//	└──────────────────┴────────────┴───────────────────────────────────────┘
//
// # Server Configuration
//
//	┌──────────────────┬─────────┬────────────────────────────────────────┐
//	│ Field            │ Default │ Description                            │
//	├──────────────────┼─────────┼────────────────────────────────────────┤
//	│ ServerMode       │ "dev"   │ Server mode: "prod" or "dev"           │
//	│ HTTPPort         │ 8000    │ HTTP server listen port                │
//	└──────────────────┴─────────┴────────────────────────────────────────┘
//
// # Sources
//
// Defaults come from the `default` struct tags (creasty/defaults). Load
// overlays every key viper knows about: config file, JOBRUNNER_* environment
// variables and command line flags. Keys use the mapstructure tags, for
// example "scheduler.concurrency" or "store.path".
//
// # Usage Example
//
//	cfg := config.NewConfigurationWithOptionsAndDefaults(
//	    config.WithScheduler(config.Scheduler{Concurrency: 5}),
//	    config.WithLogLevel("debug"),
//	)
//
// # Debug Logging
//
//	log.Info("configuration loaded", zap.Any("config", cfg.DebugMap()))
package config

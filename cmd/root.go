// Package cmd holds the jobrunner command line.
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/kubev2v/jobrunner/internal/config"
	"github.com/kubev2v/jobrunner/internal/jobs"
	"github.com/kubev2v/jobrunner/internal/logger"
	"github.com/kubev2v/jobrunner/internal/store"
	"github.com/kubev2v/jobrunner/pkg/registry"
)

const envPrefix = "JOBRUNNER"

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"log-level":   "log-level",
	"log-format":  "log-format",
	"db":          "store.path",
	"concurrency": "scheduler.concurrency",
	"job-timeout": "scheduler.job-timeout",
	"http-port":   "server.http-port",
	"server-mode": "server.mode",
}

// app carries what the persistent pre-run prepares for subcommands.
type app struct {
	v           *viper.Viper
	configFile  string
	cfg         *config.Configuration
	closeLogger func()
}

func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}
	defaults := a.defaults()

	root := &cobra.Command{
		Use:           "jobrunner",
		Short:         "Drain a queue of typed jobs with a bounded pool of workers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: cobrautil.CommandStack(
			cobrautil.SyncViperPreRunE(envPrefix),
			a.load,
		),
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.closeLogger != nil {
				a.closeLogger()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "path to a YAML or JSON configuration file")
	pf.String("log-level", defaults.LogLevel, "log level (debug, info, warn, error)")
	pf.String("log-format", defaults.LogFormat, "log format (console or json)")
	pf.String("db", defaults.Store.Path, `DuckDB file holding runs and results (":memory:" keeps nothing)`)

	root.AddCommand(
		newRunCommand(a),
		newServeCommand(a),
		newResultsCommand(a),
	)

	return root
}

// defaults is used for flag defaults so that --help shows the effective values.
func (a *app) defaults() *config.Configuration {
	return config.NewConfigurationWithOptionsAndDefaults()
}

// load merges defaults, config file, environment and flags, then installs the logger.
func (a *app) load(cmd *cobra.Command, _ []string) error {
	v := a.v
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			_ = v.BindPFlag(key, f)
		}
	})

	if a.configFile != "" {
		v.SetConfigFile(a.configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	closeLogger, err := logger.Init(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return err
	}
	a.closeLogger = closeLogger

	zap.S().Named("cmd").Debugw("configuration loaded", "config", cfg.DebugMap())
	return nil
}

func openStore(ctx context.Context, cfg *config.Configuration) (*store.Store, error) {
	db, err := store.NewDB(cfg.Store.Path)
	if err != nil {
		return nil, err
	}

	st := store.NewStore(db)
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return st, nil
}

func newRegistry() *registry.Registry {
	reg := registry.NewRegistry()
	jobs.NewSimulator().Register(reg)
	return reg
}

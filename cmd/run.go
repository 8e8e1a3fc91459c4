package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kubev2v/jobrunner/internal/jobs"
	"github.com/kubev2v/jobrunner/internal/report"
	"github.com/kubev2v/jobrunner/internal/services"
)

func newRunCommand(a *app) *cobra.Command {
	var (
		jobsFile string
		xlsxPath string
	)

	defaults := a.defaults()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Drain a batch of jobs and print one result per job",
		Long: `Drain a batch of jobs and print one result per job.

Without --jobs-file the built-in demo batch is used: three email jobs and two
data jobs, one of which (record 14) fails validation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			batch := jobs.DemoBatch()
			if jobsFile != "" {
				var err error
				if batch, err = jobs.LoadFile(jobsFile); err != nil {
					return err
				}
			}

			st, err := openStore(ctx, a.cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			runner := services.NewRunnerService(newRegistry(), st, a.cfg.Scheduler)
			defer runner.Close()

			run, results, err := runner.Run(ctx, services.RunRequest{Jobs: batch})
			if err != nil {
				return err
			}

			report.WriteTable(cmd.OutOrStdout(), *run, results)

			if xlsxPath != "" {
				if err := report.SaveXLSX(xlsxPath, *run, results); err != nil {
					return err
				}
				zap.S().Named("cmd").Infow("results exported", "path", xlsxPath)
			}

			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&jobsFile, "jobs-file", "", "YAML or JSON file with the jobs to run")
	f.StringVar(&xlsxPath, "xlsx", "", "also write the results to this xlsx file")
	f.Int("concurrency", defaults.Scheduler.Concurrency, "number of jobs allowed to run at once")
	f.Duration("job-timeout", defaults.Scheduler.JobTimeout, "per-job timeout, 0 disables it")

	return cmd
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	v1 "github.com/kubev2v/jobrunner/api/v1"
	"github.com/kubev2v/jobrunner/internal/models"
	"github.com/kubev2v/jobrunner/internal/report"
	"github.com/kubev2v/jobrunner/internal/services"
)

func newResultsCommand(a *app) *cobra.Command {
	var (
		runID    string
		status   string
		jobType  string
		limit    uint64
		offset   uint64
		xlsxPath string
	)

	cmd := &cobra.Command{
		Use:   "results",
		Short: "List stored runs, or the results of one run",
		Example: `  jobrunner results --db runs.duckdb
  jobrunner results --db runs.duckdb --run <id> --status rejected`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			st, err := openStore(ctx, a.cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			runner := services.NewRunnerService(newRegistry(), st, a.cfg.Scheduler)
			defer runner.Close()

			if runID == "" {
				runs, err := runner.List(ctx)
				if err != nil {
					return err
				}
				report.WriteRuns(cmd.OutOrStdout(), runs)
				return nil
			}

			filter := services.ResultFilter{Limit: limit, Offset: offset}
			if status != "" {
				s, ok := v1.ParseJobResultStatus(status)
				if !ok {
					return fmt.Errorf("invalid status %q: must be %q or %q", status, models.JobStatusFulfilled, models.JobStatusRejected)
				}
				filter.Statuses = []models.JobStatus{s}
			}
			if jobType != "" {
				filter.Types = []string{jobType}
			}

			run, err := runner.Get(ctx, runID)
			if err != nil {
				return err
			}
			results, err := runner.Results(ctx, runID, filter)
			if err != nil {
				return err
			}

			report.WriteTable(cmd.OutOrStdout(), *run, results)

			if xlsxPath != "" {
				return report.SaveXLSX(xlsxPath, *run, results)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&runID, "run", "", "run id; lists runs when empty")
	f.StringVar(&status, "status", "", "only results with this status (fulfilled or rejected)")
	f.StringVar(&jobType, "type", "", "only results of this job type")
	f.Uint64Var(&limit, "limit", 0, "maximum number of results, 0 for all")
	f.Uint64Var(&offset, "offset", 0, "number of results to skip")
	f.StringVar(&xlsxPath, "xlsx", "", "also write the results to this xlsx file")

	return cmd
}

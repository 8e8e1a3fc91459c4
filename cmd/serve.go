package cmd

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	v1 "github.com/kubev2v/jobrunner/api/v1"
	"github.com/kubev2v/jobrunner/internal/handlers"
	"github.com/kubev2v/jobrunner/internal/server"
	"github.com/kubev2v/jobrunner/internal/services"
)

const shutdownTimeout = 30 * time.Second

func newServeCommand(a *app) *cobra.Command {
	defaults := a.defaults()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API for submitting runs and reading results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			st, err := openStore(ctx, a.cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			runner := services.NewRunnerService(newRegistry(), st, a.cfg.Scheduler)
			h := handlers.New(runner)

			srv, err := server.NewServer(a.cfg, func(router *gin.RouterGroup) {
				v1.RegisterHandlers(router, h)
			})
			if err != nil {
				return err
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return srv.Start(gctx)
			})
			g.Go(func() error {
				<-gctx.Done()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()

				err := srv.Stop(shutdownCtx)
				runner.Close()
				return err
			})

			return g.Wait()
		},
	}

	f := cmd.Flags()
	f.Int("http-port", defaults.Server.HTTPPort, "HTTP listen port")
	f.String("server-mode", defaults.Server.ServerMode, "server mode (dev or prod)")
	f.Int("concurrency", defaults.Scheduler.Concurrency, "default number of jobs allowed to run at once per run")
	f.Duration("job-timeout", defaults.Scheduler.JobTimeout, "per-job timeout, 0 disables it")

	return cmd
}

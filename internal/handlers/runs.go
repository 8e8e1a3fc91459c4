package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/kubev2v/jobrunner/api/v1"
	"github.com/kubev2v/jobrunner/internal/models"
	"github.com/kubev2v/jobrunner/internal/services"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// CreateRun submits a batch of jobs and returns the run without waiting
// (POST /runs)
func (h *Handler) CreateRun(c *gin.Context) {
	var req v1.RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, v1.Error{Error: "invalid request body: " + err.Error()})
		return
	}
	if len(req.Jobs) == 0 {
		c.JSON(http.StatusBadRequest, v1.Error{Error: "jobs is empty"})
		return
	}

	run, err := h.runnerSrv.Submit(c.Request.Context(), services.RunRequest{
		Concurrency: req.Concurrency,
		Jobs:        req.ToModel(),
	})
	if errors.Is(err, services.ErrServiceClosed) {
		c.JSON(http.StatusServiceUnavailable, v1.Error{Error: err.Error()})
		return
	}
	if err != nil {
		abort(c, "failed to submit run", err)
		return
	}

	c.JSON(http.StatusAccepted, v1.NewRunFromModel(*run))
}

// ListRuns returns every run, newest first
// (GET /runs)
func (h *Handler) ListRuns(c *gin.Context) {
	runs, err := h.runnerSrv.List(c.Request.Context())
	if err != nil {
		abort(c, "failed to list runs", err)
		return
	}

	resp := v1.RunList{Runs: make([]v1.Run, 0, len(runs))}
	for _, r := range runs {
		resp.Runs = append(resp.Runs, v1.NewRunFromModel(r))
	}

	c.JSON(http.StatusOK, resp)
}

// GetRun returns a run with live counters when it is still executing
// (GET /runs/{id})
func (h *Handler) GetRun(c *gin.Context, id string) {
	run, err := h.runnerSrv.Get(c.Request.Context(), id)
	if err != nil {
		abort(c, "failed to get run", err)
		return
	}

	c.JSON(http.StatusOK, v1.NewRunFromModel(*run))
}

// GetRunResults returns one page of the recorded results of a run
// (GET /runs/{id}/results)
func (h *Handler) GetRunResults(c *gin.Context, id string, params v1.GetRunResultsParams) {
	var filter services.ResultFilter

	if params.Status != nil {
		status, ok := v1.ParseJobResultStatus(*params.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, v1.Error{Error: "invalid status: " + *params.Status})
			return
		}
		filter.Statuses = []models.JobStatus{status}
	}
	if params.Type != nil {
		filter.Types = []string{*params.Type}
	}
	filter.Limit = defaultPageSize
	if params.Limit != nil && *params.Limit > 0 {
		filter.Limit = min(*params.Limit, maxPageSize)
	}
	if params.Offset != nil {
		filter.Offset = *params.Offset
	}

	results, err := h.runnerSrv.Results(c.Request.Context(), id, filter)
	if err != nil {
		abort(c, "failed to list results", err)
		return
	}

	resp := v1.JobResultList{RunId: id, Results: make([]v1.JobResult, 0, len(results))}
	for _, r := range results {
		resp.Results = append(resp.Results, v1.NewJobResultFromModel(r))
	}

	c.JSON(http.StatusOK, resp)
}

// StopRun stops admission on a live run
// (POST /runs/{id}/stop)
func (h *Handler) StopRun(c *gin.Context, id string) {
	if err := h.runnerSrv.Stop(id); err != nil {
		abort(c, "failed to stop run", err)
		return
	}

	c.Status(http.StatusAccepted)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/jobrunner/api/v1"
	"github.com/kubev2v/jobrunner/internal/services"
	srvErrors "github.com/kubev2v/jobrunner/pkg/errors"
)

type Handler struct {
	runnerSrv *services.RunnerService
}

func New(runnerSrv *services.RunnerService) *Handler {
	return &Handler{
		runnerSrv: runnerSrv,
	}
}

var _ v1.ServerInterface = (*Handler)(nil)

// abort maps a service error to its HTTP status.
func abort(c *gin.Context, msg string, err error) {
	switch {
	case srvErrors.IsResourceNotFoundError(err):
		c.JSON(http.StatusNotFound, v1.Error{Error: err.Error()})
	case srvErrors.IsInvalidJobError(err):
		c.JSON(http.StatusBadRequest, v1.Error{Error: err.Error()})
	default:
		zap.S().Named("handlers").Errorw(msg, "error", err)
		c.JSON(http.StatusInternalServerError, v1.Error{Error: msg})
	}
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/kubev2v/jobrunner/api/v1"
)

// ListJobTypes returns the registered job types
// (GET /jobs/types)
func (h *Handler) ListJobTypes(c *gin.Context) {
	c.JSON(http.StatusOK, v1.JobTypes{Types: h.runnerSrv.Types()})
}

package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface is implemented by the HTTP handlers.
type ServerInterface interface {
	// (POST /runs)
	CreateRun(c *gin.Context)
	// (GET /runs)
	ListRuns(c *gin.Context)
	// (GET /runs/{id})
	GetRun(c *gin.Context, id string)
	// (GET /runs/{id}/results)
	GetRunResults(c *gin.Context, id string, params GetRunResultsParams)
	// (POST /runs/{id}/stop)
	StopRun(c *gin.Context, id string)
	// (GET /jobs/types)
	ListJobTypes(c *gin.Context)
}

// ServerInterfaceWrapper binds path and query parameters before calling the
// handler.
type ServerInterfaceWrapper struct {
	Handler      ServerInterface
	ErrorHandler func(*gin.Context, error, int)
}

// GetRunResults operation middleware
func (siw *ServerInterfaceWrapper) GetRunResults(c *gin.Context) {
	var err error

	id := c.Param("id")

	var params GetRunResultsParams

	err = runtime.BindQueryParameter("form", true, false, "status", c.Request.URL.Query(), &params.Status)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("invalid format for parameter status: %w", err), http.StatusBadRequest)
		return
	}

	err = runtime.BindQueryParameter("form", true, false, "type", c.Request.URL.Query(), &params.Type)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("invalid format for parameter type: %w", err), http.StatusBadRequest)
		return
	}

	err = runtime.BindQueryParameter("form", true, false, "limit", c.Request.URL.Query(), &params.Limit)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("invalid format for parameter limit: %w", err), http.StatusBadRequest)
		return
	}

	err = runtime.BindQueryParameter("form", true, false, "offset", c.Request.URL.Query(), &params.Offset)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("invalid format for parameter offset: %w", err), http.StatusBadRequest)
		return
	}

	siw.Handler.GetRunResults(c, id, params)
}

func defaultErrorHandler(c *gin.Context, err error, statusCode int) {
	c.JSON(statusCode, Error{Error: err.Error()})
}

// RegisterHandlers binds every route of the API on router.
func RegisterHandlers(router gin.IRoutes, si ServerInterface) {
	w := &ServerInterfaceWrapper{Handler: si, ErrorHandler: defaultErrorHandler}

	router.POST("/runs", si.CreateRun)
	router.GET("/runs", si.ListRuns)
	router.GET("/runs/:id", func(c *gin.Context) { si.GetRun(c, c.Param("id")) })
	router.GET("/runs/:id/results", w.GetRunResults)
	router.POST("/runs/:id/stop", func(c *gin.Context) { si.StopRun(c, c.Param("id")) })
	router.GET("/jobs/types", si.ListJobTypes)
}

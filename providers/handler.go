package providers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/marketweb/errors"
	"github.com/kbukum/marketweb/httpclient"
	"github.com/kbukum/marketweb/server"
)

// Handler exposes listings over JSON.
type Handler struct {
	svc *Service
}

// NewHandler creates a listing handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the listing routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/api/providers", h.list)
	r.POST("/api/providers/refetch", h.refetch)
}

func (h *Handler) list(c *gin.Context) {
	res := h.svc.Listing(FiltersFromQuery(c.Request)).Load(c.Request.Context())
	respond(c, res)
}

func (h *Handler) refetch(c *gin.Context) {
	res := h.svc.Listing(FiltersFromQuery(c.Request)).Refetch(c.Request.Context())
	respond(c, res)
}

// respond fails the request only when there is nothing to show. Stale data
// is returned with isError set.
func respond(c *gin.Context, res Result) {
	if res.IsError && res.UpdatedAt.IsZero() {
		server.RespondWithError(c, ToAppError(res.Err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// FiltersFromQuery takes the first value of every query parameter. Service
// drops the keys it does not accept.
func FiltersFromQuery(r *http.Request) Filters {
	q := r.URL.Query()
	f := make(Filters, len(q))
	for k, v := range q {
		if len(v) > 0 && v[0] != "" {
			f[k] = v[0]
		}
	}
	return f
}

// ToAppError maps a listing error to the error this service answers with.
func ToAppError(err error) *errors.AppError {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr
	}
	switch {
	case httpclient.IsTimeout(err):
		return errors.Timeout("providers.list").WithCause(err)
	case httpclient.IsConnection(err):
		return errors.ServiceUnavailable("provider directory").WithCause(err)
	}
	if status := httpclient.StatusCode(err); status != 0 {
		return errors.FetchFailed(resource, status).WithCause(err)
	}
	return errors.Internal(err)
}

package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/marketweb/errors"
	"github.com/kbukum/marketweb/logger"
)

// RespondWithError aborts with the JSON form of err. An *apperrors.AppError
// anywhere in the chain sets the status; anything else is a generic 500. The
// body carries the request ID when the request has one.
func RespondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.Internal(err)
	}
	body := appErr.ToResponse()
	if c.Request != nil {
		body = body.WithRequestID(logger.RequestIDFromContext(c.Request.Context()))
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus, body)
}

// RespondNoContent sends a 204 with no body.
func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

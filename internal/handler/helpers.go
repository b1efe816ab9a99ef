package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hydroshop/storefront/internal/service"
	"hydroshop/storefront/internal/view"
	"hydroshop/storefront/pkg/response"
)

// wantsJSON reports whether the client asked for loader data instead of a page.
func wantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}

// render writes data as JSON or page through the named template.
func render(c *gin.Context, name string, page view.Page, data any) {
	if wantsJSON(c) {
		c.JSON(http.StatusOK, data)
		return
	}
	c.HTML(http.StatusOK, name, page)
}

func handleError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, err.Error())
	case service.IsInputError(err):
		response.BadRequest(c, err.Error())
	default:
		logger.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		response.InternalError(c, "internal server error")
	}
}

package web

import (
	"html/template"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/marketweb/logger"
	"github.com/kbukum/marketweb/providers"
)

func (h *Handler) marketplace(c *gin.Context) {
	res := h.providers.Listing(providers.FiltersFromQuery(c.Request)).Load(c.Request.Context())
	h.renderListing(c, res)
}

// refresh refetches the listing and sends the browser back to it.
func (h *Handler) refresh(c *gin.Context) {
	res := h.providers.Listing(providers.FiltersFromQuery(c.Request)).Refetch(c.Request.Context())
	if res.IsError {
		h.log.WithContext(c.Request.Context()).Warn("Provider refresh failed", logger.Fields(logger.FieldError, res.Error))
	}
	c.Redirect(http.StatusSeeOther, listingURL(c.Request.URL.Query()))
}

func (h *Handler) renderListing(c *gin.Context, res providers.Result) {
	p := h.newPage(c, "ProvidersTitle")

	if res.IsError && res.UpdatedAt.IsZero() {
		appErr := providers.ToAppError(res.Err)
		p.Title = p.T("ErrorTitle")
		p.Message = p.T("ProvidersUnavailable")
		c.HTML(appErr.HTTPStatus, "error.tmpl", p)
		return
	}

	p.Listing = &res
	p.Count = h.catalog.N(p.Locale, "ProvidersCount", len(res.Providers))
	p.RefreshURL = template.URL(refreshURL(c.Request.URL.Query()))
	c.HTML(http.StatusOK, "marketplace.tmpl", p)
}

func listingURL(q url.Values) string {
	if len(q) == 0 {
		return "/marketplace"
	}
	return "/marketplace?" + q.Encode()
}

func refreshURL(q url.Values) string {
	if len(q) == 0 {
		return "/marketplace/refresh"
	}
	return "/marketplace/refresh?" + q.Encode()
}

package web

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/kbukum/marketweb/errors"
	"github.com/kbukum/marketweb/locale"
	"github.com/kbukum/marketweb/logger"
	"github.com/kbukum/marketweb/server"
	"github.com/kbukum/marketweb/validation"
)

// switchRequest is the body of POST /api/locale, as JSON or a form.
type switchRequest struct {
	Locale string `json:"locale" form:"locale" validate:"required,bcp47_language_tag"`
	// Redirect is where a form post lands after the switch. Local paths only.
	Redirect string `json:"redirect,omitempty" form:"redirect" validate:"omitempty,max=2048"`
}

type switchResponse struct {
	Locale locale.Locale `json:"locale"`
	Reload bool          `json:"reload"`
}

// switchLocale changes the locale cookie.
//
// Asking for the current locale is a no-op answered with 204. Another
// supported locale sets the cookie and asks for a full reload: JSON callers
// get {"locale", "reload": true}, form posts get a 303 back to the page.
func (h *Handler) switchLocale(c *gin.Context) {
	var req switchRequest
	form := isFormPost(c.Request)
	var bindErr error
	if form {
		bindErr = c.ShouldBindWith(&req, binding.Form)
	} else {
		bindErr = c.ShouldBindWith(&req, binding.JSON)
	}
	if bindErr != nil {
		respondError(c, errors.Validation("Request body could not be read.").WithCause(bindErr))
		return
	}
	if err := validation.Validate(req); err != nil {
		respondError(c, err)
		return
	}

	set := h.negotiator.Set
	current := h.negotiator.Resolve(c.Request).Locale
	reload, err := set.Switch(c.Writer, current, req.Locale)
	if err != nil {
		var unsupported *locale.UnsupportedError
		if stderrors.As(err, &unsupported) {
			respondError(c, errors.UnsupportedLocale(req.Locale, localeStrings(set.Supported())))
			return
		}
		respondError(c, errors.Internal(err))
		return
	}

	log := h.log.WithContext(c.Request.Context())
	if !reload {
		// 204 leaves a submitting browser on its current page, form or not.
		log.Debug("Locale unchanged", logger.Fields(logger.FieldLocale, current.String()))
		server.RespondNoContent(c)
		return
	}

	next, _ := set.Parse(req.Locale)
	log.Info("Locale switched", logger.Fields("from", current.String(), "to", next.String()))
	if form {
		c.Redirect(http.StatusSeeOther, safeRedirect(req.Redirect))
		return
	}
	c.JSON(http.StatusOK, switchResponse{Locale: next, Reload: true})
}

func isFormPost(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, binding.MIMEPOSTForm) || strings.HasPrefix(ct, binding.MIMEMultipartPOSTForm)
}

// safeRedirect keeps redirects on this site.
func safeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	return target
}

func localeStrings(ls []locale.Locale) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.String()
	}
	return out
}

func isAPI(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/")
}

func notFoundError(path string) *errors.AppError {
	return errors.NotFound("route").WithDetail("path", path)
}

func respondError(c *gin.Context, err error) {
	server.RespondWithError(c, err)
}

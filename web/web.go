package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/marketweb/i18n"
	"github.com/kbukum/marketweb/locale"
	"github.com/kbukum/marketweb/logger"
	"github.com/kbukum/marketweb/providers"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Options wires the page handlers to their collaborators.
type Options struct {
	Catalog    *i18n.Catalog
	Negotiator *locale.Negotiator
	Providers  *providers.Service
	Log        *logger.Logger
}

// Handler serves pages, the locale switch and the 404 page.
type Handler struct {
	catalog    *i18n.Catalog
	negotiator *locale.Negotiator
	providers  *providers.Service
	templates  *template.Template
	log        *logger.Logger
}

// New parses the embedded templates.
func New(opts Options) (*Handler, error) {
	if opts.Catalog == nil || opts.Negotiator == nil || opts.Providers == nil {
		return nil, fmt.Errorf("web: catalog, negotiator and providers are required")
	}
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("web: parse templates: %w", err)
	}
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{
		catalog:    opts.Catalog,
		negotiator: opts.Negotiator,
		providers:  opts.Providers,
		templates:  tmpl,
		log:        log.WithComponent("web"),
	}, nil
}

// Register installs the templates and routes on e.
func (h *Handler) Register(e *gin.Engine) {
	e.SetHTMLTemplate(h.templates)

	e.GET("/", h.home)
	e.GET("/marketplace", h.marketplace)
	e.POST("/marketplace/refresh", h.refresh)
	e.POST("/api/locale", h.switchLocale)
	e.NoRoute(h.notFound)
}

// localeOf returns the request locale: the one routing attached, else the
// cookie or default.
func (h *Handler) localeOf(r *http.Request) locale.Locale {
	if l, ok := locale.FromContext(r.Context()); ok {
		return l
	}
	return h.negotiator.Resolve(r).Locale
}

// page is the data every template receives.
type page struct {
	Locale  locale.Locale
	Locales []locale.Locale
	Path    string
	Title   string
	T       func(id string) string

	Listing    *providers.Result
	Count      string
	RefreshURL template.URL
	Message    string
}

func (h *Handler) newPage(c *gin.Context, titleID string) page {
	l := h.localeOf(c.Request)
	t := func(id string) string { return h.catalog.T(l, id, nil) }
	return page{
		Locale:  l,
		Locales: h.negotiator.Set.Supported(),
		Path:    c.Request.URL.Path,
		Title:   t(titleID),
		T:       t,
	}
}

func (h *Handler) home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.tmpl", h.newPage(c, "HomeTitle"))
}

func (h *Handler) notFound(c *gin.Context) {
	if isAPI(c.Request.URL.Path) {
		respondError(c, notFoundError(c.Request.URL.Path))
		return
	}
	c.HTML(http.StatusNotFound, "notfound.tmpl", h.newPage(c, "NotFoundTitle"))
}

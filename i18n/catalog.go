package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"github.com/BurntSushi/toml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"

	"github.com/kbukum/marketweb/locale"
	"github.com/kbukum/marketweb/logger"
)

//go:embed locales/*.toml
var embedded embed.FS

// Catalog translates message IDs for the locales of a locale.Set.
type Catalog struct {
	bundle *goi18n.Bundle
	set    *locale.Set
	log    *logger.Logger

	mu         sync.RWMutex
	localizers map[locale.Locale]*goi18n.Localizer
}

// New loads the embedded catalogs for every locale in set.
func New(set *locale.Set, log *logger.Logger) (*Catalog, error) {
	return NewFromFS(embedded, "locales", set, log)
}

// NewFromFS loads active.<locale>.toml from dir in fsys for every locale in
// set. The default locale's file is required; others fall back to it.
func NewFromFS(fsys fs.FS, dir string, set *locale.Set, log *logger.Logger) (*Catalog, error) {
	if log == nil {
		log = logger.Nop()
	}
	bundle := goi18n.NewBundle(set.Default().Tag())
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, l := range set.Supported() {
		file := path.Join(dir, "active."+string(l)+".toml")
		if _, err := bundle.LoadMessageFileFS(fsys, file); err != nil {
			if l == set.Default() {
				return nil, fmt.Errorf("i18n: load %s: %w", file, err)
			}
			log.Warn("missing message catalog, falling back to default", logger.Fields(logger.FieldLocale, string(l)))
		}
	}

	return &Catalog{
		bundle:     bundle,
		set:        set,
		log:        log.WithComponent("i18n"),
		localizers: make(map[locale.Locale]*goi18n.Localizer),
	}, nil
}

// T translates id for l with optional template data. Unknown IDs render as
// the ID itself.
func (c *Catalog) T(l locale.Locale, id string, data map[string]any) string {
	return c.translate(l, &goi18n.LocalizeConfig{
		MessageID:      id,
		DefaultMessage: &goi18n.Message{ID: id, Other: id},
		TemplateData:   data,
	})
}

// N translates a plural message for count. Count is also exposed to the
// template as .Count.
func (c *Catalog) N(l locale.Locale, id string, count int) string {
	return c.translate(l, &goi18n.LocalizeConfig{
		MessageID:      id,
		DefaultMessage: &goi18n.Message{ID: id, Other: id},
		PluralCount:    count,
		TemplateData:   map[string]any{"Count": count},
	})
}

func (c *Catalog) translate(l locale.Locale, cfg *goi18n.LocalizeConfig) string {
	out, err := c.localizer(l).Localize(cfg)
	if err != nil {
		c.log.Debug("translation fallback", logger.Fields(logger.FieldLocale, string(l), "message_id", cfg.MessageID, logger.FieldError, err.Error()))
		if out == "" {
			return cfg.MessageID
		}
	}
	return out
}

func (c *Catalog) localizer(l locale.Locale) *goi18n.Localizer {
	if !c.set.Contains(l) {
		l = c.set.Default()
	}

	c.mu.RLock()
	loc, ok := c.localizers[l]
	c.mu.RUnlock()
	if ok {
		return loc
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if loc, ok = c.localizers[l]; !ok {
		loc = goi18n.NewLocalizer(c.bundle, string(l), string(c.set.Default()))
		c.localizers[l] = loc
	}
	return loc
}

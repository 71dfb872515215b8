// Command marketweb serves the localized marketplace front end: locale
// routing, the provider listing and its JSON API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kbukum/marketweb/bootstrap"
	"github.com/kbukum/marketweb/config"
	"github.com/kbukum/marketweb/i18n"
	"github.com/kbukum/marketweb/locale"
	"github.com/kbukum/marketweb/logger"
	"github.com/kbukum/marketweb/observability"
	"github.com/kbukum/marketweb/providers"
	"github.com/kbukum/marketweb/query"
	"github.com/kbukum/marketweb/redis"
	"github.com/kbukum/marketweb/server"
	"github.com/kbukum/marketweb/server/endpoint"
	"github.com/kbukum/marketweb/server/middleware"
	"github.com/kbukum/marketweb/web"
)

const serviceName = "marketweb"

func main() {
	var cfg AppConfig
	if err := config.LoadConfig(serviceName, &cfg, config.WithEnvPrefix("MARKETWEB")); err != nil {
		fmt.Fprintf(os.Stderr, "marketweb: %v\n", err)
		os.Exit(1)
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "marketweb: %v\n", err)
		os.Exit(1)
	}

	if err := wire(app); err != nil {
		app.Logger.Fatal("wiring failed", logger.ErrorFields("wire", err))
	}
	if err := app.Run(context.Background()); err != nil {
		app.Logger.Fatal("application stopped with error", logger.ErrorFields("run", err))
	}
}

// wire builds every component and registers them in start order:
// telemetry, shared cache, query cache, then the HTTP server.
func wire(app *bootstrap.App[*AppConfig]) error {
	cfg := app.Cfg
	log := app.Logger

	set, err := cfg.Locale.Set()
	if err != nil {
		return err
	}
	negotiator := &locale.Negotiator{Set: set, DetectFromHeader: cfg.Locale.DetectFromHeader}
	catalog, err := i18n.New(set, log)
	if err != nil {
		return err
	}

	obs := observability.NewComponent(cfg.Observability, observability.Resource{
		ServiceName:    app.Name,
		ServiceVersion: app.Version,
		Environment:    cfg.Environment,
	})
	if err := app.RegisterComponent(obs); err != nil {
		return err
	}

	cacheOpts := []query.ClientOption{
		query.WithLogger(log),
		query.WithGCInterval(cfg.Cache.GCInterval),
		query.WithMaxEntries(cfg.Cache.MaxEntries),
	}
	if cfg.Redis.Enabled {
		rc := redis.NewComponent(cfg.Redis, log)
		if err := app.RegisterComponent(rc); err != nil {
			return err
		}
		cacheOpts = append(cacheOpts, query.WithStore(query.NewLazyRedisStore(rc.Client)))
	}
	cache := query.NewClient(cacheOpts...)
	if err := app.RegisterComponent(cache); err != nil {
		return err
	}

	upstream, err := providers.NewClient(cfg.Providers, log)
	if err != nil {
		return err
	}
	listing := providers.NewService(upstream, cache, providers.Policy(cfg.Providers), log,
		providers.WithFilterKeys(cfg.Providers.FilterKeys...))

	httpMetrics, err := observability.NewHTTPMetrics(observability.Meter())
	if err != nil {
		return err
	}

	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.Tracing(),
		middleware.Metrics(httpMetrics),
		middleware.RequestLogger(log),
		middleware.BodySizeLimit(cfg.Server.MaxBodyBytes),
		middleware.LocaleRouting(middleware.LocaleConfig{
			Negotiator:     negotiator,
			ExemptPrefixes: cfg.Locale.ExemptPrefixes,
		}, log),
	)

	engine := srv.GinEngine()
	endpoint.Register(engine, app.Name, app.Version, app.Components.HealthAll)
	providers.NewHandler(listing).Register(engine)

	pages, err := web.New(web.Options{
		Catalog:    catalog,
		Negotiator: negotiator,
		Providers:  listing,
		Log:        log,
	})
	if err != nil {
		return err
	}
	pages.Register(engine)

	app.OnReady(func(context.Context) error {
		log.Info("marketweb listening", logger.Fields(
			"addr", srv.Addr(),
			"locales", set.Supported(),
			"default_locale", set.Default().String(),
		))
		return nil
	})

	return app.RegisterComponent(server.NewComponent(srv))
}

// Package bootstrap runs a service: it validates the typed config, sets up
// the logger, starts registered components in order, waits for a shutdown
// signal and stops them in reverse.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(server.NewComponent(srv))
//	if err := app.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package bootstrap

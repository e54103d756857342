// Package bootstrap runs the service lifecycle: it applies config defaults,
// initializes the logger, starts registered components, runs configure and
// ready hooks, prints a startup summary and shuts everything down in
// reverse order on SIGINT/SIGTERM or when a one-shot task finishes.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(serverComponent)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*Config]) error {
//	    return wireRoutes(a)
//	})
//	err = app.Run(ctx)
package bootstrap

// Package httpserver runs an http.Handler until its context is cancelled and
// then shuts down in order: stop accepting, drain in-flight requests, run
// shutdown hooks (tenant registry, core pool) within one timeout.
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	srv := httpserver.NewFromConfig(cfg,
//	    httpserver.WithLogger(log),
//	    httpserver.WithShutdownHook("tenant registry", func(context.Context) error { return registry.Close() }),
//	)
//	err := srv.Run(ctx, router)
//
// LivenessHandler and ReadinessHandler back the /health and /ready probes.
package httpserver

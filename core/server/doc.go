// Package server hosts the platform's HTTP listener: an http.Server
// wrapper with environment-driven configuration, optional TLS
// termination, and graceful drain on shutdown.
//
// The usual entry point is NewFromConfig plus Run, which slots the
// server into an errgroup alongside the task scheduler:
//
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	g.Go(srv.Run(ctx, handler))
//
// Run treats context cancellation as a clean stop: it drains in-flight
// requests within the shutdown timeout and returns nil, so Ctrl-C does
// not surface as an error from the group.
package server

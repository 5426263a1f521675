// Package pg owns the PostgreSQL connection of the platform: a pgx
// pool with startup retries, goose migrations, and a readiness check for
// the /healthz endpoint.
//
// Startup order in cmd/server is Connect, Migrate, then handler
// wiring; the process refuses to serve on a schema it has not
// migrated. Connect retries with a linearly growing backoff because
// the database container regularly comes up a few seconds after the
// app in compose and fresh deploys.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	if err := pg.Migrate(ctx, pool, postgres.Migrations, cfg); err != nil {
//		return err
//	}
//	health := pg.Healthcheck(pool)
//
// Config is loaded from PG_* environment variables; PG_CONN_URL is
// the only required one.
package pg

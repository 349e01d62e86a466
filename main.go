// gaefun
// ======
// A small blog: a home page, the blog listing with a visit counter cookie,
// single posts, new post submission and signup, plus a JSON API.
//
// Boot the server:
// ----------------
// $ go run . --cookie-secret s3cret
//
// Client requests:
// ----------------
// $ curl http://localhost:3333/ping
// pong
//
// $ curl -X POST -d '{"title":"Hi","body":"first post"}' http://localhost:3333/api/articles
// {"id":1,"title":"Hi","body":"first post","created":"...","permalink":"/blog/1"}
//
// $ curl -i http://localhost:3333/blog
// Set-Cookie: visits=1|4f1c...; Path=/; HttpOnly; SameSite=Lax
//
// $ curl http://localhost:9999/metrics
//
// Passing --routes prints the route documentation instead of serving.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/docgen"
	"github.com/go-chi/render"
	"github.com/spf13/pflag"

	"github.com/SergeyParamoshkin/gaefun/internal/config"
	"github.com/SergeyParamoshkin/gaefun/internal/database"
	"github.com/SergeyParamoshkin/gaefun/internal/errresponse"
	"github.com/SergeyParamoshkin/gaefun/internal/logging"
	"github.com/SergeyParamoshkin/gaefun/internal/metrics"
	"github.com/SergeyParamoshkin/gaefun/internal/server"
)

const ServiceName = "gaefun"

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Parse(ServiceName, args, os.LookupEnv)
	if err != nil {
		return err
	}

	sugar, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return err
	}
	defer sugar.Sync() // nolint: errcheck

	render.Respond = errresponse.Responder(sugar)

	exporter, err := metrics.NewExporter()
	if err != nil {
		return fmt.Errorf("failed to initialize prometheus exporter: %w", err)
	}
	counters := metrics.New(ServiceName)

	db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN, sugar)
	if err != nil {
		return err
	}
	defer database.Close(db) // nolint: errcheck

	r, err := server.NewRouter(server.Options{
		DB:           db,
		Logger:       sugar,
		Counters:     counters,
		CookieSecret: cfg.CookieSecret,
		CacheMaxAge:  cfg.CacheMaxAge,
		PageSize:     cfg.PageSize,
		AccessLog:    true,
	})
	if err != nil {
		return err
	}

	// Passing --routes to the program will generate docs for the above
	// router definition.
	if cfg.Routes {
		fmt.Println(docgen.MarkdownRoutesDoc(r, docgen.MarkdownOpts{
			ProjectPath: "github.com/SergeyParamoshkin/gaefun",
			Intro:       "Routes of the gaefun blog.",
		}))

		return nil
	}

	if cfg.CookieSecret == "" {
		sugar.Warnw("no cookie secret configured, visits cookie is unsigned")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	servers := []*http.Server{
		{Addr: cfg.Addr, Handler: r},
		{Addr: cfg.DiagAddr, Handler: server.NewDiagRouter(db, exporter)},
	}

	errc := make(chan error, len(servers))
	for _, srv := range servers {
		srv := srv
		go func() {
			sugar.Infow("listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errc <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		sugar.Infow("shutting down")
	case err = <-errc:
		sugar.Errorw("server failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("shutdown", "addr", srv.Addr, "error", err)
		}
	}

	return err
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"

	"github.com/johnqtcg/giteaview/internal/config"
	"github.com/johnqtcg/giteaview/internal/gitea"
	"github.com/johnqtcg/giteaview/internal/metrics"
	"github.com/johnqtcg/giteaview/internal/parser"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, config.NewLoader())
	stop()
	os.Exit(code)
}

// run serves the panel until ctx is done and returns the exit code:
// 0 on a clean shutdown, 2 for bad flags or config, 1 otherwise.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, loader config.Loader) int {
	flags := pflag.NewFlagSet("giteaviewweb", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	config.RegisterFlags(flags)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	logger := log.New(stderr, "giteaviewweb: ", log.LstdFlags)

	cfg, err := loader.Load(flags)
	if err != nil {
		logger.Printf("load config: %v", err)
		return 2
	}
	client, err := gitea.NewClient(cfg.Client())
	if err != nil {
		logger.Printf("create client: %v", err)
		return 2
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	tmpl, err := loadTemplate()
	if err != nil {
		logger.Printf("load template: %v", err)
		return 1
	}

	handler := newWebHandler(webDeps{
		parser:   parser.New(),
		api:      client,
		tmpl:     tmpl,
		owner:    cfg.Owner,
		repo:     cfg.Repo,
		registry: registry,
		metrics:  metrics.New(registry),
		logger:   logger,
	})

	server := &http.Server{
		Addr:              cfg.WebAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	if _, err := fmt.Fprintf(stdout, "giteaview web listening on %s\n", server.Addr); err != nil {
		logger.Printf("write startup message: %v", err)
	}

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("serve http: %v", err)
			return 1
		}
		return 0
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Printf("shutdown http: %v", err)
		return 1
	}
	return 0
}

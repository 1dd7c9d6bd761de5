package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"shipquote/internal/api"
	"shipquote/internal/carrier"
	"shipquote/internal/config"
	"shipquote/internal/httpx"
	"shipquote/internal/logger"
	"shipquote/internal/observability"
	"shipquote/internal/quote"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logger.New(cfg.Log.Mode)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Sync()

	if cfg.Log.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, lg, observability.OtelConfig{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  cfg.Tracing.ServiceName,
		Environment:  cfg.Log.Mode,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		OTLPInsecure: cfg.Tracing.OTLPInsecure,
	})
	if err != nil {
		lg.Fatal("tracing init failed", "error", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			lg.Warn("tracing shutdown failed", "error", err)
		}
	}()

	latency := func(id carrier.ID) time.Duration { return cfg.Latency(string(id)) }
	if path := os.Getenv("CONFIG_FILE"); path != "" && cfg.Simulator.Enabled {
		w, err := config.Watch(path, func(err error) { lg.Warn("config reload failed", "error", err) })
		if err != nil {
			lg.Warn("config watch disabled", "path", path, "error", err)
		} else {
			latency = func(id carrier.ID) time.Duration { return w.Current().Latency(string(id)) }
		}
	}

	handler, err := newHandler(cfg, latency, lg)
	if err != nil {
		lg.Fatal("wiring failed", "error", err)
	}
	srv := api.NewServer(":"+cfg.Server.Port, handler, lg)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Start(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		lg.Info("shutting down", "addr", srv.Addr())
		return nil
	})
	if err := g.Wait(); err != nil {
		lg.Error("server stopped", "error", err)
	}
}

// newHandler wires the carrier client, aggregator and router from cfg.
// latency drives the simulated carriers and may change between requests.
func newHandler(cfg config.Config, latency func(carrier.ID) time.Duration, lg *logger.Logger) (http.Handler, error) {
	carriers, err := carrier.ParseList(cfg.Quote.Carriers)
	if err != nil {
		return nil, err
	}

	httpClient := httpx.New(cfg.RequestTimeout())
	client, err := carrier.NewClient(cfg.Quote.BaseURL,
		carrier.WithHTTPClient(httpClient),
		carrier.WithLogger(lg),
	)
	if err != nil {
		return nil, err
	}

	return api.NewRouter(api.Options{
		ServiceName: cfg.Tracing.ServiceName,
		Quoter:      quote.NewAggregator(client, lg),
		Budget:      cfg.Budget(),
		Carriers:    carriers,
		Simulator:   cfg.Simulator.Enabled,
		Latency:     latency,
		Log:         lg,
	}), nil
}

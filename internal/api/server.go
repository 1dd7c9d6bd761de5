// Package api exposes the simulated carrier endpoints and the best-quote
// endpoints over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"shipquote/internal/carrier"
	"shipquote/internal/logger"
	"shipquote/internal/quote"
)

// Quoter runs one best-quote round.
type Quoter interface {
	Run(ctx context.Context, req quote.Request) (quote.BestDeal, error)
}

// Options wires the router's collaborators.
type Options struct {
	ServiceName string
	Quoter      Quoter
	// Budget bounds each best-quote round.
	Budget time.Duration
	// Carriers are queried when a request does not name any.
	Carriers []carrier.ID
	// Simulator mounts the built-in carrier endpoints.
	Simulator bool
	// Latency delays a simulated carrier's answer; nil means none.
	Latency func(carrier.ID) time.Duration
	Log     *logger.Logger
}

// NewRouter builds the gin engine with every route mounted under /api/home.
func NewRouter(opts Options) *gin.Engine {
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	if opts.Latency == nil {
		opts.Latency = func(carrier.ID) time.Duration { return 0 }
	}
	if len(opts.Carriers) == 0 {
		opts.Carriers = carrier.All()
	}
	if opts.ServiceName == "" {
		opts.ServiceName = "shipquote"
	}

	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(opts.ServiceName), requestID(), requestLogger(opts.Log), limitBody(1<<20))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h := &handlers{opts: opts}
	home := router.Group("/api/home")
	if opts.Simulator {
		home.POST("", h.carrier1Quote)
		home.POST("/getcarrier1quote", h.carrier1Quote)
		home.POST("/getcarrier2quote", h.carrier2Quote)
		home.POST("/getcarrier3quote", h.carrier3Quote)
	}
	if opts.Quoter != nil {
		home.GET("/getbestquote", h.getBestQuote)
		home.POST("/bestquote", h.postBestQuote)
	}
	return router
}

type handlers struct {
	opts Options
}

// Server runs a handler until its context ends.
type Server struct {
	addr    string
	handler http.Handler
	log     *logger.Logger
}

func NewServer(addr string, handler http.Handler, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{addr: addr, handler: handler, log: log}
}

func (s *Server) Addr() string { return s.addr }

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shCtx)
	case err := <-errCh:
		return err
	}
}

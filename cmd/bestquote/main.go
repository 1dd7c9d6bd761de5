package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"shipquote/internal/carrier"
	"shipquote/internal/config"
	"shipquote/internal/httpx"
	"shipquote/internal/logger"
	"shipquote/internal/quote"
)

type options struct {
	configPath  string
	baseURL     string
	carriersCSV string
	budgetMS    int
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", getenv("CONFIG_FILE", ""), "path to config.json (optional)")
	flag.StringVar(&opts.baseURL, "base-url", getenv("BASE_URL", ""), "carrier base URL, e.g. http://localhost:8080/api/home/")
	flag.StringVar(&opts.carriersCSV, "carriers", getenv("QUOTE_CARRIERS", ""), "comma-separated carrier ids")
	flag.IntVar(&opts.budgetMS, "budget-ms", getenvInt("QUOTE_BUDGET_MS", 0), "time budget in milliseconds")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// run performs one quote round and prints the result as JSON to out.
func run(ctx context.Context, opts options, out io.Writer) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if opts.baseURL != "" {
		cfg.Quote.BaseURL = opts.baseURL
	}
	if opts.budgetMS > 0 {
		cfg.Quote.BudgetMS = opts.budgetMS
	}
	names := cfg.Quote.Carriers
	if opts.carriersCSV != "" {
		names = splitCSV(opts.carriersCSV)
	}
	ids, err := carrier.ParseList(names)
	if err != nil {
		return err
	}

	lg, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer lg.Sync()

	client, err := carrier.NewClient(cfg.Quote.BaseURL,
		carrier.WithHTTPClient(httpx.New(cfg.RequestTimeout())),
		carrier.WithLogger(lg),
	)
	if err != nil {
		return err
	}

	deal, err := quote.NewAggregator(client, lg).Run(ctx, quote.Request{Carriers: ids, Budget: cfg.Budget()})
	if err != nil {
		return err
	}
	if deal.BestDeal == nil {
		lg.Warn("no carrier answered in time", "budget", cfg.Budget())
	}

	b, err := json.MarshalIndent(deal, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(b))
	return err
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if x, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && x != 0 {
			return x
		}
	}
	return def
}


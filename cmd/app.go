package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"token-swap/config"
	"token-swap/pkg/catalog"
	"token-swap/pkg/logging"
)

// app bundles what every command needs after startup
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	source  catalog.Source
	verbose bool
	json    bool
}

func newApp(cmd *cobra.Command) (*app, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.LogLevel, verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	src, err := newSource(cfg, log)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, log: log, source: src, verbose: verbose, json: jsonOutput}, nil
}

// newSource builds the configured price source behind a TTL cache
func newSource(cfg *config.Config, log *zap.Logger) (catalog.Source, error) {
	var src catalog.Source
	switch cfg.PriceSource {
	case config.SourceHTTP:
		src = catalog.NewHTTPSource(cfg.PricesURL, catalog.WithTimeout(cfg.RequestTimeout))
	case config.SourceFile:
		src = catalog.NewFileSource(cfg.PricesFile)
	case config.SourceOneClick:
		src = catalog.NewOneClickSource(cfg.OneClickJWT)
	default:
		return nil, fmt.Errorf("unknown price source %q", cfg.PriceSource)
	}

	return &catalog.CachedSource{
		Source: src,
		TTL:    cfg.CacheTTL,
		Log:    log.Named("cache"),
	}, nil
}

// loadCatalog fetches the catalog with a spinner unless output is JSON
func (a *app) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !a.json {
		s.Suffix = " Fetching prices..."
		s.Start()
	}

	c, err := catalog.Load(ctx, a.source)
	if !a.json {
		s.Stop()
	}
	if err != nil {
		a.log.Error("failed to load prices", zap.String("source", a.source.Name()), zap.Error(err))
		return nil, err
	}

	a.log.Debug("prices loaded", zap.String("source", a.source.Name()), zap.Int("tokens", c.Len()))
	return c, nil
}

func (a *app) close() {
	_ = a.log.Sync()
}

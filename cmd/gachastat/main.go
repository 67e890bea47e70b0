// Command gachastat compares a gacha weight table with observed pulls.
// It reads commands from stdin; type "help" for the list.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/xtding233/gacha-rates/internal/config"
	"github.com/xtding233/gacha-rates/internal/console"
	"github.com/xtding233/gacha-rates/internal/gacha"
	"github.com/xtding233/gacha-rates/internal/observability"
	"github.com/xtding233/gacha-rates/internal/source"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	paths := source.Paths{Weights: cfg.Data.WeightsPath, Catalog: cfg.Data.CatalogPath}
	holder, err := source.NewHolder(source.NewLoader(paths, logger), logger)
	if err != nil {
		logger.Fatal("loading sources", zap.Error(err))
	}
	snap := holder.Get()
	logger.Info("sources loaded",
		zap.String("weights", paths.Weights),
		zap.Int("rarities", snap.Weights.Len()),
		zap.String("catalog", paths.Catalog),
		zap.Int("characters", snap.Catalog.Len()),
	)

	if cfg.Data.Watch {
		w := source.NewWatcher([]string{paths.Weights, paths.Catalog}, cfg.Data.Debounce, holder.OnChange, logger)
		go func() {
			if err := w.Run(ctx); err != nil {
				logger.Error("watcher stopped", zap.Error(err))
			}
		}()
	}

	session := console.NewSession(holder, console.Options{
		BatchSize: cfg.Pull.BatchSize,
		MaxPulls:  cfg.Pull.MaxPulls,
		Trials:    cfg.Spread.Trials,
		MaxDraws:  cfg.Spread.MaxDraws,
		Format:    cfg.Report.Format,
		RNG:       gacha.NewRNG(cfg.Pull.Seed),
	}, logger)

	if err := session.Run(ctx, os.Stdin, os.Stdout); err != nil {
		logger.Error("console", zap.Error(err))
	}
}

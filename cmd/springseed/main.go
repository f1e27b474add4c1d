// Command springseed fills a fresh springworks database with sample products,
// sales orders, production orders and users.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"springworks/internal/config"
	"springworks/internal/database"
	"springworks/internal/logging"
	"springworks/internal/seed"
)

func main() {
	datasource := flag.String("datasource", seed.DefaultDatasourceFile, "datasource JSON file")
	productsCSV := flag.String("products", "", "optional CSV of extra products to import")
	flag.Parse()

	flush, err := logging.Init(config.Default().Logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger init failed:", err)
		os.Exit(1)
	}
	code := run(*datasource, *productsCSV)
	flush()
	os.Exit(code)
}

func run(datasource, productsCSV string) int {
	log := zap.S()
	ds, strategy, err := seed.ResolveDatasource(datasource, os.Getenv)
	if err != nil {
		log.Errorw("no usable datasource; provide "+seed.DefaultDatasourceFile+", "+
			seed.EnvDatasource+" or "+seed.EnvDBPath+" and "+seed.EnvOwner, "error", err)
		return 1
	}
	log.Infow("datasource resolved", "strategy", strategy, "path", ds.Path, "journalMode", ds.JournalMode, "owner", ds.Owner)

	db, err := database.Open(ds.Path, ds.Options())
	if err != nil {
		log.Errorw("open database", "path", ds.Path, "error", err)
		return 1
	}
	defer db.Close()

	var opts seed.Options
	if productsCSV != "" {
		f, err := os.Open(productsCSV)
		if err != nil {
			log.Errorw("open product csv", "file", productsCSV, "error", err)
			return 1
		}
		defer f.Close()
		opts.ProductsCSV = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sum, err := seed.New(db).Run(ctx, opts)
	if errors.Is(err, seed.ErrAlreadySeeded) {
		log.Warnw("database already seeded, nothing to do", "path", ds.Path)
		return 0
	}
	if err != nil {
		log.Errorw("seed failed", "error", err, "written", sum)
		return 1
	}
	return 0
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/yungbote/caa-backend/internal/data/db"
	"github.com/yungbote/caa-backend/internal/platform/envutil"
	"github.com/yungbote/caa-backend/internal/platform/logger"
	"github.com/yungbote/caa-backend/internal/services"
)

func main() {
	_ = godotenv.Load()

	var (
		databaseURL string
		catalogFile string
		dryRun      bool
	)
	flag.StringVar(&databaseURL, "database-url", envutil.String("DATABASE_URL", ""), "database URL (postgres:// or sqlite://)")
	flag.StringVar(&catalogFile, "catalog", envutil.String("SEED_CATALOG_FILE", ""), "YAML catalog to load instead of the built-in one")
	flag.BoolVar(&dryRun, "dry-run", false, "parse the catalog and print what it contains")
	flag.Parse()

	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		fmt.Printf("init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if dryRun {
		cat, err := db.LoadSeedCatalog(catalogFile)
		if err != nil {
			fmt.Printf("load catalog: %v\n", err)
			os.Exit(1)
		}
		pictograms := 0
		for _, c := range cat.Categorias {
			pictograms += len(c.Pictogramas)
			fmt.Printf("[dry-run] categoria %q (%d pictogramas)\n", c.Nome, len(c.Pictogramas))
		}
		fmt.Printf("[dry-run] admin=%q categorias=%d pictogramas=%d\n", cat.Admin.Login, len(cat.Categorias), pictograms)
		return
	}

	dbService, err := db.NewService(log, databaseURL)
	if err != nil {
		fmt.Printf("init database: %v\n", err)
		os.Exit(1)
	}
	defer dbService.Close()

	if err := db.AutoMigrateAll(dbService.DB()); err != nil {
		fmt.Printf("automigrate: %v\n", err)
		os.Exit(1)
	}
	report, err := db.Seed(context.Background(), dbService.DB(), log, db.SeedOptions{
		CatalogFile:  catalogFile,
		HashPassword: services.HashPassword,
	})
	if err != nil {
		fmt.Printf("seed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("done; admin_created=%t categorias=%d pictogramas=%d\n", report.AdminCreated, report.Categories, report.Pictograms)
}

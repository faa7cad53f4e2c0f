package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/joho/godotenv"

	"github.com/floramarket/flora-backend/pkg/config"
	"github.com/floramarket/flora-backend/pkg/db"
	"github.com/floramarket/flora-backend/pkg/logger"
	"github.com/floramarket/flora-backend/pkg/migrate"
)

type options struct {
	cmd     string
	dir     string
	name    string
	version string
}

// offlineCommands work on the migrations directory only.
var offlineCommands = map[string]func(opts options, out io.Writer) error{
	"create":   createMigration,
	"validate": validateMigrations,
}

// dbCommands need an open catalog database.
var dbCommands = map[string]func(ctx context.Context, sqlDB *sql.DB, opts options, out io.Writer) error{
	"up":     gooseCommand("up"),
	"down":   gooseCommand("down"),
	"status": gooseCommand("status"),
	"version": func(ctx context.Context, sqlDB *sql.DB, opts options, _ io.Writer) error {
		if opts.version == "" {
			return errors.New("missing -version for version command")
		}
		return migrate.MigrateToVersion(ctx, sqlDB, opts.dir, opts.version)
	},
	"catalog-check": checkCatalog,
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "migrate"})
	_ = godotenv.Load()

	var opts options
	flag.StringVar(&opts.cmd, "cmd", "up", "migration command: up|down|status|version|create|validate|catalog-check")
	flag.StringVar(&opts.dir, "dir", migrate.DefaultDir, "goose migrations directory")
	flag.StringVar(&opts.name, "name", "", "migration name (for create)")
	flag.StringVar(&opts.version, "version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "resource not working: config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": opts.cmd,
		"dir": opts.dir,
	})

	if err := run(ctx, cfg, logg, opts, os.Stdout); err != nil {
		logg.Error(ctx, "migrate failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger, opts options, out io.Writer) error {
	if fn, ok := offlineCommands[opts.cmd]; ok {
		return fn(opts, out)
	}
	fn, ok := dbCommands[opts.cmd]
	if !ok {
		return fmt.Errorf("unknown -cmd value %q", opts.cmd)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer dbClient.Close()

	sqlDB, err := dbClient.SQL()
	if err != nil {
		return fmt.Errorf("sql database: %w", err)
	}

	logg.Info(ctx, "migrate ready")
	return fn(ctx, sqlDB, opts, out)
}

func createMigration(opts options, out io.Writer) error {
	if opts.name == "" {
		return errors.New("missing -name for create")
	}
	path, err := migrate.CreateSQLMigration(opts.dir, opts.name)
	if err != nil {
		return fmt.Errorf("create migration: %w", err)
	}
	_, _ = fmt.Fprintln(out, "created migration:", path)
	return nil
}

func validateMigrations(opts options, out io.Writer) error {
	count, err := migrate.ValidateDir(opts.dir)
	if err != nil {
		return fmt.Errorf("migration validation failed: %w", err)
	}
	_, _ = fmt.Fprintf(out, "migration validation passed (%d files)\n", count)
	return nil
}

func gooseCommand(name string) func(context.Context, *sql.DB, options, io.Writer) error {
	return func(ctx context.Context, sqlDB *sql.DB, opts options, _ io.Writer) error {
		return migrate.Run(ctx, sqlDB, opts.dir, name)
	}
}

type catalogStats struct {
	categories int
	products   int
	inStock    int
	facets     map[string]int
}

// checkCatalog reports what the seeded catalog holds and fails when it has
// no products to list.
func checkCatalog(ctx context.Context, sqlDB *sql.DB, _ options, out io.Writer) error {
	stats, err := loadCatalogStats(ctx, sqlDB)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "categories: %d\nproducts: %d (%d in stock)\n", stats.categories, stats.products, stats.inStock)
	names := make([]string, 0, len(stats.facets))
	for name := range stats.facets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		_, _ = fmt.Fprintf(out, "facet %s: %d values\n", name, stats.facets[name])
	}

	if stats.products == 0 {
		return errors.New("catalog has no products")
	}
	return nil
}

func loadCatalogStats(ctx context.Context, sqlDB *sql.DB) (catalogStats, error) {
	stats := catalogStats{facets: map[string]int{}}
	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM categories", &stats.categories},
		{"SELECT COUNT(*) FROM products", &stats.products},
		{"SELECT COUNT(*) FROM products WHERE in_stock", &stats.inStock},
	}
	for _, c := range counts {
		if err := sqlDB.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return catalogStats{}, fmt.Errorf("count catalog rows: %w", err)
		}
	}

	rows, err := sqlDB.QueryContext(ctx, "SELECT facet, COUNT(DISTINCT value) FROM product_facets GROUP BY facet")
	if err != nil {
		return catalogStats{}, fmt.Errorf("count facet values: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			facet string
			n     int
		)
		if err := rows.Scan(&facet, &n); err != nil {
			return catalogStats{}, fmt.Errorf("scan facet count: %w", err)
		}
		stats.facets[facet] = n
	}
	return stats, rows.Err()
}

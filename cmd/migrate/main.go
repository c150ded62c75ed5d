package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	_ "github.com/lib/pq"
	"github.com/spf13/pflag"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pageza/recipe-catalog/backend/config"
	"github.com/pageza/recipe-catalog/backend/internal/database"
	"github.com/pageza/recipe-catalog/backend/internal/logging"
)

func main() {
	ctx := context.Background()
	cfg := config.Default()

	dsn := pflag.String("dsn", os.Getenv("DATABASE_URL"), "PostgreSQL connection string (defaults to DATABASE_URL)")
	sqlitePath := pflag.String("sqlite", "", "migrate a SQLite file instead of PostgreSQL")
	status := pflag.Bool("status", false, "list applied and pending migrations without applying them")
	pflag.Parse()

	db, err := open(cfg, *dsn, *sqlitePath)
	if err != nil {
		logging.Error(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	if *status {
		if err := printStatus(ctx, os.Stdout, db); err != nil {
			logging.Error(ctx, "failed to read migration status", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := database.RunMigrations(ctx, db); err != nil {
		logging.Error(ctx, "failed to apply migrations", "error", err)
		os.Exit(1)
	}
	logging.Info(ctx, "all migrations applied")
}

func open(cfg *config.Config, dsn, sqlitePath string) (*gorm.DB, error) {
	if sqlitePath != "" {
		cfg.DBDriver = config.DriverSQLite
		cfg.SQLitePath = sqlitePath
		dialector, err := database.Dialector(cfg)
		if err != nil {
			return nil, err
		}
		return database.Open(dialector, logger.Warn)
	}

	if dsn == "" {
		dsn = database.PostgresDSN(cfg)
	}
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return database.Open(postgres.New(postgres.Config{Conn: sqlDB}), logger.Warn)
}

func printStatus(ctx context.Context, w io.Writer, db *gorm.DB) error {
	if db.Dialector.Name() == "sqlite" {
		fmt.Fprintln(w, "sqlite schemas are auto-migrated; no migration history is kept")
		return nil
	}
	names, err := database.MigrationNames()
	if err != nil {
		return err
	}
	applied, err := database.AppliedMigrations(ctx, db)
	if err != nil {
		return err
	}
	done := make(map[string]bool, len(applied))
	for _, name := range applied {
		done[name] = true
	}
	for _, name := range names {
		state := "pending"
		if done[name] {
			state = "applied"
		}
		fmt.Fprintf(w, "%-8s %s\n", state, name)
	}
	return nil
}

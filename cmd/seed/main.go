package main

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"donation-platform.backend/internal/config"
	"donation-platform.backend/internal/infrastructure/datasources"
)

// seedDeps are the process seams shared by every subcommand
type seedDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	openDB  func(cfg config.DatabaseConfig) (*gorm.DB, error)
	out     io.Writer
}

func defaultSeedDeps() seedDeps {
	return seedDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		openDB:  datasources.NewConnection,
		out:     os.Stdout,
	}
}

// connect opens and migrates the configured database. The returned func
// closes it.
func (d seedDeps) connect() (*gorm.DB, func(), error) {
	_ = d.loadEnv()
	cfg := d.loadCfg()

	db, err := d.openDB(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect db: %w", err)
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if err := datasources.Migrate(db); err != nil {
		closeFn()
		return nil, nil, err
	}
	return db, closeFn, nil
}

func newRootCmd(deps seedDeps) *cobra.Command {
	root := &cobra.Command{
		Use:           "seed",
		Short:         "Seed the donation platform database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(deps.out)
	root.AddCommand(charitiesCmd(deps))
	root.AddCommand(adminCmd(deps))
	return root
}

func main() {
	if err := newRootCmd(defaultSeedDeps()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

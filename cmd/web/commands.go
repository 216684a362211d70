package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"findtern_backend/database"
	"findtern_backend/internal/app"
	"findtern_backend/internal/config"
	"findtern_backend/internal/logger"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "findtern",
		Short: "Findtern internship marketplace backend",
		// без подкоманды запускаем сервер
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cfgFile != "" {
				_ = os.Setenv("CONFIG_PATH", cfgFile)
			}
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default config/config.yaml or $CONFIG_PATH)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP API server and background workers",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrate()
			},
		},
		&cobra.Command{
			Use:   "seed-admin",
			Short: "Create the first admin from FIRST_ADMIN_EMAIL and FIRST_ADMIN_PASSWORD",
			RunE: func(cmd *cobra.Command, args []string) error {
				return seedAdmin()
			},
		},
	)
	return root
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	config.AppConfig = cfg
	app.InitLogger(cfg)
	return cfg, nil
}

func serve(parent context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if parent == nil {
		parent = context.Background()
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.Run(ctx, cfg)
}

func migrate() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	logger.Info("Migrations applied")
	return nil
}

func seedAdmin() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	return app.SeedFirstAdmin(db, cfg)
}

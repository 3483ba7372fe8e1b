package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/palaverhq/palaver/internal/config"
	"github.com/palaverhq/palaver/internal/database"
	"github.com/palaverhq/palaver/internal/janitor"
	"github.com/palaverhq/palaver/internal/logging"
	"github.com/palaverhq/palaver/internal/web"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// CLI flags
var (
	configPath string
	port       int
	bind       string
	dbPath     string
	verbosity  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "palaver",
		Short: "Palaver - Forum backend server",
		Long:  `Palaver is a forum backend: users, posts, tags and comments over a single SQLite store, exposed through a JSON API.`,
		RunE:  run,
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to JSON config file")
	rootCmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP server port (overrides config)")
	rootCmd.Flags().StringVarP(&bind, "bind", "b", "", "IP address to bind to (overrides config)")
	rootCmd.Flags().StringVarP(&dbPath, "db", "d", "", "SQLite database path (overrides config, or set DB_PATH env var)")
	rootCmd.Flags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v debug, -vv trace)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("palaver %s (commit: %s, built: %s)\n", version, commit, date)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Flags and environment override the config file
	if port != 0 {
		cfg.Server.Port = port
	}
	if bind != "" {
		cfg.Server.Bind = bind
	}
	if dbPath != "" {
		cfg.Server.DatabasePath = dbPath
	} else if envDB := os.Getenv("DB_PATH"); envDB != "" {
		cfg.Server.DatabasePath = envDB
	}

	if cfg.Server.Bind != "" {
		if ip := net.ParseIP(cfg.Server.Bind); ip == nil {
			return fmt.Errorf("invalid bind address: %s", cfg.Server.Bind)
		}
	}

	logFile := cfg.Logging.File
	if logFile == "" {
		logFile = logging.FilePathForDB(cfg.Server.DatabasePath)
	}
	logging.Apply(verbosity, logFile, logging.Options{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})

	log.Info().
		Str("version", version).
		Int("port", cfg.Server.Port).
		Str("bind", cfg.Server.Bind).
		Str("database", cfg.Server.DatabasePath).
		Msg("Starting Palaver")

	db, err := database.New(cfg.Server.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	server := web.NewServer(db, cfg.Server.Port, cfg.Server.Bind)

	sweep := janitor.New(db, cfg.Expiry.Schedule)
	if err := sweep.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start expiry sweep")
	}
	defer sweep.Stop()

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}

	log.Info().Msg("Palaver stopped")
	return nil
}

package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jjenkins/econsult/internal/config"
	"github.com/jjenkins/econsult/internal/logging"
	"github.com/jjenkins/econsult/internal/store"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "econsult",
	Short: "Citizen feedback on draft legislation",
	Long: `econsult collects stakeholder comments on legislation open for public
consultation and gives government officials sentiment, rating and keyword
analysis of that feedback.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "econsult.yaml", "Path to the YAML config file (optional)")
}

// env is what every subcommand starts from
type env struct {
	cfg *config.Config
	log *logging.Logger
	db  *sql.DB
}

// setup loads config, builds the logger and connects to the database
func setup() (*env, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Log.Mode)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	log.Info("connecting to database")
	db, err := store.NewDB(cfg.Database.URL)
	if err != nil {
		log.Sync()
		return nil, err
	}

	return &env{cfg: cfg, log: log, db: db}, nil
}

func (e *env) close() {
	e.db.Close()
	e.log.Sync()
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fieldops/leadrouter/app"
	"github.com/fieldops/leadrouter/config"
	"github.com/fieldops/leadrouter/infra/logger"
)

var (
	cfgPath    string
	rosterPath string
)

var rootCmd = &cobra.Command{
	Use:   "leadrouter",
	Short: "Field-sales lead dispatch service",
	RunE:  run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.PersistentFlags().StringVarP(&rosterPath, "roster", "r", "roster.json", "rep roster file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := newService()
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return svc.Run(ctx)
}

func newService() (*app.Service, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	reps, err := app.LoadRoster(rosterPath)
	if err != nil {
		return nil, err
	}
	return app.New(cfg, reps)
}

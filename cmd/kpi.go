package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fieldops/leadrouter/infra/audit"
	"github.com/fieldops/leadrouter/infra/kpi"
	"github.com/fieldops/leadrouter/infra/logger"
	"github.com/fieldops/leadrouter/jobs/convkpi"
)

var (
	kpiDBPath string
	kpiSince  string
)

var kpiCmd = &cobra.Command{
	Use:   "kpi",
	Short: "Rebuild per-rep conversion KPIs from the decision audit log",
	RunE:  backfillKPI,
}

func init() {
	kpiCmd.Flags().StringVar(&kpiDBPath, "db", "conv_kpi.db", "KPI database path")
	kpiCmd.Flags().StringVar(&kpiSince, "since", "", "only replay records after this time (RFC3339)")
	rootCmd.AddCommand(kpiCmd)
}

func backfillKPI(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("kpi-command").Errorf("service close: %v", err)
		}
	}()

	q := audit.LogQuery{}
	if kpiSince != "" {
		q.Start, err = time.Parse(time.RFC3339, kpiSince)
		if err != nil {
			return fmt.Errorf("parse since: %w", err)
		}
	}
	history, err := svc.AuditLog().Query(context.Background(), q)
	if err != nil {
		return err
	}

	store, err := kpi.NewSQLiteStore(kpiDBPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := convkpi.Backfill(store, history); err != nil {
		return err
	}
	fmt.Printf("replayed %d audit records into %s\n", len(history), kpiDBPath)
	return nil
}

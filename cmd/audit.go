package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fieldops/leadrouter/infra/audit"
	"github.com/fieldops/leadrouter/infra/logger"
)

var (
	auditKind  string
	auditLead  string
	auditRep   string
	auditSince string
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Query the decision log",
	RunE:  queryAudit,
}

func init() {
	auditCmd.Flags().StringVar(&auditKind, "kind", "", "record kind (assignment, route, coverage, reminder)")
	auditCmd.Flags().StringVar(&auditLead, "lead", "", "filter by lead id")
	auditCmd.Flags().StringVar(&auditRep, "rep", "", "filter by rep id")
	auditCmd.Flags().StringVar(&auditSince, "since", "", "only records after this time (RFC3339)")
	rootCmd.AddCommand(auditCmd)
}

func queryAudit(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("audit-command").Errorf("service close: %v", err)
		}
	}()

	q := audit.LogQuery{Kind: audit.Kind(auditKind), LeadID: auditLead, RepID: auditRep}
	if auditSince != "" {
		start, err := time.Parse(time.RFC3339, auditSince)
		if err != nil {
			return fmt.Errorf("parse since: %w", err)
		}
		q.Start = start
	}
	recs, err := svc.AuditLog().Query(context.Background(), q)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(recs)
}

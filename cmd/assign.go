package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fieldops/leadrouter/app"
	"github.com/fieldops/leadrouter/infra/logger"
)

var leadsPath string

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Assign leads from a file and print the decisions",
	RunE:  assignLeads,
}

func init() {
	assignCmd.Flags().StringVarP(&leadsPath, "leads", "l", "leads.json", "lead file")
	rootCmd.AddCommand(assignCmd)
}

func assignLeads(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("assign-command").Errorf("service close: %v", err)
		}
	}()

	leads, err := app.LoadLeads(leadsPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	logg := logger.New("assign-command")
	var failed int
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, lead := range leads {
		asn, err := svc.AssignLead(ctx, lead)
		if err != nil {
			logg.Errorf("lead %s: %v", lead.ID, err)
			failed++
			continue
		}
		if err := enc.Encode(asn); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d leads could not be assigned", failed, len(leads))
	}
	return nil
}

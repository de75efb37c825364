package cmd

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/fieldops/leadrouter/app"
	"github.com/fieldops/leadrouter/infra/logger"
)

var coverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Analyze territory coverage over the leads in a file",
	RunE:  analyzeCoverage,
}

func init() {
	coverageCmd.Flags().StringVarP(&leadsPath, "leads", "l", "leads.json", "lead file")
	rootCmd.AddCommand(coverageCmd)
}

func analyzeCoverage(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("coverage-command").Errorf("service close: %v", err)
		}
	}()

	leads, err := app.LoadLeads(leadsPath)
	if err != nil {
		return err
	}
	report, err := svc.AnalyzeCoverage(context.Background(), leads)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

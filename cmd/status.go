package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/fieldops/leadrouter/core/repstatus"
	"github.com/fieldops/leadrouter/infra/logger"
)

var (
	statusRegion string
	statusTeam   string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List current rep statuses",
	RunE:  listStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusRegion, "region", "", "filter by region")
	statusCmd.Flags().StringVar(&statusTeam, "team", "", "filter by team")
	rootCmd.AddCommand(statusCmd)
}

func listStatus(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("status-command").Errorf("service close: %v", err)
		}
	}()

	statuses := svc.Status.List(repstatus.Filter{Region: statusRegion, Team: statusTeam})
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(statuses)
}

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fieldops/leadrouter/app"
	"github.com/fieldops/leadrouter/infra/logger"
	"github.com/fieldops/leadrouter/pkg/export"
)

var (
	routeRepID  string
	routeDate   string
	routeFormat string
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Build a daily route for one rep over the leads in a file",
	RunE:  buildRoute,
}

func init() {
	routeCmd.Flags().StringVarP(&leadsPath, "leads", "l", "leads.json", "lead file")
	routeCmd.Flags().StringVar(&routeRepID, "rep", "", "rep identifier")
	routeCmd.Flags().StringVar(&routeDate, "date", "", "workday date (YYYY-MM-DD, default today)")
	routeCmd.Flags().StringVar(&routeFormat, "format", "json", "output format: json or csv")
	_ = routeCmd.MarkFlagRequired("rep")
	rootCmd.AddCommand(routeCmd)
}

func buildRoute(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("route-command").Errorf("service close: %v", err)
		}
	}()

	leads, err := app.LoadLeads(leadsPath)
	if err != nil {
		return err
	}

	day := time.Now()
	if routeDate != "" {
		day, err = time.ParseInLocation("2006-01-02", routeDate, time.Local)
		if err != nil {
			return fmt.Errorf("parse date: %w", err)
		}
	}

	rep, ok := svc.Allocator.Roster().Get(routeRepID)
	if !ok {
		return fmt.Errorf("unknown rep %s", routeRepID)
	}
	rt, err := svc.BuildRoute(context.Background(), rep, leads, day)
	if err != nil {
		return err
	}
	switch routeFormat {
	case "csv":
		return export.WriteCSV(os.Stdout, rt)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rt)
	default:
		return fmt.Errorf("unknown format %s", routeFormat)
	}
}

package main

import (
	"fmt"
	"time"

	"github.com/sadopc/focusbuddy/internal/export"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export statistics, sessions and tasks",
	Long: `Export statistics, sessions and tasks.

csv writes one row per recorded day. json and yaml write the full report:
settings, daily totals, the session log and the task list.`,
	Args: cobra.NoArgs,
	RunE: withSession(runExport),
}

var (
	exportFormat string
	exportOut    string
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", string(export.FormatJSON), "Output format (csv, json, yaml)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default stdout)")
}

func runExport(cmd *cobra.Command, _ []string, s *session) error {
	f, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	snap := s.ctl.Snapshot()
	now := time.Now()
	if exportOut == "" {
		return export.Write(cmd.OutOrStdout(), f, snap, now)
	}
	if err := export.ToFile(exportOut, f, snap, now); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s to %s\n", f, exportOut)
	return nil
}

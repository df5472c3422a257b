package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fleetlens/fleetlens/internal/domain/device"
	"github.com/fleetlens/fleetlens/internal/worker"
)

func newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Run fleet audits",
	}

	cmd.AddCommand(newAuditRunCmd())
	cmd.AddCommand(newAuditComplianceCmd())
	cmd.AddCommand(newAuditPatchCmd())
	cmd.AddCommand(newAuditWatchCmd())

	return cmd
}

func newAuditRunCmd() *cobra.Command {
	var inputPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full audit pipeline: compliance, patch status, asset merge",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}

			records, err := app.loadRecords(inputPath)
			if err != nil {
				return err
			}

			runner := worker.NewAuditRunner(
				staticSource(records),
				app.compliance, app.patches, app.assets,
				app.cfg.Worker.Schedule, app.log,
			)

			result, err := runner.RunOnce(cmd.Context())
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(result)
			}

			stats := result.Report.Statistics
			fmt.Printf("Run %s\n\n", result.Report.RunID)
			fmt.Printf("Devices:            %d\n", stats.TotalDevices)
			fmt.Printf("Checks:             %d\n", stats.TotalChecks)
			fmt.Printf("Average score:      %.1f\n", stats.AverageComplianceScore)
			fmt.Printf("Compliance rate:    %.1f%%\n", stats.ComplianceRate)
			fmt.Printf("Need attention:     %d\n", stats.DevicesNeedingAttention)
			fmt.Printf("Patch health:       %s\n", result.PatchStatistics.OverallHealth)
			fmt.Printf("Assets processed:   %d\n", result.AssetsProcessed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "device records JSON file")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func newAuditComplianceCmd() *cobra.Command {
	var inputPath string

	cmd := &cobra.Command{
		Use:   "compliance",
		Short: "Evaluate compliance policies against a device fleet",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}

			records, err := app.loadRecords(inputPath)
			if err != nil {
				return err
			}

			report, err := app.compliance.RunFleet(cmd.Context(), records)
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(report)
			}

			table := NewTable("DEVICE", "SCORE", "COMPLIANT", "NON-COMPLIANT", "ERRORS", "ATTENTION")
			for _, rec := range records {
				s, ok := report.Summaries[rec.DeviceID]
				if !ok {
					continue
				}
				attention := ""
				if s.RequiresAttention {
					attention = formatSeverity("high")
				}
				table.AddRow(
					truncate(s.DeviceName, 30),
					fmt.Sprintf("%.1f", s.ComplianceScore),
					fmt.Sprintf("%d", s.CompliantChecks),
					fmt.Sprintf("%d", s.NonCompliantChecks),
					fmt.Sprintf("%d", s.ErrorChecks),
					attention,
				)
			}
			table.Render()

			stats := report.Statistics
			fmt.Printf("\nFleet average: %.1f  compliance rate: %.1f%%  attention: %d/%d\n",
				stats.AverageComplianceScore, stats.ComplianceRate,
				stats.DevicesNeedingAttention, stats.TotalDevices)

			if len(stats.TopNonCompliantPolicies) > 0 {
				fmt.Println("\nTop non-compliant policies:")
				for i, pc := range stats.TopNonCompliantPolicies {
					fmt.Printf("  %d. %s (%d devices)\n", i+1, pc.PolicyName, pc.Count)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "device records JSON file")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func newAuditPatchCmd() *cobra.Command {
	var inputPath string

	cmd := &cobra.Command{
		Use:   "patch",
		Short: "Check OS version support and patch risk for a device fleet",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}

			records, err := app.loadRecords(inputPath)
			if err != nil {
				return err
			}

			statuses := app.patches.CheckFleet(records)
			stats := app.patches.Statistics(statuses)

			if getOutputFormat() != "table" {
				return printOutput(map[string]interface{}{
					"devices":    statuses,
					"statistics": stats,
				})
			}

			table := NewTable("DEVICE", "OS", "RELEASE", "SUPPORTED", "STATUS", "SCORE")
			for _, st := range statuses {
				supported := "yes"
				if !st.OSInfo.IsSupported {
					supported = "NO"
				}
				table.AddRow(
					truncate(st.DeviceName, 30),
					st.OSInfo.OSName+" "+st.OSInfo.Version,
					st.OSInfo.ReleaseName,
					supported,
					formatStatus(string(st.PatchStatus)),
					fmt.Sprintf("%.0f", st.ComplianceScore),
				)
			}
			table.Render()

			fmt.Printf("\nOverall health: %s  average score: %.1f  unsupported: %d  attention: %d\n",
				stats.OverallHealth, stats.AverageComplianceScore,
				stats.UnsupportedDevices, stats.AttentionCount)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "device records JSON file")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func newAuditWatchCmd() *cobra.Command {
	var inputPath string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run scheduled audits on the configured cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}

			runner := worker.NewAuditRunner(
				fileSource{app: app, path: inputPath},
				app.compliance, app.patches, app.assets,
				app.cfg.Worker.Schedule, app.log,
			)

			if err := runner.Start(); err != nil {
				return err
			}
			defer runner.Stop()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			<-stop
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "device records JSON file, re-read on every run")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

// staticSource serves a pre-loaded record batch
type staticSource []*device.Record

func (s staticSource) FetchRecords(ctx context.Context) ([]*device.Record, error) {
	return s, nil
}

// fileSource re-reads the records file on each run so watch mode picks up
// fresh exports.
type fileSource struct {
	app  *app
	path string
}

func (f fileSource) FetchRecords(ctx context.Context) ([]*device.Record, error) {
	return f.app.loadRecords(f.path)
}

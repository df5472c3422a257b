package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fleetlens/fleetlens/internal/domain/asset"
)

func newAssetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assets",
		Short: "Inspect the asset inventory",
	}

	cmd.AddCommand(newAssetsListCmd())
	cmd.AddCommand(newAssetsSummaryCmd())
	cmd.AddCommand(newAssetsFindCmd())
	cmd.AddCommand(newAssetsAuditCmd())

	return cmd
}

func newAssetsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all assets in the inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}

			assets, err := app.assets.All()
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(assets)
			}

			table := NewTable("ASSET ID", "NAME", "TYPE", "ASSIGNED TO", "STATUS", "WARRANTY", "VALUE")
			for _, a := range assets {
				table.AddRow(
					a.AssetID,
					truncate(a.DeviceName, 30),
					string(a.AssetType),
					truncate(a.AssignedTo, 30),
					formatStatus(string(a.Status)),
					string(a.WarrantyStatus),
					fmt.Sprintf("$%.0f", a.CurrentValue),
				)
			}
			table.Render()
			return nil
		},
	}
}

func newAssetsSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the inventory roll-up",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}

			summary, err := app.assets.Summary()
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(summary)
			}

			fmt.Printf("Total assets:        %d\n", summary.TotalAssets)
			fmt.Printf("Managed:             %d\n", summary.ManagedAssets)
			fmt.Printf("Unmanaged:           %d\n", summary.UnmanagedAssets)
			fmt.Printf("Need attention:      %d\n", summary.AssetsNeedingAction)
			fmt.Printf("Purchase value:      $%.2f\n", summary.TotalPurchaseValue)
			fmt.Printf("Current value:       $%.2f\n", summary.TotalCurrentValue)
			fmt.Printf("Total depreciation:  $%.2f\n", summary.TotalDepreciation)

			if len(summary.TypeCounts) > 0 {
				fmt.Println("\nBy type:")
				for t, n := range summary.TypeCounts {
					fmt.Printf("  %-12s %d\n", t, n)
				}
			}
			if len(summary.AttentionReasons) > 0 {
				fmt.Println("\nAttention reasons:")
				for reason, n := range summary.AttentionReasons {
					fmt.Printf("  %-30s %d\n", reason, n)
				}
			}
			return nil
		},
	}
}

func newAssetsFindCmd() *cobra.Command {
	var serial, user string

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Find assets by serial number or assigned user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if serial == "" && user == "" {
				return fmt.Errorf("either --serial or --user is required")
			}

			app, err := newApp()
			if err != nil {
				return err
			}

			var assets []*asset.Asset
			if serial != "" {
				assets, err = app.assets.FindBySerial(serial)
			} else {
				assets, err = app.assets.FindByUser(user)
			}
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(assets)
			}

			table := NewTable("ASSET ID", "NAME", "SERIAL", "ASSIGNED TO", "STATUS")
			for _, a := range assets {
				table.AddRow(
					a.AssetID,
					truncate(a.DeviceName, 30),
					a.SerialNumber,
					truncate(a.AssignedTo, 30),
					formatStatus(string(a.Status)),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&serial, "serial", "", "serial number to match exactly")
	cmd.Flags().StringVar(&user, "user", "", "username substring to match")

	return cmd
}

func newAssetsAuditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "duplicates",
		Short: "Report serial numbers claimed by multiple assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}

			dupes, err := app.assets.FindDuplicateSerials()
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(dupes)
			}

			if len(dupes) == 0 {
				fmt.Println("No duplicate serial numbers found.")
				return nil
			}

			table := NewTable("SERIAL", "ASSET ID", "NAME", "TYPE")
			for serial, group := range dupes {
				for _, a := range group {
					table.AddRow(serial, a.AssetID, truncate(a.DeviceName, 30), string(a.AssetType))
				}
			}
			table.Render()
			return nil
		},
	}
}

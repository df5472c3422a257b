package cli

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fleetlens/fleetlens/internal/config"
	"github.com/fleetlens/fleetlens/internal/domain/device"
	"github.com/fleetlens/fleetlens/internal/domain/policy"
	"github.com/fleetlens/fleetlens/internal/pkg/logger"
	"github.com/fleetlens/fleetlens/internal/pkg/validator"
	"github.com/fleetlens/fleetlens/internal/repository/jsonfile"
	"github.com/fleetlens/fleetlens/internal/services"
)

var outputFormat string

var rootCmd = &cobra.Command{
	Use:   "fleetlens",
	Short: "FleetLens - device fleet compliance and patch risk auditing",
	Long: `FleetLens evaluates device fleets against a compliance policy catalog,
scores OS patch risk, and maintains a persisted asset inventory built from
device observations.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, yaml")
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))

	rootCmd.AddCommand(newAuditCmd())
	rootCmd.AddCommand(newAssetsCmd())
}

func initConfig() {
	viper.SetEnvPrefix("FLEETLENS")
	viper.AutomaticEnv()
	viper.SetDefault("output", "table")
}

func getOutputFormat() string {
	if outputFormat != "" && outputFormat != "table" {
		return outputFormat
	}
	return viper.GetString("output")
}

// app bundles the wired services behind the CLI commands
type app struct {
	cfg        *config.Config
	log        *logger.Logger
	validator  *validator.Validator
	compliance *services.ComplianceService
	patches    *services.PatchService
	assets     *services.AssetService
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	clock := services.SystemClock()
	store := jsonfile.NewInventoryStore(cfg.Inventory.Path)

	return &app{
		cfg:        cfg,
		log:        log,
		validator:  validator.New(),
		compliance: services.NewComplianceService(policy.Default(), cfg.Engine, clock, log),
		patches: services.NewPatchService(
			services.NewOSVersionAnalyzer(clock), nil, clock, log),
		assets: services.NewAssetService(store, nil, cfg.Inventory, clock, log),
	}, nil
}

// loadRecords reads and validates device records from a JSON file
func (a *app) loadRecords(path string) ([]*device.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return device.ParseRecords(data, a.validator)
}

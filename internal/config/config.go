package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Engine    EngineConfig
	Inventory InventoryConfig
	Worker    WorkerConfig
	Logging   LoggingConfig
}

// EngineConfig contains compliance and patch evaluation settings
type EngineConfig struct {
	// CheckTypes is the set of enabled policy types
	CheckTypes []string
	// SeverityThreshold is the minimum policy severity evaluated
	// (critical, high, medium, low)
	SeverityThreshold string
	// AlertThreshold is the compliance score below which a device is
	// flagged with a "low score" attention reason
	AlertThreshold float64
	// TopPolicies is how many non-compliant policies the fleet ranking keeps
	TopPolicies int
	// Parallelism bounds the per-device evaluation fan-out
	Parallelism int
}

// InventoryConfig contains asset inventory settings
type InventoryConfig struct {
	// Path of the persisted inventory document
	Path string
	// DepreciationRate is the straight-line annual depreciation rate
	DepreciationRate float64
	// AttentionWindow is how long an asset may go unseen before it is flagged
	AttentionWindow time.Duration
	// WarrantyWarning is how close to warranty end "expiring soon" starts
	WarrantyWarning time.Duration
}

// WorkerConfig contains the scheduled audit runner settings
type WorkerConfig struct {
	Enabled  bool
	Schedule string // standard cron expression
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// DefaultCheckTypes is every built-in policy type
var DefaultCheckTypes = []string{
	"encryption", "password", "firewall", "antivirus",
	"screen_lock", "jailbreak", "minimum_os",
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors as it's optional)
	_ = godotenv.Load()

	cfg := &Config{
		Engine: EngineConfig{
			CheckTypes:        getEnvAsSlice("FLEETLENS_CHECK_TYPES", DefaultCheckTypes),
			SeverityThreshold: getEnv("FLEETLENS_SEVERITY_THRESHOLD", "medium"),
			AlertThreshold:    getEnvAsFloat("FLEETLENS_ALERT_THRESHOLD", 80.0),
			TopPolicies:       getEnvAsInt("FLEETLENS_TOP_POLICIES", 5),
			Parallelism:       getEnvAsInt("FLEETLENS_PARALLELISM", 8),
		},
		Inventory: InventoryConfig{
			Path:             getEnv("FLEETLENS_INVENTORY_PATH", "data/asset_inventory.json"),
			DepreciationRate: getEnvAsFloat("FLEETLENS_DEPRECIATION_RATE", 0.25),
			AttentionWindow:  getEnvAsDuration("FLEETLENS_ATTENTION_WINDOW", 90*24*time.Hour),
			WarrantyWarning:  getEnvAsDuration("FLEETLENS_WARRANTY_WARNING", 90*24*time.Hour),
		},
		Worker: WorkerConfig{
			Enabled:  getEnvAsBool("FLEETLENS_WORKER_ENABLED", false),
			Schedule: getEnv("FLEETLENS_WORKER_SCHEDULE", "0 6 * * *"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Engine.SeverityThreshold {
	case "critical", "high", "medium", "low", "informational":
	default:
		return fmt.Errorf("invalid severity threshold: %s", c.Engine.SeverityThreshold)
	}

	if c.Engine.AlertThreshold < 0 || c.Engine.AlertThreshold > 100 {
		return fmt.Errorf("alert threshold out of range: %f", c.Engine.AlertThreshold)
	}

	if c.Engine.Parallelism < 1 {
		return fmt.Errorf("parallelism must be at least 1: %d", c.Engine.Parallelism)
	}

	if c.Inventory.DepreciationRate < 0 || c.Inventory.DepreciationRate >= 1 {
		return fmt.Errorf("depreciation rate out of range: %f", c.Inventory.DepreciationRate)
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

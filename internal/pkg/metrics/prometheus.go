package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Compliance check metrics
	checksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fleetlens",
			Subsystem: "compliance",
			Name:      "checks_total",
			Help:      "Total number of compliance checks evaluated",
		},
		[]string{"policy_type", "status"},
	)

	complianceBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "fleetlens",
			Subsystem: "compliance",
			Name:      "batch_duration_seconds",
			Help:      "Duration of a fleet compliance batch in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	averageComplianceScore = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fleetlens",
			Subsystem: "compliance",
			Name:      "average_device_score",
			Help:      "Average device compliance score across the fleet",
		},
	)

	devicesRequiringAttention = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fleetlens",
			Subsystem: "compliance",
			Name:      "devices_requiring_attention",
			Help:      "Number of devices flagged as requiring attention",
		},
	)

	// Patch metrics
	patchStatusDevices = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "fleetlens",
			Subsystem: "patch",
			Name:      "devices_by_status",
			Help:      "Number of devices per patch status",
		},
		[]string{"status"},
	)

	unsupportedOSDevices = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fleetlens",
			Subsystem: "patch",
			Name:      "unsupported_os_devices",
			Help:      "Number of devices on an unsupported OS version",
		},
	)

	// Asset inventory metrics
	assetsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fleetlens",
			Subsystem: "asset",
			Name:      "inventory_total",
			Help:      "Total number of assets in the inventory",
		},
	)

	assetsNeedingAttention = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fleetlens",
			Subsystem: "asset",
			Name:      "needing_attention",
			Help:      "Number of assets flagged as requiring attention",
		},
	)

	mergeBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "fleetlens",
			Subsystem: "asset",
			Name:      "merge_duration_seconds",
			Help:      "Duration of an asset merge batch in seconds",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler for embedding
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordCheck records a single compliance check outcome
func RecordCheck(policyType, status string) {
	checksTotal.WithLabelValues(policyType, status).Inc()
}

// RecordComplianceBatch records the duration of a fleet compliance batch
func RecordComplianceBatch(duration time.Duration) {
	complianceBatchDuration.Observe(duration.Seconds())
}

// SetAverageComplianceScore sets the fleet average device score gauge
func SetAverageComplianceScore(score float64) {
	averageComplianceScore.Set(score)
}

// SetDevicesRequiringAttention sets the attention gauge
func SetDevicesRequiringAttention(count float64) {
	devicesRequiringAttention.Set(count)
}

// SetPatchStatusDevices sets the device count gauge for a patch status
func SetPatchStatusDevices(status string, count float64) {
	patchStatusDevices.WithLabelValues(status).Set(count)
}

// SetUnsupportedOSDevices sets the unsupported OS gauge
func SetUnsupportedOSDevices(count float64) {
	unsupportedOSDevices.Set(count)
}

// SetAssetsTotal sets the inventory size gauge
func SetAssetsTotal(count float64) {
	assetsTotal.Set(count)
}

// SetAssetsNeedingAttention sets the asset attention gauge
func SetAssetsNeedingAttention(count float64) {
	assetsNeedingAttention.Set(count)
}

// RecordMergeBatch records the duration of an asset merge batch
func RecordMergeBatch(duration time.Duration) {
	mergeBatchDuration.Observe(duration.Seconds())
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	FilesScannedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "seqsift_files_scanned_total",
			Help: "Total number of files probed for search patterns (count)",
		},
	)

	FilesMatchedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seqsift_files_matched_total",
			Help: "Total number of pattern detections per module (count)",
		},
		[]string{"module"},
	)

	FilesSkippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seqsift_files_skipped_total",
			Help: "Total number of files skipped during scanning (count)",
		},
		[]string{"reason"},
	)

	BytesProbedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "seqsift_bytes_probed_total",
			Help: "Total bytes read from candidate files (bytes)",
		},
	)

	ScanDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "seqsift_scan_duration_ms",
			Help:    "Duration of a full scan in milliseconds",
			Buckets: []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		},
	)

	PatternsLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "seqsift_patterns_loaded",
			Help: "Number of search patterns in the registry, counting alternatives (count)",
		},
	)

	ModulesEnabled = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "seqsift_modules_enabled",
			Help: "Number of modules enabled for matching (count)",
		},
	)
)

func RegisterScanMetrics() {
	prometheus.MustRegister(FilesScannedTotal)
	prometheus.MustRegister(FilesMatchedTotal)
	prometheus.MustRegister(FilesSkippedTotal)
	prometheus.MustRegister(BytesProbedTotal)
	prometheus.MustRegister(ScanDuration)
	prometheus.MustRegister(PatternsLoaded)
	prometheus.MustRegister(ModulesEnabled)
}

func ObserveScanDuration(d time.Duration) {
	ScanDuration.Observe(float64(d.Milliseconds()))
}

func SetPatternsLoaded(n int) {
	PatternsLoaded.Set(float64(n))
}

func SetModulesEnabled(n int) {
	ModulesEnabled.Set(float64(n))
}

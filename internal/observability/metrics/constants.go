package metrics

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Classification operation names recorded through Recorder.
const (
	OpDownload         = "download"
	OpDownloadCacheHit = "download_cache_hit"
	OpImportCSV        = "import_csv"
	OpImportEBird      = "import_ebird"
)

// Histogram bucket parameters.
const (
	// BucketStart1ms is the starting bucket for 1ms histograms.
	BucketStart1ms = 0.001
	// BucketStart100ms is the starting bucket for 100ms histograms.
	BucketStart100ms = 0.1
	// BucketStart1KB is the starting bucket for byte size histograms.
	BucketStart1KB = 1024.0

	BucketFactor2  = 2
	BucketFactor4  = 4
	BucketFactor10 = 10

	BucketCount6  = 6
	BucketCount10 = 10
	BucketCount12 = 12
	BucketCount15 = 15
)

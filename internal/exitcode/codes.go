package exitcode

// Exit codes for the landsat-dl CLI.
// Wrappers can use these to decide whether a rerun makes sense.
const (
	// Success - every identifier was downloaded or already present
	Success = 0

	// ConfigError - missing or invalid configuration or input
	// (credentials, dataset, identifier, band). Don't retry: fix the input first
	ConfigError = 1

	// NetworkError - transport failure or transfer timeout
	// Retry: the next run skips files that are already complete
	NetworkError = 2

	// APIError - the catalog rejected a request or offers no download URL
	// (auth, rate limit, unavailable product)
	APIError = 3

	// StorageError - failed to mirror to MinIO/S3
	// Retry with backoff
	StorageError = 4

	// DataError - malformed catalog response or download headers
	// Don't retry: investigate the source
	DataError = 5

	// ApplicationError - anything else, e.g. local filesystem failures
	ApplicationError = 6
)

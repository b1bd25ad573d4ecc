package bedwatch

import "errors"

// Sentinel errors returned by the Pipeline.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrFetcherRequired is returned when the page fetcher is nil.
	ErrFetcherRequired = errors.New("page fetcher is required")

	// ErrDirectoryRequired is returned when the directory lookup is nil.
	ErrDirectoryRequired = errors.New("directory lookup is required")

	// ErrPassInFlight is returned when a manual pass is requested while
	// another pass of the same pipeline is still executing.
	ErrPassInFlight = errors.New("a collection pass is already in flight")

	// ErrSubscriberRequired is returned when Join is called with a nil subscriber.
	ErrSubscriberRequired = errors.New("subscriber is required")
)

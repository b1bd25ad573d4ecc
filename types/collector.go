package types

import "context"

// PageFetcher retrieves one page of raw upstream data for a partition.
//
// The payload encoding is partition-source-specific; the collect package
// tolerates both a tree-structured and a flat-list encoding. Implementations
// should return transport errors as-is and leave payload interpretation to
// the caller: an unparsable body is not a fetch error.
type PageFetcher interface {
	// FetchPage retrieves a single page of records.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - partition: Partition key (e.g. a city name); empty string means a
	//     nationwide call covering every partition at once
	//   - page: 1-based page number
	//   - pageSize: Maximum number of records per page
	//
	// Returns:
	//   - []byte: Raw page payload
	//   - error: Transport failure
	FetchPage(ctx context.Context, partition string, page, pageSize int) ([]byte, error)
}

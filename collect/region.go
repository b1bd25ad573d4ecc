package collect

import (
	"context"
	"fmt"
	"time"

	"github.com/arloliu/bedwatch/types"
)

// CollectorConfig controls paging behavior for one collector instance.
type CollectorConfig struct {
	// PageSize is the number of records requested per page.
	PageSize int `yaml:"pageSize"`

	// MaxPages is the hard page cap per partition. 0 means no cap.
	MaxPages int `yaml:"maxPages"`

	// EmptyPageThreshold is the number of consecutive empty (or undecodable)
	// pages after which collection for the partition stops.
	EmptyPageThreshold int `yaml:"emptyPageThreshold"`

	// InterPageDelay is a fixed delay inserted between page calls, in
	// addition to the permit gate, to avoid bursting upstream.
	InterPageDelay time.Duration `yaml:"interPageDelay"`

	// StopOnShortPage stops collection when a page returns fewer than
	// PageSize records (last-page heuristic). The bounded per-partition
	// variant relies on MaxPages and the empty counter instead and leaves
	// this off; the single-call nationwide variant turns it on.
	StopOnShortPage bool `yaml:"stopOnShortPage"`
}

// Collector fetches one logical partition of upstream data, page by page.
//
// Every page call passes through the permit gate. Collection for a partition
// stops when the consecutive-empty counter reaches EmptyPageThreshold, the
// hard page cap is reached, or (when enabled) a page comes back short.
//
// Failure policy: a failure on the very first page aborts the whole partition
// and is reported as an error; a failure on any later page truncates
// collection but keeps everything accumulated so far.
type Collector struct {
	fetcher types.PageFetcher
	gate    *Gate
	cfg     CollectorConfig
	logger  types.Logger
	metrics types.MetricsCollector
}

// NewCollector creates a partition collector.
//
// Parameters:
//   - fetcher: Upstream page source
//   - gate: Permit gate shared with other collectors of the same source
//   - cfg: Paging configuration
//   - logger: Structured logger (must be non-nil; use logging.NewNop())
//   - metrics: Metrics collector (must be non-nil; use metrics.NewNop())
func NewCollector(fetcher types.PageFetcher, gate *Gate, cfg CollectorConfig, logger types.Logger, metrics types.MetricsCollector) *Collector {
	return &Collector{
		fetcher: fetcher,
		gate:    gate,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
	}
}

// Collect fetches all pages for one partition.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - partition: Partition key; empty string means a nationwide call
//
// Returns:
//   - []types.FacilityStatus: Accumulated records (partial on a
//     non-first-page failure)
//   - error: Non-nil only when the very first page failed
func (c *Collector) Collect(ctx context.Context, partition string) ([]types.FacilityStatus, error) {
	var out []types.FacilityStatus
	consecutiveEmpty := 0

	for page := 1; c.cfg.MaxPages == 0 || page <= c.cfg.MaxPages; page++ {
		if page > 1 {
			if err := sleepCtx(ctx, c.cfg.InterPageDelay); err != nil {
				c.logger.Debug("partition collection cancelled between pages",
					"partition", partition, "page", page)

				return out, nil
			}
		}

		records, outcome, err := c.fetchPage(ctx, partition, page)
		c.metrics.RecordPageFetch(partition, outcome)
		c.logger.Debug("page fetched",
			"partition", partition,
			"page", page,
			"outcome", outcome,
			"records", len(records),
		)

		if err != nil {
			if page == 1 {
				return nil, fmt.Errorf("first page failed for partition %q: %w", partition, err)
			}

			// Later-page failure truncates the partition but is not an error;
			// the next scheduled pass retries implicitly.
			c.logger.Warn("page fetch failed, truncating partition",
				"partition", partition, "page", page, "error", err)

			return out, nil
		}

		if len(records) == 0 {
			consecutiveEmpty++
			if consecutiveEmpty >= c.cfg.EmptyPageThreshold {
				break
			}

			continue
		}

		consecutiveEmpty = 0
		out = append(out, records...)

		if c.cfg.StopOnShortPage && len(records) < c.cfg.PageSize {
			break
		}
	}

	return out, nil
}

// fetchPage acquires a permit, fetches and decodes one page.
//
// Decode failures are reported as outcome "decode_error" with no error:
// an unparsable payload counts as an empty page, not a transport failure.
func (c *Collector) fetchPage(ctx context.Context, partition string, page int) ([]types.FacilityStatus, string, error) {
	if err := c.gate.Acquire(ctx); err != nil {
		return nil, "transport_error", fmt.Errorf("permit gate: %w", err)
	}

	payload, err := c.fetcher.FetchPage(ctx, partition, page, c.cfg.PageSize)
	if err != nil {
		return nil, "transport_error", err
	}

	records, err := decodePage(payload)
	if err != nil {
		return nil, "decode_error", nil
	}

	if len(records) == 0 {
		return nil, "empty", nil
	}

	return records, "ok", nil
}

// sleepCtx sleeps for d or until the context is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

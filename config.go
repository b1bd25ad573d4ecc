package bedwatch

import (
	"fmt"
	"time"
)

// Config is the configuration for the Pipeline.
//
// All duration fields accept standard Go duration strings like "300ms", "60s".
type Config struct {
	// Partitions are the partition keys (e.g. city names) iterated one at a
	// time in sequential mode. Ignored when Nationwide is true.
	Partitions []string `yaml:"partitions"`

	// Nationwide switches collection to a single large paged call covering
	// every partition at once, used when upstream supports it. No
	// inter-partition delay applies and paging is uncapped, stopping on a
	// short page instead.
	Nationwide bool `yaml:"nationwide"`

	// PageSize is the number of records requested per page.
	PageSize int `yaml:"pageSize"`

	// MaxPages is the hard page cap per partition in sequential mode.
	// Ignored when Nationwide is true (0 = uncapped).
	MaxPages int `yaml:"maxPages"`

	// EmptyPageThreshold is the number of consecutive empty or undecodable
	// pages after which a partition's collection stops.
	EmptyPageThreshold int `yaml:"emptyPageThreshold"`

	// PermitsPerSecond is the replenishment rate of the permit gate in front
	// of upstream page calls.
	PermitsPerSecond float64 `yaml:"permitsPerSecond"`

	// InterPageDelay is the fixed delay between page calls within a
	// partition, in addition to the permit gate.
	InterPageDelay time.Duration `yaml:"interPageDelay"`

	// InterPartitionDelay is the fixed delay between partitions in
	// sequential mode.
	InterPartitionDelay time.Duration `yaml:"interPartitionDelay"`

	// PassInterval is the fixed delay between the end of one pass and the
	// start of the next. Fixed-delay, not fixed-rate: a slow pass never
	// overlaps the next one.
	PassInterval time.Duration `yaml:"passInterval"`

	// PassTimeout bounds one full pass, so a hung upstream cannot wedge the
	// scheduler slot forever.
	PassTimeout time.Duration `yaml:"passTimeout"`

	// SendTimeout bounds a single subscriber send during fan-out.
	SendTimeout time.Duration `yaml:"sendTimeout"`
}

// DefaultConfig returns a Config with sensible defaults.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		PageSize:            100,
		MaxPages:            3,
		EmptyPageThreshold:  2,
		PermitsPerSecond:    5,
		InterPageDelay:      300 * time.Millisecond,
		InterPartitionDelay: 1 * time.Second,
		PassInterval:        60 * time.Second,
		PassTimeout:         5 * time.Minute,
		SendTimeout:         5 * time.Second,
	}
}

// SetDefaults fills in missing configuration values with production defaults.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.PageSize == 0 {
		cfg.PageSize = defaults.PageSize
	}
	if cfg.MaxPages == 0 && !cfg.Nationwide {
		cfg.MaxPages = defaults.MaxPages
	}
	if cfg.EmptyPageThreshold == 0 {
		cfg.EmptyPageThreshold = defaults.EmptyPageThreshold
	}
	if cfg.PermitsPerSecond == 0 {
		cfg.PermitsPerSecond = defaults.PermitsPerSecond
	}
	if cfg.InterPageDelay == 0 {
		cfg.InterPageDelay = defaults.InterPageDelay
	}
	if cfg.InterPartitionDelay == 0 {
		cfg.InterPartitionDelay = defaults.InterPartitionDelay
	}
	if cfg.PassInterval == 0 {
		cfg.PassInterval = defaults.PassInterval
	}
	if cfg.PassTimeout == 0 {
		cfg.PassTimeout = defaults.PassTimeout
	}
	if cfg.SendTimeout == 0 {
		cfg.SendTimeout = defaults.SendTimeout
	}
}

// Validate checks configuration constraints and returns an error for invalid values.
//
// Hard validation rules:
//   - sequential mode requires at least one partition
//   - PageSize > 0, EmptyPageThreshold >= 1, PermitsPerSecond > 0
//   - PassInterval > 0 and PassTimeout > 0
//   - delays must not be negative
//
// Returns:
//   - error: Validation error with a clear explanation, nil if valid
func (cfg *Config) Validate() error {
	if !cfg.Nationwide && len(cfg.Partitions) == 0 {
		return fmt.Errorf("sequential mode requires at least one partition (or set nationwide: true)")
	}

	if cfg.PageSize <= 0 {
		return fmt.Errorf("PageSize must be > 0, got %d", cfg.PageSize)
	}

	if cfg.EmptyPageThreshold < 1 {
		return fmt.Errorf("EmptyPageThreshold must be >= 1, got %d", cfg.EmptyPageThreshold)
	}

	if cfg.PermitsPerSecond <= 0 {
		return fmt.Errorf("PermitsPerSecond must be > 0, got %v", cfg.PermitsPerSecond)
	}

	if cfg.PassInterval <= 0 {
		return fmt.Errorf("PassInterval must be > 0, got %v", cfg.PassInterval)
	}

	if cfg.PassTimeout <= 0 {
		return fmt.Errorf("PassTimeout must be > 0, got %v", cfg.PassTimeout)
	}

	if cfg.InterPageDelay < 0 || cfg.InterPartitionDelay < 0 {
		return fmt.Errorf("inter-page and inter-partition delays must not be negative")
	}

	if cfg.MaxPages < 0 {
		return fmt.Errorf("MaxPages must not be negative, got %d", cfg.MaxPages)
	}

	return nil
}

// TestConfig returns a configuration optimized for fast test execution.
//
// Test timings are 10-100x faster than production defaults to enable rapid
// iteration without sacrificing coverage. Use DefaultConfig() for production
// deployments.
//
// Returns:
//   - Config: Configuration with fast timings for tests
func TestConfig() Config {
	cfg := DefaultConfig()

	cfg.PermitsPerSecond = 1000
	cfg.InterPageDelay = time.Millisecond
	cfg.InterPartitionDelay = time.Millisecond
	cfg.PassInterval = 50 * time.Millisecond
	cfg.PassTimeout = 5 * time.Second
	cfg.SendTimeout = time.Second

	return cfg
}

package cache

import (
	"time"

	"github.com/goliatone/go-repository-kit/internal/cacheinfra"
)

// Config exposes cache configuration options for consumers of the cache package.
// Tags let the application config layer load it from files and environment.
type Config struct {
	Capacity             int                 `mapstructure:"capacity" env:"CAPACITY"`
	NumShards            int                 `mapstructure:"num_shards" env:"NUM_SHARDS"`
	TTL                  time.Duration       `mapstructure:"ttl" env:"TTL"`
	EvictionPercentage   int                 `mapstructure:"eviction_percentage" env:"EVICTION_PERCENTAGE"`
	EarlyRefresh         *EarlyRefreshConfig `mapstructure:"early_refresh"`
	MissingRecordStorage bool                `mapstructure:"missing_record_storage" env:"MISSING_RECORD_STORAGE"`
	EvictionInterval     time.Duration       `mapstructure:"eviction_interval" env:"EVICTION_INTERVAL"`
	MaxKeyLength         int                 `mapstructure:"max_key_length" env:"MAX_KEY_LENGTH"`
}

// EarlyRefreshConfig mirrors the underlying sturdyc early refresh options.
type EarlyRefreshConfig struct {
	MinAsyncRefreshTime time.Duration `mapstructure:"min_async_refresh_time"`
	MaxAsyncRefreshTime time.Duration `mapstructure:"max_async_refresh_time"`
	SyncRefreshTime     time.Duration `mapstructure:"sync_refresh_time"`
	RetryBaseDelay      time.Duration `mapstructure:"retry_base_delay"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	cfg := convertFromInternal(cacheinfra.DefaultConfig())
	cfg.MaxKeyLength = DefaultMaxKeyLength
	return cfg
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return c.ToInternal().Validate()
}

// NewCacheService constructs the default cache service implementation using the provided configuration.
func NewCacheService(cfg Config) (CacheService, error) {
	return cacheinfra.NewSturdycService(cfg.ToInternal())
}

// NewStorage constructs an in-process Storage backed by the same cache engine
// as NewCacheService.
func NewStorage(cfg Config) (FlushableStorage, error) {
	return cacheinfra.NewSturdycStorage(cfg.ToInternal())
}

// NewKeySerializer returns the serializer matching the configuration: the
// default serializer, hashed when MaxKeyLength is positive.
func (c Config) NewKeySerializer(namespace string) KeySerializer {
	var base KeySerializer = NewDefaultKeySerializer()
	if namespace != "" {
		base = NewNamespacedKeySerializer(namespace)
	}
	if c.MaxKeyLength > 0 {
		return NewHashedKeySerializer(base, c.MaxKeyLength)
	}
	return base
}

// ToInternal converts to the engine configuration.
func (c Config) ToInternal() cacheinfra.Config {
	var early *cacheinfra.EarlyRefreshConfig
	if c.EarlyRefresh != nil {
		early = &cacheinfra.EarlyRefreshConfig{
			MinAsyncRefreshTime: c.EarlyRefresh.MinAsyncRefreshTime,
			MaxAsyncRefreshTime: c.EarlyRefresh.MaxAsyncRefreshTime,
			SyncRefreshTime:     c.EarlyRefresh.SyncRefreshTime,
			RetryBaseDelay:      c.EarlyRefresh.RetryBaseDelay,
		}
	}

	return cacheinfra.Config{
		Capacity:             c.Capacity,
		NumShards:            c.NumShards,
		TTL:                  c.TTL,
		EvictionPercentage:   c.EvictionPercentage,
		EarlyRefresh:         early,
		MissingRecordStorage: c.MissingRecordStorage,
		EvictionInterval:     c.EvictionInterval,
	}
}

func convertFromInternal(cfg cacheinfra.Config) Config {
	var early *EarlyRefreshConfig
	if cfg.EarlyRefresh != nil {
		early = &EarlyRefreshConfig{
			MinAsyncRefreshTime: cfg.EarlyRefresh.MinAsyncRefreshTime,
			MaxAsyncRefreshTime: cfg.EarlyRefresh.MaxAsyncRefreshTime,
			SyncRefreshTime:     cfg.EarlyRefresh.SyncRefreshTime,
			RetryBaseDelay:      cfg.EarlyRefresh.RetryBaseDelay,
		}
	}

	return Config{
		Capacity:             cfg.Capacity,
		NumShards:            cfg.NumShards,
		TTL:                  cfg.TTL,
		EvictionPercentage:   cfg.EvictionPercentage,
		EarlyRefresh:         early,
		MissingRecordStorage: cfg.MissingRecordStorage,
		EvictionInterval:     cfg.EvictionInterval,
	}
}

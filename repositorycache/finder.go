package repositorycache

import (
	"context"
	"errors"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/goliatone/go-repository-kit/cache"
	"github.com/goliatone/go-repository-kit/pkg/logger"
	"github.com/goliatone/go-repository-kit/validator"
)

// FindOneByMethod is the method segment of every key built by CachedFinder.
const FindOneByMethod = "FindOneBy"

var _ validator.Finder[any] = (*CachedFinder[any])(nil)

// errMissNotCached keeps a miss out of the cache when miss caching is off.
var errMissNotCached = errors.New("record not found, result not cached")

// findResult is what gets cached. Found is false only when miss caching is on.
type findResult[T any] struct {
	Record T    `json:"record" msgpack:"record"`
	Found  bool `json:"found" msgpack:"found"`
}

type keySet = *xsync.MapOf[string, struct{}]

// CachedFinder decorates a validator.Finder with read-through caching.
type CachedFinder[T any] struct {
	base          validator.Finder[T]
	cache         cache.CacheService
	keySerializer cache.KeySerializer
	namespace     string
	keyRegistry   keySet
	tagRegistry   *xsync.MapOf[string, keySet]
	cacheMisses   bool
	logger        *logger.Logger
}

// Option customizes a CachedFinder.
type Option func(*options)

type options struct {
	logger      *logger.Logger
	namespace   string
	cacheMisses bool
}

// WithLogger sets the logger used to report cache failures.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithNamespace overrides the namespace derived from the record type. It is
// only used when no key serializer is given.
func WithNamespace(namespace string) Option {
	return func(o *options) { o.namespace = namespace }
}

// WithMissCaching caches "not found" results as well. A record written
// after a cached miss stays invisible until the entry expires or is
// invalidated, so only enable it when writers invalidate the finder.
func WithMissCaching() Option {
	return func(o *options) { o.cacheMisses = true }
}

// New wraps base. Only found records are cached unless WithMissCaching is
// given. When keySerializer is nil keys are namespaced with the
// snake_case name of T.
func New[T any](base validator.Finder[T], cacheService cache.CacheService, keySerializer cache.KeySerializer, opts ...Option) *CachedFinder[T] {
	o := options{namespace: Namespace[T]()}
	for _, opt := range opts {
		opt(&o)
	}

	if keySerializer == nil {
		keySerializer = cache.NewNamespacedKeySerializer(o.namespace)
	}

	return &CachedFinder[T]{
		base:          base,
		cache:         cacheService,
		keySerializer: keySerializer,
		namespace:     o.namespace,
		keyRegistry:   xsync.NewMapOf[string, struct{}](),
		tagRegistry:   xsync.NewMapOf[string, keySet](),
		cacheMisses:   o.cacheMisses,
		logger:        logger.OrNop(o.logger),
	}
}

// Namespace returns the namespace used for derived keys.
func (c *CachedFinder[T]) Namespace() string {
	return c.namespace
}

// Key returns the cache key for criteria.
func (c *CachedFinder[T]) Key(criteria map[string]any) string {
	return c.keySerializer.SerializeKey(FindOneByMethod, criteria)
}

// FindOneBy serves the lookup from cache, calling the base finder on a miss.
// Errors of the base finder are returned unchanged and are not cached. When
// the cache itself fails the failure is logged and the base finder is
// called directly.
func (c *CachedFinder[T]) FindOneBy(ctx context.Context, criteria map[string]any) (T, bool, error) {
	key := c.Key(criteria)
	c.trackKey(ctx, key)

	var baseErr error
	res, err := cache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) (findResult[T], error) {
		record, found, err := c.base.FindOneBy(ctx, criteria)
		if err != nil {
			baseErr = err
			return findResult[T]{}, err
		}
		if !found && !c.cacheMisses {
			return findResult[T]{}, errMissNotCached
		}
		return findResult[T]{Record: record, Found: found}, nil
	})

	if err == nil {
		return res.Record, res.Found, nil
	}

	if errors.Is(err, errMissNotCached) {
		var zero T
		return zero, false, nil
	}

	if baseErr != nil {
		var zero T
		return zero, false, baseErr
	}

	c.logger.Warn().
		Err(err).
		Str("key", key).
		Msg("cache lookup failed, falling back to finder")

	return c.base.FindOneBy(ctx, criteria)
}

// Invalidate drops every key this finder has cached.
func (c *CachedFinder[T]) Invalidate(ctx context.Context) error {
	var errs []error
	c.keyRegistry.Range(func(key string, _ struct{}) bool {
		if err := c.deleteKey(ctx, key); err != nil {
			errs = append(errs, err)
		}
		return true
	})
	c.tagRegistry.Clear()
	return errors.Join(errs...)
}

// InvalidateCriteria drops the entry cached for criteria.
func (c *CachedFinder[T]) InvalidateCriteria(ctx context.Context, criteria map[string]any) error {
	return c.deleteKey(ctx, c.Key(criteria))
}

// InvalidateTag drops every key registered under tag.
func (c *CachedFinder[T]) InvalidateTag(ctx context.Context, tag string) error {
	keys, ok := c.tagRegistry.LoadAndDelete(tag)
	if !ok {
		return nil
	}

	var errs []error
	keys.Range(func(key string, _ struct{}) bool {
		if err := c.deleteKey(ctx, key); err != nil {
			errs = append(errs, err)
		}
		return true
	})
	return errors.Join(errs...)
}

// TrackedKeys returns the number of keys currently tracked.
func (c *CachedFinder[T]) TrackedKeys() int {
	return c.keyRegistry.Size()
}

func (c *CachedFinder[T]) trackKey(ctx context.Context, key string) {
	c.keyRegistry.Store(key, struct{}{})
	for _, tag := range cacheTagsFromContext(ctx) {
		keys, _ := c.tagRegistry.LoadOrCompute(tag, func() keySet {
			return xsync.NewMapOf[string, struct{}]()
		})
		keys.Store(key, struct{}{})
	}
}

func (c *CachedFinder[T]) deleteKey(ctx context.Context, key string) error {
	c.keyRegistry.Delete(key)
	if err := c.cache.Delete(ctx, key); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache delete failed")
		return err
	}
	return nil
}

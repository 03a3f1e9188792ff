package di

import (
	"context"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-repository-kit/cache"
	"github.com/goliatone/go-repository-kit/cli"
	"github.com/goliatone/go-repository-kit/events"
	"github.com/goliatone/go-repository-kit/pkg/logger"
	"github.com/goliatone/go-repository-kit/repositorycache"
	"github.com/goliatone/go-repository-kit/validator"
)

var (
	// ErrMissingInstance is returned by NewStorageCache when no storage
	// service name is given.
	ErrMissingInstance = errors.New("storage cache must have a referenced cache instance")

	// ErrServiceNotFound is returned when a named service is not registered.
	ErrServiceNotFound = errors.New("service not found")
)

var _ cli.Locator = (*Container)(nil)

// Container provides dependency injection for the cache and validator
// components. It manages singleton instances of the cache service and key
// serializer, holds named application services and carries the shared event
// manager used to extend the command line application.
type Container struct {
	cacheService  cache.CacheService
	keySerializer cache.KeySerializer
	config        cache.Config
	services      *xsync.MapOf[string, any]
	events        *events.SharedManager
	logger        *logger.Logger
	cliName       string
	cliVersion    string
}

// Option customizes a Container.
type Option func(*Container)

// WithLogger sets the logger handed to the components built by the
// container.
func WithLogger(l *logger.Logger) Option {
	return func(c *Container) { c.logger = l }
}

// WithSharedEvents uses shared instead of a private shared event manager.
func WithSharedEvents(shared *events.SharedManager) Option {
	return func(c *Container) { c.events = shared }
}

// WithCLI sets the name and version reported by the command line
// application.
func WithCLI(name, version string) Option {
	return func(c *Container) {
		c.cliName = name
		c.cliVersion = version
	}
}

// NewContainer creates a new DI container with the provided cache
// configuration. It initializes the cache service using the sturdyc adapter
// and the key serializer matching the configuration.
func NewContainer(config cache.Config, opts ...Option) (*Container, error) {
	cacheService, err := cache.NewCacheService(config)
	if err != nil {
		return nil, err
	}

	c := &Container{
		cacheService:  cacheService,
		keySerializer: config.NewKeySerializer(""),
		config:        config,
		services:      xsync.NewMapOf[string, any](),
		cliName:       cli.DefaultName,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.events == nil {
		c.events = events.NewSharedManager()
	}
	c.logger = logger.OrNop(c.logger)

	c.logger.Debug().
		Int("capacity", config.Capacity).
		Dur("ttl", config.TTL).
		Msg("container initialized")

	return c, nil
}

// NewContainerWithDefaults creates a new DI container using the default
// cache configuration.
func NewContainerWithDefaults(opts ...Option) (*Container, error) {
	return NewContainer(cache.DefaultConfig(), opts...)
}

// CacheService returns the singleton cache service instance.
func (c *Container) CacheService() cache.CacheService {
	return c.cacheService
}

// KeySerializer returns the singleton key serializer instance.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

// Config returns a copy of the cache configuration used by this container.
func (c *Container) Config() cache.Config {
	return c.config
}

// Logger returns the container logger.
func (c *Container) Logger() *logger.Logger {
	return c.logger
}

// SharedEvents returns the shared event manager listeners attach to.
func (c *Container) SharedEvents() *events.SharedManager {
	return c.events
}

// EventManager returns a manager reading listeners of identifiers from the
// shared manager.
func (c *Container) EventManager(identifiers ...string) *events.Manager {
	m := events.NewManager(c.events, identifiers...)
	m.SetLogger(c.logger)
	return m
}

// Set registers svc under name, replacing any previous service.
func (c *Container) Set(name string, svc any) {
	c.services.Store(name, svc)
	c.logger.Debug().Str("service", name).Str("type", fmt.Sprintf("%T", svc)).Msg("service registered")
}

// Get returns the service registered under name.
func (c *Container) Get(name string) (any, bool) {
	return c.services.Load(name)
}

// Has reports whether a service is registered under name.
func (c *Container) Has(name string) bool {
	_, ok := c.services.Load(name)
	return ok
}

// NewStorageCache builds a StorageCache around the storage service
// registered as instance.
func NewStorageCache(c *Container, instance string) (*cache.StorageCache, error) {
	if instance == "" {
		return nil, goerrors.Wrap(ErrMissingInstance, goerrors.CategoryBadInput, "invalid storage cache configuration").
			WithTextCode("STORAGE_CACHE_MISSING_INSTANCE")
	}

	svc, ok := c.Get(instance)
	if !ok {
		return nil, goerrors.Wrap(
			fmt.Errorf("%w: %q", ErrServiceNotFound, instance),
			goerrors.CategoryNotFound,
			"storage "+instance+" is not registered",
		).WithTextCode("STORAGE_CACHE_UNKNOWN_INSTANCE")
	}

	storage, ok := svc.(cache.Storage)
	if !ok {
		return nil, goerrors.Wrap(
			fmt.Errorf("%w: retrieved storage %q is not a cache.Storage instance, %T found", cache.ErrInvalidStorage, instance, svc),
			goerrors.CategoryBadInput,
			"invalid storage cache configuration",
		).WithTextCode("STORAGE_CACHE_INVALID_INSTANCE")
	}

	c.logger.Debug().Str("instance", instance).Msg("storage cache created")
	return cache.NewStorageCache(storage), nil
}

// NewCLI builds the command line application and lets listeners of
// cli.LoadEvent add their commands. The container is passed to listeners
// as the cli.ParamContainer parameter.
func NewCLI(ctx context.Context, c *Container) (*cobra.Command, error) {
	root := cli.NewApplication(c.cliName, c.cliVersion)

	_, err := c.EventManager(cli.Identifier).Trigger(ctx, cli.LoadEvent, root, map[string]any{
		cli.ParamContainer: c,
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug().Int("commands", len(root.Commands())).Msg("cli application created")
	return root, nil
}

// NewCachedFinder wraps base with the container cache service. Keys are
// namespaced with the snake_case name of T.
//
// Since Go methods cannot have type parameters, this is provided as a package-level function.
// Example: NewCachedFinder[User](container, finder.NewRepositoryFinder(users))
func NewCachedFinder[T any](c *Container, base validator.Finder[T], opts ...repositorycache.Option) *repositorycache.CachedFinder[T] {
	return NewNamedCachedFinder(c, repositorycache.Namespace[T](), base, opts...)
}

// NewNamedCachedFinder is NewCachedFinder with an explicit key namespace,
// for record types without a useful name such as SQL rows.
func NewNamedCachedFinder[T any](c *Container, namespace string, base validator.Finder[T], opts ...repositorycache.Option) *repositorycache.CachedFinder[T] {
	serializer := c.config.NewKeySerializer(namespace)
	opts = append([]repositorycache.Option{
		repositorycache.WithLogger(c.logger),
		repositorycache.WithNamespace(namespace),
	}, opts...)
	return repositorycache.New(base, c.cacheService, serializer, opts...)
}

// NewRecordExists builds a RecordExists validator using the container
// logger when cfg has none.
func NewRecordExists[T any](c *Container, cfg validator.Config[T]) (*validator.RecordExists[T], error) {
	return validator.NewRecordExists(withLogger(c, cfg))
}

// NewNoRecordExists builds a NoRecordExists validator using the container
// logger when cfg has none.
func NewNoRecordExists[T any](c *Container, cfg validator.Config[T]) (*validator.NoRecordExists[T], error) {
	return validator.NewNoRecordExists(withLogger(c, cfg))
}

// NewUniqueRecord builds a UniqueRecord validator using the container
// logger when cfg has none.
func NewUniqueRecord[T any](c *Container, cfg validator.Config[T]) (*validator.UniqueRecord[T], error) {
	return validator.NewUniqueRecord(withLogger(c, cfg))
}

func withLogger[T any](c *Container, cfg validator.Config[T]) validator.Config[T] {
	if cfg.Logger == nil {
		cfg.Logger = c.logger
	}
	return cfg
}

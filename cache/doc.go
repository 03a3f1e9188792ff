// Package cache provides the caching building blocks used around finders.
//
// # Overview
//
// Two independent surfaces live here:
//
//   - CacheService: read-through caching (GetOrFetch) used by the
//     repositorycache decorators, with KeySerializer building stable keys
//   - StorageCache: a bridge that turns an application's key/value Storage
//     into a record Cache, encoding values with msgpack
//
// # Read-through usage
//
//	serializer := cache.NewNamespacedKeySerializer("user")
//	key := serializer.SerializeKey("FindOneBy", map[string]any{"email": "a@b.com"})
//	result, err := cache.GetOrFetch(ctx, service, key, func(ctx context.Context) (User, error) {
//		return load(ctx)
//	})
//
// # Key Serialization Strategy
//
// The default key serializer walks values with reflection:
//
//   - Maps: sorted key=value pairs, so criteria maps give deterministic keys
//   - Stringers (uuid.UUID, time.Time): their String form
//   - Slices/arrays/structs: recursive, exported struct fields only
//   - Functions and channels: pointer address, stable only within a process
//
// HashedKeySerializer bounds key length for backends with key limits by
// hashing the argument segments with xxhash while leaving the namespace and
// method readable for prefix invalidation.
//
// # Storage bridge
//
//	bridge := cache.NewStorageCache(storage)
//	_ = bridge.Save(ctx, "user:1", user)
//	found, err := bridge.FetchInto(ctx, "user:1", &user)
//
// Storages that also implement FlushableStorage or SizedStorage enable
// Flush and the Entries statistic.
package cache

// Package repositorycache adds read-through caching to validator finders.
//
// # Overview
//
// CachedFinder wraps any validator.Finder and serves FindOneBy from a
// cache.CacheService. Found records are cached, so repeated validation of
// an existing value does not hit the database again. Misses always reach the
// wrapped finder, so a uniqueness check sees a record as soon as it is
// written. WithMissCaching caches misses too, for callers that invalidate
// the finder on every write. Errors of the wrapped finder are returned as is
// and never cached.
//
// # Basic Usage
//
//	service, _ := cache.NewCacheService(cache.DefaultConfig())
//	users := finder.NewRepositoryFinder[*User](userRepo)
//	cached := repositorycache.New[*User](users, service, nil)
//
//	validator, _ := validator.NewRecordExists(validator.Config[*User]{
//		Finder: cached,
//		Fields: "email",
//	})
//
// # Keys
//
// Keys have the form <namespace>::FindOneBy::<criteria>. The namespace is
// the snake_case name of the record type (*UserAccount gives
// "user_account") unless a key serializer is passed to New. Criteria maps
// are serialized with sorted keys.
//
// # Invalidation
//
// The finder tracks every key it produced:
//
//   - Invalidate drops all of them, e.g. after a bulk import
//   - InvalidateCriteria drops the entry for one criteria map
//   - InvalidateTag drops the keys registered under a tag
//
// Tags come from the context used for the lookup:
//
//	ctx = repositorycache.WithCacheTags(ctx, "tenant:42")
//	_, _, _ = cached.FindOneBy(ctx, map[string]any{"email": email})
//	_ = cached.InvalidateTag(ctx, "tenant:42")
//
// # Cache failures
//
// When the cache service fails (or returns a value of an unexpected type)
// the failure is logged at warn level and the wrapped finder is called
// directly, so a broken cache degrades to uncached lookups.
package repositorycache

// Package persist stores the partial-state projection of navigation trees.
//
// A [Store] maps a string key (one per host container, or per user in a
// multi-tenant server) to the serialized partial state of that container's
// tree. Everything a store returns is stale and must be rehydrated against
// the current navigator configuration before use; this is what lets a tree
// persisted by an older configuration load safely after routes were renamed
// or removed.
//
// # Backends
//
//   - [FileStore]: JSON files under a directory, sharded by key hash, with
//     optional expiry. The default for the CLI.
//   - [MemoryStore]: in-process map, for tests and single-process servers.
//   - [NullStore]: never stores anything.
//   - [RedisStore]: go-redis, for servers sharing state across instances.
//   - [MongoStore]: MongoDB documents with a TTL index, for durable storage.
//
// [Scoped] prefixes keys for tenant isolation, and [Open] builds a store
// from a [Config] and reports its operations to observability hooks.
//
// # Misses and errors
//
// Load returns (nil, nil) when nothing is stored under a key. Backend failures
// are wrapped with code STORE_ERROR; remote backends retry transient network
// failures with [RetryWithBackoff] before giving up.
package persist

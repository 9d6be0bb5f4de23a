// Package cache stores rendered reports so repeated CLI runs over the same
// snapshot skip the reverse index build.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance, for teams analysing the same dumps
//   - [NullCache]: stores nothing (caching disabled)
//
// Keys are built with [ReportKey] from the hash of the snapshot file, so any
// change to the input data produces new keys and stale entries simply age out.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key and whether it was found. Expired
	// entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// ReportKey builds the key for the output of command run on pkg against the
// snapshot whose content hash is snapshotHash. Extra options that change the
// output (flags, thresholds) go in opts.
func ReportKey(snapshotHash, command, pkg string, opts ...any) string {
	return hashKey("report", snapshotHash, command, pkg, opts)
}

// keyType is the label reported to cache hooks.
const keyType = "report"

// Package cache accelerates public catalog reads. Entries live under a namespace (one per
// entity type); writers invalidate a namespace by bumping its version, so stale keys are
// never read again and simply expire.
package cache

import (
	"context"
	"time"
)

// Namespaces used by the catalog handlers.
const (
	Blogs      = "blog"
	Brands     = "brands"
	Categories = "categories"
	Products   = "products"
)

// All lists every catalog namespace.
var All = []string{Blogs, Brands, Categories, Products}

// Version identifies a namespace generation. A miss returns the version the lookup saw;
// passing it back to Set keeps a response loaded before an invalidation from being stored
// under the newer generation.
type Version int64

// NoVersion is returned when the namespace version could not be read. Set ignores it.
const NoVersion Version = -1

// Cache stores serialized responses.
type Cache interface {
	Get(ctx context.Context, namespace, key string) ([]byte, Version, bool)
	Set(ctx context.Context, namespace, key string, version Version, value []byte)
	Invalidate(ctx context.Context, namespaces ...string)
}

// Noop never stores anything. It is used when Redis is not configured.
type Noop struct{}

func (Noop) Get(context.Context, string, string) ([]byte, Version, bool) { return nil, NoVersion, false }
func (Noop) Set(context.Context, string, string, Version, []byte)        {}
func (Noop) Invalidate(context.Context, ...string)                       {}

// DefaultTTL applies when a non-positive TTL is configured.
const DefaultTTL = time.Minute

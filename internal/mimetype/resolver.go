// Package mimetype resolves probed audio formats against the MIME catalogue,
// keeping recent answers in memory.
package mimetype

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/fhuszti/recordings-ms-go/internal/metrics"
	"github.com/fhuszti/recordings-ms-go/internal/model"
	"github.com/fhuszti/recordings-ms-go/internal/port"
)

const cacheName = "mime_type"

type Resolver struct {
	repo  port.MimeTypeRepository
	cache *expirable.LRU[model.AudioFormat, *model.MimeType]
}

// compile-time check: *Resolver must satisfy port.MimeTypeResolver
var _ port.MimeTypeResolver = (*Resolver)(nil)

func NewResolver(repo port.MimeTypeRepository, size int, ttl time.Duration) *Resolver {
	if size < 1 {
		size = 1
	}
	return &Resolver{
		repo:  repo,
		cache: expirable.NewLRU[model.AudioFormat, *model.MimeType](size, nil, ttl),
	}
}

// Resolve only caches hits; unknown formats go back to the database every time
// so that newly seeded entries are picked up.
func (r *Resolver) Resolve(ctx context.Context, f model.AudioFormat) (*model.MimeType, error) {
	if m, ok := r.cache.Get(f); ok {
		metrics.CacheHitsTotal.WithLabelValues(cacheName).Inc()
		return m, nil
	}
	metrics.CacheMissesTotal.WithLabelValues(cacheName).Inc()

	m, err := r.repo.FindByFormat(ctx, f)
	if err != nil {
		return nil, err
	}
	r.cache.Add(f, m)
	return m, nil
}

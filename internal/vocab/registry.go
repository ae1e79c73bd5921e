package vocab

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"omop-data/internal/repository"
	"omop-data/internal/store"

	"go.uber.org/zap"
)

const cacheKeyPrefix = "omop:lookup:"

// Registry builds lookup indexes lazily and caches them for its lifetime.
// A registry is scoped to one database, so an index is built at most once
// per process per database. When a KV store is attached, built indexes are
// also shared across processes; KV failures are logged and ignored since the
// cache is purely an optimisation.
type Registry struct {
	source  repository.ConceptSource
	catalog Catalog
	kv      store.KV
	ttl     time.Duration
	logger  *zap.Logger

	mu    sync.Mutex
	cache map[string]*LookupIndex
}

// NewRegistry creates a registry over a concept source and spec catalog.
// kv may be nil to disable cross-process sharing.
func NewRegistry(source repository.ConceptSource, catalog Catalog, kv store.KV, ttl time.Duration, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		source:  source,
		catalog: catalog,
		kv:      kv,
		ttl:     ttl,
		logger:  logger,
		cache:   make(map[string]*LookupIndex),
	}
}

// Index returns the built index for a named spec, building it on first use.
func (r *Registry) Index(ctx context.Context, name string) (*LookupIndex, error) {
	r.mu.Lock()
	if ix, ok := r.cache[name]; ok {
		r.mu.Unlock()
		return ix, nil
	}
	r.mu.Unlock()

	spec, ok := r.catalog[name]
	if !ok {
		return nil, fmt.Errorf("unknown lookup spec %q", name)
	}

	if ix := r.fromKV(ctx, name); ix != nil {
		r.store(name, ix)
		return ix, nil
	}

	ix, err := BuildIndex(ctx, r.source, spec)
	if err != nil {
		return nil, err
	}
	r.store(name, ix)
	r.toKV(ctx, name, ix)
	return ix, nil
}

// Resolver returns a resolver over the named index. The runtime normalizer
// follows the spec's build-time normalizer; corrections are per-call because
// they belong to the data source being resolved, not to the vocabulary.
func (r *Registry) Resolver(ctx context.Context, name string, corrections ...Normalizer) (*ConceptResolver, error) {
	ix, err := r.Index(ctx, name)
	if err != nil {
		return nil, err
	}
	spec := r.catalog[name]
	return NewConceptResolver(ix, spec.normalizer(), corrections...), nil
}

func (r *Registry) store(name string, ix *LookupIndex) {
	r.mu.Lock()
	r.cache[name] = ix
	r.mu.Unlock()
}

func (r *Registry) fromKV(ctx context.Context, name string) *LookupIndex {
	if r.kv == nil {
		return nil
	}
	raw, err := r.kv.Get(ctx, cacheKeyPrefix+name)
	if err != nil {
		if err != store.ErrMiss {
			r.logger.Warn("lookup cache read failed",
				zap.String("lookup", name), zap.Error(err))
		}
		return nil
	}
	var ix LookupIndex
	if err := json.Unmarshal([]byte(raw), &ix); err != nil {
		r.logger.Warn("lookup cache entry corrupt, rebuilding",
			zap.String("lookup", name), zap.Error(err))
		return nil
	}
	r.logger.Debug("lookup index loaded from cache",
		zap.String("lookup", name), zap.Int("keys", len(ix.Mapping)))
	return &ix
}

func (r *Registry) toKV(ctx context.Context, name string, ix *LookupIndex) {
	if r.kv == nil {
		return
	}
	raw, err := json.Marshal(ix)
	if err != nil {
		return
	}
	if err := r.kv.Set(ctx, cacheKeyPrefix+name, string(raw), r.ttl); err != nil {
		r.logger.Warn("lookup cache write failed",
			zap.String("lookup", name), zap.Error(err))
		return
	}
	r.logger.Debug("lookup index cached",
		zap.String("lookup", name), zap.Int("keys", len(ix.Mapping)))
}

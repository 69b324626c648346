// Package cache provides the read-through, process-wide memoization
// layer over the dictionary store. It projects stored term documents
// down to the fields validation needs and fuses the enumeration path
// into the projected term.
package cache

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/harriteja/dict-go-sdk/pkg/config"
	"github.com/harriteja/dict-go-sdk/pkg/store"
	"github.com/harriteja/dict-go-sdk/pkg/types"
)

// entry is one global cache slot: either a projected term or the absent
// sentinel suppressing repeat misses.
type entry struct {
	term   *types.Term
	absent bool
}

// Options represents cache configuration options
type Options struct {
	// Store is the dictionary store adapter (required)
	Store store.Adapter
	// Config names the projection field tags; defaults to config.Default()
	Config *config.Config
	// Logger instance
	Logger *zap.Logger
	// Metrics collector for hit/miss counters
	Metrics types.MetricsCollector
}

// LookupOptions tune a single term lookup.
type LookupOptions struct {
	// UseCache consults and populates the global cache
	UseCache bool
	// UseBatch consults the per-validator batch overlay
	UseBatch bool
	// CacheMissing stores an absent sentinel after a store miss so
	// subsequent lookups short-circuit; only effective with UseCache
	CacheMissing bool
	// Batch is the overlay to consult when UseBatch is set
	Batch *Batch
}

// Cache memoizes projected term records. A single cache is shared by all
// concurrent validators; reads of populated keys never block each other.
type Cache struct {
	mu     sync.RWMutex
	global map[string]entry

	store  store.Adapter
	cfg    *config.Config
	logger *zap.Logger

	hits        types.Metric
	misses      types.Metric
	storeErrors types.Metric
}

// New creates a new Cache
func New(opts Options) (*Cache, error) {
	if opts.Store == nil {
		return nil, errors.New("cache requires a store adapter")
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = types.NewNoOpMetricsCollector()
	}

	hits, err := opts.Metrics.NewMetric(types.MetricOpts{
		Subsystem: "cache",
		Name:      "term_hits_total",
		Help:      "Term lookups answered from the cache",
		Type:      types.MetricTypeCounter,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cache hit metric")
	}
	misses, err := opts.Metrics.NewMetric(types.MetricOpts{
		Subsystem: "cache",
		Name:      "term_misses_total",
		Help:      "Term lookups that reached the store",
		Type:      types.MetricTypeCounter,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cache miss metric")
	}
	storeErrors, err := opts.Metrics.NewMetric(types.MetricOpts{
		Subsystem: "cache",
		Name:      "store_errors_total",
		Help:      "Term lookups that failed in the store",
		Type:      types.MetricTypeCounter,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create store error metric")
	}
	if err := opts.Metrics.Register(hits, misses, storeErrors); err != nil {
		return nil, errors.Wrap(err, "failed to register cache metrics")
	}

	return &Cache{
		global:      make(map[string]entry),
		store:       opts.Store,
		cfg:         opts.Config,
		logger:      opts.Logger,
		hits:        hits,
		misses:      misses,
		storeErrors: storeErrors,
	}, nil
}

// GetTerm resolves a term id to its projected representation. A nil term
// with a nil error means the term is absent from the dictionary.
func (c *Cache) GetTerm(ctx context.Context, id string, opts LookupOptions) (*types.Term, error) {
	if opts.UseCache {
		c.mu.RLock()
		e, ok := c.global[id]
		c.mu.RUnlock()
		if ok {
			c.hits.Inc()
			if e.absent {
				return nil, nil
			}
			return e.term, nil
		}
	}

	if opts.UseBatch && opts.Batch != nil {
		if term, ok := opts.Batch.lookup(id); ok {
			return term, nil
		}
	}

	c.misses.Inc()
	doc, paths, err := c.store.FetchTerm(ctx, id)
	if err != nil {
		// No partial cache update for the failing id.
		c.storeErrors.Inc()
		return nil, errors.Wrapf(err, "failed to fetch term %q", id)
	}

	if doc == nil {
		if opts.CacheMissing && opts.UseCache {
			c.mu.Lock()
			c.global[id] = entry{absent: true}
			c.mu.Unlock()
			c.logger.Debug("Cached missing term", zap.String("term", id))
		}
		return nil, nil
	}

	term := c.project(id, doc, paths)
	if opts.UseCache {
		c.mu.Lock()
		c.global[id] = entry{term: term}
		c.mu.Unlock()
	}
	return term, nil
}

// GetTerms resolves a batch of term ids, preserving input order and
// collapsing duplicate ids. Absent ids are skipped.
func (c *Cache) GetTerms(ctx context.Context, ids []string, opts LookupOptions) ([]*types.Term, error) {
	seen := make(map[string]bool, len(ids))
	terms := make([]*types.Term, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		term, err := c.GetTerm(ctx, id, opts)
		if err != nil {
			return nil, err
		}
		if term != nil {
			terms = append(terms, term)
		}
	}
	return terms, nil
}

// QueryEnumIdentifierByCode finds the enumeration elements of enumType
// whose code-section field equals value, returning their term keys. The
// cache is never consulted: the projection does not carry the code
// section.
func (c *Cache) QueryEnumIdentifierByCode(ctx context.Context, field string, value interface{}, enumType string) ([]string, error) {
	ids, err := c.store.QueryByCode(ctx, field, value, enumType)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query enumeration by code")
	}
	return ids, nil
}

// DocumentExists delegates to the store.
func (c *Cache) DocumentExists(ctx context.Context, collection, key string) (bool, error) {
	return c.store.DocumentExists(ctx, collection, key)
}

// CollectionExists delegates to the store.
func (c *Cache) CollectionExists(ctx context.Context, name string) (bool, error) {
	return c.store.CollectionExists(ctx, name)
}

// Reset clears the global cache. Test hook; there is no eviction in
// normal operation.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.global = make(map[string]entry)
	c.mu.Unlock()
}

// project trims a stored term document down to the fields validation
// needs and attaches the merged enumeration path.
func (c *Cache) project(id string, doc map[string]interface{}, paths []string) *types.Term {
	term := &types.Term{Key: id}
	if key, ok := doc[c.cfg.Fields.Key].(string); ok && key != "" {
		term.Key = key
	}
	if data, ok := doc[c.cfg.Fields.Data].(map[string]interface{}); ok {
		term.Data = data
	}
	if rule, ok := doc[c.cfg.Fields.Rule].(map[string]interface{}); ok {
		term.Rule = rule
	}
	if len(paths) > 0 {
		term.Path = paths
	}
	return term
}

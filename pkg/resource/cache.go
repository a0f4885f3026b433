package resource

import (
	"context"
	"log"
	"net/url"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bluewave-labs/verifywise-sub000/pkg/types"
)

var (
	fetchCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verifywise_upstream_fetches_total",
		Help: "The total number of upstream list fetches",
	}, []string{"entity"})
	fetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verifywise_upstream_fetch_failures_total",
		Help: "The total number of failed upstream list fetches",
	}, []string{"entity"})
	staleDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verifywise_stale_responses_dropped_total",
		Help: "The total number of late fetch responses discarded by the generation check",
	}, []string{"entity"})
	cachedRecords = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "verifywise_cached_records",
		Help: "The number of records currently cached per entity",
	}, []string{"entity"})
)

// ListCache holds the last known list of one entity. A failed refresh keeps
// the previous data on screen; a late response from an older fetch is
// discarded so it can never overwrite a newer one.
type ListCache struct {
	mu           sync.RWMutex
	client       *Client
	entity       string
	records      []types.Record
	loaded       bool
	nextGen      uint64
	installedGen uint64
}

func NewListCache(client *Client, entity string) *ListCache {
	return &ListCache{
		client:  client,
		entity:  entity,
		records: []types.Record{},
	}
}

func (c *ListCache) Entity() string {
	return c.entity
}

// Refresh replaces the cached list with a fresh authoritative read.
func (c *ListCache) Refresh(ctx context.Context) error {
	return c.RefreshFiltered(ctx, nil)
}

func (c *ListCache) RefreshFiltered(ctx context.Context, filters url.Values) error {
	c.mu.Lock()
	c.nextGen++
	gen := c.nextGen
	c.mu.Unlock()

	fetchCount.WithLabelValues(c.entity).Inc()
	records, err := c.client.List(ctx, c.entity, filters)
	if err != nil {
		fetchFailures.WithLabelValues(c.entity).Inc()
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen <= c.installedGen {
		staleDrops.WithLabelValues(c.entity).Inc()
		log.Printf("Dropping stale %s response (generation %d <= %d)", c.entity, gen, c.installedGen)
		return nil
	}
	c.installedGen = gen
	c.records = records
	c.loaded = true
	cachedRecords.WithLabelValues(c.entity).Set(float64(len(records)))
	return nil
}

// Records returns a copy so the pipeline can sort without racing writers.
func (c *ListCache) Records() []types.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]types.Record, len(c.records))
	copy(out, c.records)
	return out
}

func (c *ListCache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

func (c *ListCache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Seed installs records loaded from a disk snapshot without bumping the
// generation, so any in-flight fetch still wins.
func (c *ListCache) Seed(records []types.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return
	}
	c.records = records
	c.loaded = true
	cachedRecords.WithLabelValues(c.entity).Set(float64(len(records)))
}

// ApplyUpsert merges a record into the cached list, matching by id.
func (c *ListCache) ApplyUpsert(record types.Record) {
	id := record.Id()
	if id == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.records {
		if existing.Id() == id {
			c.records[i] = record
			return
		}
	}
	c.records = append(c.records, record)
	cachedRecords.WithLabelValues(c.entity).Set(float64(len(c.records)))
}

// ApplyDelete removes a record from the cached list.
func (c *ListCache) ApplyDelete(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.records {
		if existing.Id() == id {
			c.records = append(c.records[:i], c.records[i+1:]...)
			cachedRecords.WithLabelValues(c.entity).Set(float64(len(c.records)))
			return true
		}
	}
	return false
}

// Get looks a single record up in the cached list.
func (c *ListCache) Get(id string) (types.Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, existing := range c.records {
		if existing.Id() == id {
			return existing, true
		}
	}
	return nil, false
}

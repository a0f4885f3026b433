package resource

import (
	"context"
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bluewave-labs/verifywise-sub000/pkg/types"
)

var (
	mutationCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verifywise_mutations_total",
		Help: "The total number of record mutations by outcome",
	}, []string{"entity", "operation", "outcome"})
)

// MutationState tracks one optimistic mutation through its lifecycle.
type MutationState string

const (
	StateIdle       MutationState = "idle"
	StatePending    MutationState = "pending"
	StateCommitted  MutationState = "committed"
	StateRolledBack MutationState = "rolled_back"
)

// Mutator runs the optimistic two-phase mutation: apply the tentative change
// to the cached list first, then issue the backend call. On failure the
// tentative state is discarded by re-fetching the authoritative list, never
// by reversing the local change.
type Mutator struct {
	client *Client
	cache  *ListCache
}

func NewMutator(client *Client, cache *ListCache) *Mutator {
	return &Mutator{client: client, cache: cache}
}

func (m *Mutator) rollback(ctx context.Context, operation string, cause error) MutationState {
	log.Printf("%s %s failed, rolling back via refetch: %v", operation, m.cache.Entity(), cause)
	if err := m.cache.Refresh(ctx); err != nil {
		// stale data stays visible; the next successful fetch reconciles
		log.Printf("Rollback refetch for %s failed: %v", m.cache.Entity(), err)
	}
	mutationCount.WithLabelValues(m.cache.Entity(), operation, string(StateRolledBack)).Inc()
	return StateRolledBack
}

// Create appends the record tentatively, posts it, and replaces the
// tentative row with the server echo on success. The committed echo is
// returned so callers broadcast the record as the backend stored it; a
// submission without an id only becomes visible once the echo carries the
// assigned one.
func (m *Mutator) Create(ctx context.Context, record types.Record) (types.Record, MutationState, error) {
	m.cache.ApplyUpsert(record)
	echo, err := m.client.Create(ctx, m.cache.Entity(), record)
	if err != nil {
		return nil, m.rollback(ctx, "create", err), err
	}
	m.cache.ApplyUpsert(echo)
	mutationCount.WithLabelValues(m.cache.Entity(), "create", string(StateCommitted)).Inc()
	return echo, StateCommitted, nil
}

func (m *Mutator) Update(ctx context.Context, id string, record types.Record) (types.Record, MutationState, error) {
	m.cache.ApplyUpsert(record)
	echo, err := m.client.Update(ctx, m.cache.Entity(), id, record)
	if err != nil {
		return nil, m.rollback(ctx, "update", err), err
	}
	m.cache.ApplyUpsert(echo)
	mutationCount.WithLabelValues(m.cache.Entity(), "update", string(StateCommitted)).Inc()
	return echo, StateCommitted, nil
}

// Delete removes the record locally before the backend confirms. A backend
// failure restores the list from a fresh fetch so it exactly matches server
// state, with no duplicated or missing rows.
func (m *Mutator) Delete(ctx context.Context, id string) (MutationState, error) {
	m.cache.ApplyDelete(id)
	if err := m.client.Delete(ctx, m.cache.Entity(), id); err != nil {
		return m.rollback(ctx, "delete", err), err
	}
	mutationCount.WithLabelValues(m.cache.Entity(), "delete", string(StateCommitted)).Inc()
	return StateCommitted, nil
}

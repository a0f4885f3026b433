package server

import (
	"net/http"
	"net/http/pprof"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bluewave-labs/verifywise-sub000/pkg/common"
	"github.com/bluewave-labs/verifywise-sub000/pkg/notify"
	"github.com/bluewave-labs/verifywise-sub000/pkg/prefs"
	"github.com/bluewave-labs/verifywise-sub000/pkg/resource"
	"github.com/bluewave-labs/verifywise-sub000/pkg/storage"
	"github.com/bluewave-labs/verifywise-sub000/pkg/types"
	"github.com/bluewave-labs/verifywise-sub000/pkg/view"
)

// ChangePublisher broadcasts committed record changes to sibling instances.
// The amqp ChangeSender implements it in deployments with a broker.
type ChangePublisher interface {
	Send(change types.RecordChange)
}

// WebServer fronts the console's REST backend: it caches entity lists, runs
// the filter/group/sort/paginate pipeline over them and applies mutations
// optimistically.
type WebServer struct {
	mu       sync.RWMutex
	Registry *view.Registry
	Client   *resource.Client
	Prefs    prefs.Store
	Notify   *notify.Hub
	Sender   ChangePublisher
	Storage  *storage.DiskStorage
	Auth     AuthHandler

	caches   map[string]*resource.ListCache
	mutators map[string]*resource.Mutator
}

func NewWebServer(registry *view.Registry, client *resource.Client, store prefs.Store) *WebServer {
	ws := &WebServer{
		Registry: registry,
		Client:   client,
		Prefs:    store,
		Notify:   notify.NewHub(notify.DefaultTTL),
		Auth:     &MockAuth{},
		caches:   make(map[string]*resource.ListCache),
		mutators: make(map[string]*resource.Mutator),
	}
	for _, entity := range registry.Entities() {
		cache := resource.NewListCache(client, entity)
		ws.caches[entity] = cache
		ws.mutators[entity] = resource.NewMutator(client, cache)
	}
	return ws
}

func (ws *WebServer) cache(entity string) (*resource.ListCache, bool) {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	c, ok := ws.caches[entity]
	return c, ok
}

func (ws *WebServer) mutator(entity string) (*resource.Mutator, bool) {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	m, ok := ws.mutators[entity]
	return m, ok
}

// SeedFromSnapshot installs the last disk snapshot so tables render before
// the first upstream fetch completes.
func (ws *WebServer) SeedFromSnapshot(lists map[string][]types.Record) {
	for entity, records := range lists {
		if cache, ok := ws.cache(entity); ok {
			cache.Seed(records)
		}
	}
}

// SaveSnapshot writes every cached list through the configured disk storage.
// No-op without one.
func (ws *WebServer) SaveSnapshot() error {
	if ws.Storage == nil {
		return nil
	}
	return ws.Storage.SaveRecordLists(ws.Snapshot())
}

// Snapshot collects every cached list for the shutdown save hook.
func (ws *WebServer) Snapshot() map[string][]types.Record {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	lists := make(map[string][]types.Record, len(ws.caches))
	for entity, cache := range ws.caches {
		if cache.Loaded() {
			lists[entity] = cache.Records()
		}
	}
	return lists
}

// ApplyChange folds a broadcast record change from another instance into the
// local cache.
func (ws *WebServer) ApplyChange(change types.RecordChange) {
	cache, ok := ws.cache(change.Entity)
	if !ok {
		return
	}
	switch change.Kind {
	case types.ChangeDelete:
		cache.ApplyDelete(change.Id)
	case types.ChangeUpsert:
		if change.Record != nil {
			cache.ApplyUpsert(change.Record)
		}
	}
}

func (ws *WebServer) Handler(enableProfiling bool) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/view/{entity}", ws.HandleView)
	mux.HandleFunc("GET /api/prefs/{table}", ws.HandleGetPreference)
	mux.HandleFunc("PUT /api/prefs/{table}", ws.HandleSavePreference)
	mux.HandleFunc("GET /api/notifications", ws.HandleNotifications)
	mux.HandleFunc("DELETE /api/notifications/{id}", ws.HandleDismissNotification)

	mux.HandleFunc("GET /api/{entity}", ws.HandleList)
	mux.HandleFunc("GET /api/{entity}/{id}", ws.HandleGet)
	mux.HandleFunc("POST /api/{entity}", ws.Auth.Middleware(ws.HandleCreate))
	mux.HandleFunc("PUT /api/{entity}/{id}", ws.Auth.Middleware(ws.HandleUpdate))
	mux.HandleFunc("DELETE /api/{entity}/{id}", ws.Auth.Middleware(ws.HandleDelete))
	mux.HandleFunc("OPTIONS /api/", func(w http.ResponseWriter, r *http.Request) {
		common.RespondToOptions(w, r)
	})

	if enableProfiling {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
	return mux
}

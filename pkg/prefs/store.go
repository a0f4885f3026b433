// Package prefs persists per-table view preferences (sort descriptor and
// page size) across reloads. Stores are best-effort: a corrupt stored value
// falls back to the defaults and is never surfaced to the user.
package prefs

import (
	"encoding/json"
	"sync"

	"github.com/bluewave-labs/verifywise-sub000/pkg/types"
)

// Store is injected into the web server; the in-memory implementation backs
// tests and single-instance deployments, the redis one shared deployments.
type Store interface {
	Load(tableId string) (types.TablePreference, bool)
	Save(tableId string, pref types.TablePreference) error
}

type MemoryStore struct {
	mu    sync.RWMutex
	prefs map[string]types.TablePreference
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{prefs: make(map[string]types.TablePreference)}
}

func (s *MemoryStore) Load(tableId string) (types.TablePreference, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pref, ok := s.prefs[tableId]
	if !ok {
		return types.DefaultPreference(), false
	}
	pref.Sanitize()
	return pref, true
}

func (s *MemoryStore) Save(tableId string, pref types.TablePreference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[tableId] = pref
	return nil
}

// decodePreference parses a stored json descriptor. Anything unparsable or
// out of range comes back as the default preference.
func decodePreference(data []byte) (types.TablePreference, bool) {
	var pref types.TablePreference
	if err := json.Unmarshal(data, &pref); err != nil {
		return types.DefaultPreference(), false
	}
	pref.Sanitize()
	return pref, true
}

package prefs

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/bluewave-labs/verifywise-sub000/pkg/types"
)

const (
	prefKeyPrefix     = "table_pref_"
	prefChangeChannel = "tablePrefChange"
)

// RedisStore keeps a local copy of every table preference and fans out
// changes to other instances over pub/sub. Concurrent writers to the same
// table id are last-write-wins.
type RedisStore struct {
	mu     sync.RWMutex
	client *redis.Client
	ctx    context.Context
	local  map[string]types.TablePreference
}

func NewRedisStore(addr, password string, db int) *RedisStore {
	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	instance := &RedisStore{
		client: rdb,
		ctx:    ctx,
		local:  make(map[string]types.TablePreference),
	}

	pubsub := rdb.Subscribe(ctx, prefChangeChannel)
	go func(ch <-chan *redis.Message) {
		for msg := range ch {
			tableId := msg.Payload
			data, err := rdb.Get(ctx, prefKeyPrefix+tableId).Result()
			if err != nil {
				log.Printf("Failed to fetch changed preference %s: %v", tableId, err)
				continue
			}
			pref, _ := decodePreference([]byte(data))
			instance.mu.Lock()
			instance.local[tableId] = pref
			instance.mu.Unlock()
		}
	}(pubsub.Channel())

	return instance
}

func (s *RedisStore) Load(tableId string) (types.TablePreference, bool) {
	s.mu.RLock()
	pref, ok := s.local[tableId]
	s.mu.RUnlock()
	if ok {
		pref.Sanitize()
		return pref, true
	}

	data, err := s.client.Get(s.ctx, prefKeyPrefix+tableId).Bytes()
	if err != nil {
		return types.DefaultPreference(), false
	}
	pref, ok = decodePreference(data)
	if ok {
		s.mu.Lock()
		s.local[tableId] = pref
		s.mu.Unlock()
	}
	return pref, ok
}

func (s *RedisStore) Save(tableId string, pref types.TablePreference) error {
	s.mu.Lock()
	s.local[tableId] = pref
	s.mu.Unlock()

	data, err := json.Marshal(pref)
	if err != nil {
		return err
	}
	if err := s.client.Set(s.ctx, prefKeyPrefix+tableId, data, 0).Err(); err != nil {
		return err
	}
	_, err = s.client.Publish(s.ctx, prefChangeChannel, tableId).Result()
	return err
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

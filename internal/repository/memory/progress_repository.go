package memory

import (
	"time"

	"jewel-backoffice-be/internal/websocket"

	"github.com/patrickmn/go-cache"
)

// ProgressRepository keeps the latest pipeline progress per batch so
// status polls do not hit the database between item updates.
type ProgressRepository struct {
	cache *cache.Cache
}

func NewProgressRepository() *ProgressRepository {
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &ProgressRepository{
		cache: c,
	}
}

func (r *ProgressRepository) Save(batchID string, update websocket.ProgressUpdate) {
	r.cache.Set(batchID, update, cache.DefaultExpiration)
}

func (r *ProgressRepository) Get(batchID string) (websocket.ProgressUpdate, bool) {
	if x, found := r.cache.Get(batchID); found {
		return x.(websocket.ProgressUpdate), true
	}
	return websocket.ProgressUpdate{}, false
}

func (r *ProgressRepository) Delete(batchID string) {
	r.cache.Delete(batchID)
}

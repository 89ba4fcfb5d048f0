package loader

import (
	"sync"
	"time"

	"cashtrack/internal/cache"
)

// loadCache memoizes loads by source identity. The tables are static
// for the process lifetime, so re-creating a provider for the same
// files must not re-read them.
var (
	loadCacheOnce sync.Once
	loadCache     *cache.LRUCache[*Dataset]
)

func (s Source) key() string {
	return s.UsersPath + "|" + s.TransactionsPath
}

// LoadCached is Load memoized per source. Callers share the returned
// Dataset and must treat it as read-only.
func LoadCached(src Source) (*Dataset, error) {
	loadCacheOnce.Do(func() {
		loadCache = cache.NewLRUCache[*Dataset](8, time.Hour)
	})

	if ds, ok := loadCache.Get(src.key()); ok {
		return ds, nil
	}
	ds, err := Load(src)
	if err != nil {
		return nil, err
	}
	loadCache.Set(src.key(), ds)
	return ds, nil
}

package prices

import (
	"log"
	"sync"

	"github.com/aadnk/ZapTechCostCalculator/internal/model"
)

// Fetcher fetches one published day of prices. *Client implements it;
// tests substitute fakes.
type Fetcher interface {
	FetchDay(key Key) ([]model.HourlyPrice, []byte, error)
}

// DayCache resolves (local day, area) keys to their hourly price sets.
// Lookup order: in-memory map, then the durable file store, then the
// network. Entries are written once and never expire or get evicted:
// historical day prices are immutable once published.
type DayCache struct {
	mu      sync.Mutex
	fetcher Fetcher
	store   *FileStore
	entries map[Key][]model.HourlyPrice
}

// NewDayCache builds a cache over the given fetcher. store may be nil for
// a purely in-memory cache (used by tests and the offline demo).
func NewDayCache(fetcher Fetcher, store *FileStore) *DayCache {
	return &DayCache{
		fetcher: fetcher,
		store:   store,
		entries: make(map[Key][]model.HourlyPrice),
	}
}

// Get returns the ordered hourly prices for one publication day, fetching
// and persisting on first use. A fetch failure propagates to the caller;
// nothing is cached for the failed key.
func (c *DayCache) Get(key Key) ([]model.HourlyPrice, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if hours, ok := c.entries[key]; ok {
		return hours, nil
	}

	if c.store != nil {
		raw, ok, err := c.store.Load(key)
		if err != nil {
			return nil, err
		}
		if ok {
			hours, err := ParseDay(raw)
			if err != nil {
				return nil, err
			}
			c.entries[key] = hours
			return hours, nil
		}
	}

	hours, raw, err := c.fetcher.FetchDay(key)
	if err != nil {
		return nil, err
	}
	if c.store != nil {
		if err := c.store.Save(key, raw); err != nil {
			return nil, err
		}
	}
	log.Printf("[Prices] Cached %d intervals for %s", len(hours), key)
	c.entries[key] = hours
	return hours, nil
}

// Seed inserts an entry directly, bypassing store and network. Tests and
// the offline demo use this to pre-populate known days.
func (c *DayCache) Seed(key Key, hours []model.HourlyPrice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = hours
}

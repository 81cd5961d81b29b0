package bangla

import (
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultGridCapacity = 12

type gridKey struct {
	year  int
	month time.Month
}

type CacheStats struct {
	DateHits   uint64 `json:"dateHits"`
	DateMisses uint64 `json:"dateMisses"`
	GridHits   uint64 `json:"gridHits"`
	GridMisses uint64 `json:"gridMisses"`
	Dates      int    `json:"dates"`
	Grids      int    `json:"grids"`
}

// Cache запоминает результаты ToBangla и GenerateGrid.
//
// Сетки хранятся в LRU на gridCapacity месяцев. Даты хранятся без ограничения, владелец кеша
// должен вызывать ClearDates, когда меняется отображаемый набор дат (например, при переходе на
// другой месяц).
type Cache struct {
	mu    sync.Mutex
	dates map[civil.Date]Date
	grids *lru.Cache[gridKey, Grid]
	stats CacheStats
}

func NewCache(gridCapacity int) (*Cache, error) {
	if gridCapacity <= 0 {
		gridCapacity = DefaultGridCapacity
	}

	grids, err := lru.New[gridKey, Grid](gridCapacity)
	if err != nil {
		return nil, fmt.Errorf("cannot create grid cache: %w", err)
	}

	return &Cache{
		dates: make(map[civil.Date]Date, GridSize),
		grids: grids,
	}, nil
}

// MustNewCache - NewCache для случаев, когда емкость заведомо корректна.
func MustNewCache(gridCapacity int) *Cache {
	c, err := NewCache(gridCapacity)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Cache) BanglaDate(d civil.Date) Date {
	c.mu.Lock()
	defer c.mu.Unlock()

	if bd, ok := c.dates[d]; ok {
		c.stats.DateHits++
		return bd
	}

	c.stats.DateMisses++
	bd := ToBangla(d)
	c.dates[d] = bd
	return bd
}

func (c *Cache) Grid(year int, month time.Month) Grid {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := gridKey{year: year, month: month}
	if g, ok := c.grids.Get(key); ok {
		c.stats.GridHits++
		return g
	}

	c.stats.GridMisses++
	g := GenerateGrid(year, month)
	c.grids.Add(key, g)
	return g
}

func (c *Cache) ClearDates() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dates = make(map[civil.Date]Date, GridSize)
}

// Reset очищает оба кеша и счетчики.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dates = make(map[civil.Date]Date, GridSize)
	c.grids.Purge()
	c.stats = CacheStats{}
}

func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Dates = len(c.dates)
	s.Grids = c.grids.Len()
	return s
}

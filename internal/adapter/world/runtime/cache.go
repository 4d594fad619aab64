// Package runtime keeps recently loaded worlds decoded in memory in front of
// a persistent repository.
package runtime

import (
	"context"
	"sync"
	"time"

	"overland/internal/app/ports"
	"overland/internal/domain/world"
)

type Config struct {
	// Capacity bounds how many worlds stay decoded at once.
	Capacity int
	// TTL drops an entry this long after it was loaded.
	TTL time.Duration
	Now func() time.Time
}

func DefaultConfig() Config {
	return Config{
		Capacity: 8,
		TTL:      5 * time.Minute,
		Now:      time.Now,
	}
}

type entry struct {
	rec      ports.WorldRecord
	loadedAt time.Time
}

// CachedWorldRepo serves Get from memory and forwards everything else to the
// wrapped repository. Writes drop the cached copy of the world they touch,
// again once the surrounding transaction finishes when it runs under the
// TxManager returned by WrapTx. Callers always receive their own copy.
type CachedWorldRepo struct {
	next ports.WorldRepository
	cfg  Config

	mu      sync.Mutex
	entries map[string]entry
	order   []string
}

func NewCachedWorldRepo(next ports.WorldRepository, cfg Config) *CachedWorldRepo {
	def := DefaultConfig()
	if cfg.Capacity <= 0 {
		cfg.Capacity = def.Capacity
	}
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	if cfg.Now == nil {
		cfg.Now = def.Now
	}
	return &CachedWorldRepo{
		next:    next,
		cfg:     cfg,
		entries: map[string]entry{},
	}
}

func (c *CachedWorldRepo) Create(ctx context.Context, rec ports.WorldRecord) error {
	defer c.touched(ctx, rec.ID)
	return c.next.Create(ctx, rec)
}

func (c *CachedWorldRepo) Get(ctx context.Context, id string) (ports.WorldRecord, error) {
	return c.get(ctx, id, (*world.Map).Clone)
}

// GetReadOnly shares the cached tile grid with the caller instead of
// copying it.
func (c *CachedWorldRepo) GetReadOnly(ctx context.Context, id string) (ports.WorldRecord, error) {
	return c.get(ctx, id, (*world.Map).ReadOnlyCopy)
}

func (c *CachedWorldRepo) get(ctx context.Context, id string, copyMap func(*world.Map) *world.Map) (ports.WorldRecord, error) {
	if rec, ok := c.lookup(id, copyMap); ok {
		return rec, nil
	}
	rec, err := c.next.Get(ctx, id)
	if err != nil {
		return ports.WorldRecord{}, err
	}
	c.put(rec)
	rec.Map = copyMap(rec.Map)
	return rec, nil
}

func (c *CachedWorldRepo) List(ctx context.Context, limit int) ([]ports.WorldSummary, error) {
	return c.next.List(ctx, limit)
}

func (c *CachedWorldRepo) AppendRoad(ctx context.Context, worldID string, road world.RoadConnection) error {
	defer c.touched(ctx, worldID)
	return c.next.AppendRoad(ctx, worldID, road)
}

func (c *CachedWorldRepo) SaveResources(ctx context.Context, worldID string, resources []world.ResourceNode, tickAt time.Time) error {
	defer c.touched(ctx, worldID)
	return c.next.SaveResources(ctx, worldID, resources, tickAt)
}

// Invalidate drops the cached copy of a world, if any.
func (c *CachedWorldRepo) Invalidate(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropLocked(id)
}

// Len reports how many worlds are cached.
func (c *CachedWorldRepo) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *CachedWorldRepo) lookup(id string, copyMap func(*world.Map) *world.Map) (ports.WorldRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok {
		return ports.WorldRecord{}, false
	}
	if c.cfg.Now().Sub(e.loadedAt) >= c.cfg.TTL {
		c.dropLocked(id)
		return ports.WorldRecord{}, false
	}
	rec := e.rec
	rec.Map = copyMap(rec.Map)
	return rec, true
}

// put takes ownership of rec; Get on the wrapped repository returns a copy
// nobody else holds.
func (c *CachedWorldRepo) put(rec ports.WorldRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropLocked(rec.ID)
	for len(c.order) >= c.cfg.Capacity {
		c.dropLocked(c.order[0])
	}
	c.entries[rec.ID] = entry{rec: rec, loadedAt: c.cfg.Now()}
	c.order = append(c.order, rec.ID)
}

func (c *CachedWorldRepo) dropLocked(id string) {
	if _, ok := c.entries[id]; !ok {
		return
	}
	delete(c.entries, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *CachedWorldRepo) touched(ctx context.Context, id string) {
	c.Invalidate(id)
	if t, ok := ctx.Value(trackerKey{}).(*tracker); ok {
		t.add(id)
	}
}

type trackerKey struct{}

type tracker struct {
	mu  sync.Mutex
	ids []string
}

func (t *tracker) add(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ids = append(t.ids, id)
}

// WrapTx returns a TxManager that drops every world written inside a
// transaction after the transaction ends, so a read racing the commit cannot
// leave a stale copy behind.
func (c *CachedWorldRepo) WrapTx(tx ports.TxManager) ports.TxManager {
	return cachedTx{cache: c, next: tx}
}

type cachedTx struct {
	cache *CachedWorldRepo
	next  ports.TxManager
}

func (t cachedTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(trackerKey{}).(*tracker); ok {
		return t.next.RunInTx(ctx, fn)
	}
	tr := &tracker{}
	err := t.next.RunInTx(context.WithValue(ctx, trackerKey{}, tr), fn)
	for _, id := range tr.ids {
		t.cache.Invalidate(id)
	}
	return err
}

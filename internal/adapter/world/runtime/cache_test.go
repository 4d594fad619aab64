package runtime

import (
	"context"
	"errors"
	"testing"
	"time"

	"overland/internal/adapter/repo/memory"
	"overland/internal/app/ports"
	"overland/internal/domain/world"
)

var (
	_ ports.WorldRepository     = (*CachedWorldRepo)(nil)
	_ ports.ReadOnlyWorldGetter = (*CachedWorldRepo)(nil)
)

type countingRepo struct {
	ports.WorldRepository
	gets int
}

func (r *countingRepo) Get(ctx context.Context, id string) (ports.WorldRecord, error) {
	r.gets++
	return r.WorldRepository.Get(ctx, id)
}

func seeded(t *testing.T, ids ...string) (*countingRepo, ports.TxManager) {
	t.Helper()
	store := memory.NewStore()
	inner := &countingRepo{WorldRepository: memory.NewWorldRepo(store)}
	for _, id := range ids {
		m := &world.Map{
			Width:  2,
			Height: 1,
			Tiles: []world.Tile{
				{X: 0, Y: 0, Type: world.TilePlains},
				{X: 1, Y: 0, Type: world.TilePlains},
			},
			Resources: []world.ResourceNode{{ID: 1, Type: world.ResourceGrain, X: 1, Capacity: 100, Current: 10, RegenPerTick: 1}},
		}
		if err := inner.Create(context.Background(), ports.WorldRecord{ID: id, Map: m}); err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}
	return inner, memory.NewTxManager(store)
}

func TestCachedWorldRepo_ReusesLoadedWorld(t *testing.T) {
	inner, _ := seeded(t, "w1")
	c := NewCachedWorldRepo(inner, Config{})
	ctx := context.Background()

	first, err := c.Get(ctx, "w1")
	if err != nil {
		t.Fatalf("get1: %v", err)
	}
	first.Map.Tiles[0].Type = world.TileRiver

	second, err := c.Get(ctx, "w1")
	if err != nil {
		t.Fatalf("get2: %v", err)
	}
	if inner.gets != 1 {
		t.Fatalf("expected one backing read, got %d", inner.gets)
	}
	if second.Map.Tiles[0].Type != world.TilePlains {
		t.Fatalf("cache shares map with caller")
	}
}

func TestCachedWorldRepo_WriteInvalidates(t *testing.T) {
	inner, _ := seeded(t, "w1")
	c := NewCachedWorldRepo(inner, Config{})
	ctx := context.Background()

	rec, _ := c.Get(ctx, "w1")
	rec.Map.Resources[0].Current = 50
	if err := c.SaveResources(ctx, "w1", rec.Map.Resources, time.Now()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("expected entry dropped after write")
	}

	got, _ := c.Get(ctx, "w1")
	if got.Map.Resources[0].Current != 50 {
		t.Fatalf("stale read after write: %v", got.Map.Resources[0].Current)
	}
	if inner.gets != 2 {
		t.Fatalf("expected a reload after write, got %d reads", inner.gets)
	}
}

func TestCachedWorldRepo_ExpiresAndEvicts(t *testing.T) {
	inner, _ := seeded(t, "a", "b", "c")
	now := time.Date(2026, 2, 17, 12, 0, 0, 0, time.UTC)
	c := NewCachedWorldRepo(inner, Config{Capacity: 2, TTL: time.Minute, Now: func() time.Time { return now }})
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if _, err := c.Get(ctx, id); err != nil {
			t.Fatalf("get %s: %v", id, err)
		}
	}
	if c.Len() != 2 {
		t.Fatalf("expected capacity 2, got %d", c.Len())
	}
	_, _ = c.Get(ctx, "a")
	if inner.gets != 4 {
		t.Fatalf("expected evicted world to reload, got %d reads", inner.gets)
	}

	now = now.Add(2 * time.Minute)
	_, _ = c.Get(ctx, "c")
	if inner.gets != 5 {
		t.Fatalf("expected expired world to reload, got %d reads", inner.gets)
	}
}

func TestCachedWorldRepo_NotFoundPassesThrough(t *testing.T) {
	inner, _ := seeded(t)
	c := NewCachedWorldRepo(inner, Config{})
	if _, err := c.Get(context.Background(), "missing"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("misses must not be cached")
	}
}

func TestCachedWorldRepo_WrapTxDropsAfterCommit(t *testing.T) {
	inner, tx := seeded(t, "w1")
	c := NewCachedWorldRepo(inner, Config{})
	wrapped := c.WrapTx(tx)
	ctx := context.Background()

	err := wrapped.RunInTx(ctx, func(ctx context.Context) error {
		rec, err := c.Get(ctx, "w1")
		if err != nil {
			return err
		}
		road := world.RoadConnection{ID: 1, Path: []world.Point{{X: 0, Y: 0}, {X: 1, Y: 0}}}
		if err := c.AppendRoad(ctx, "w1", road); err != nil {
			return err
		}
		// A read between the write and the commit repopulates the cache.
		_, err = c.Get(ctx, rec.ID)
		return err
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("expected cache cleared once the transaction finished")
	}
	got, _ := c.Get(ctx, "w1")
	if len(got.Map.Roads) != 1 {
		t.Fatalf("expected committed road, got %d", len(got.Map.Roads))
	}
}

func TestCachedWorldRepo_GetReadOnlySharesCachedTiles(t *testing.T) {
	inner, _ := seeded(t, "w1")
	c := NewCachedWorldRepo(inner, Config{})
	ctx := context.Background()

	a, err := c.GetReadOnly(ctx, "w1")
	if err != nil {
		t.Fatalf("get1: %v", err)
	}
	b, err := c.GetReadOnly(ctx, "w1")
	if err != nil {
		t.Fatalf("get2: %v", err)
	}
	if inner.gets != 1 {
		t.Fatalf("expected one backing read, got %d", inner.gets)
	}
	if &a.Map.Tiles[0] != &b.Map.Tiles[0] {
		t.Fatalf("expected shared tile grid")
	}

	a.Map.Resources[0].Current = 77
	full, _ := c.Get(ctx, "w1")
	if full.Map.Resources[0].Current != 10 {
		t.Fatalf("read-only copy leaked resource write: %v", full.Map.Resources[0].Current)
	}
	if &full.Map.Tiles[0] == &a.Map.Tiles[0] {
		t.Fatalf("Get must return its own tile grid")
	}
}

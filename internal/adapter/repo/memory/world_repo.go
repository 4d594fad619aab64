package memory

import (
	"context"
	"sort"
	"time"

	"overland/internal/app/ports"
	"overland/internal/domain/world"
)

type WorldRepo struct {
	store *Store
}

func NewWorldRepo(store *Store) WorldRepo {
	return WorldRepo{store: store}
}

func (r WorldRepo) Create(ctx context.Context, rec ports.WorldRecord) error {
	var err error
	r.store.write(ctx, func() {
		if _, ok := r.store.worlds[rec.ID]; ok {
			err = ports.ErrConflict
			return
		}
		rec.Map = rec.Map.Clone()
		r.store.worlds[rec.ID] = rec
	})
	return err
}

func (r WorldRepo) Get(ctx context.Context, id string) (ports.WorldRecord, error) {
	var (
		out ports.WorldRecord
		ok  bool
	)
	r.store.read(ctx, func() {
		out, ok = r.store.worlds[id]
		if ok {
			out.Map = out.Map.Clone()
		}
	})
	if !ok {
		return ports.WorldRecord{}, ports.ErrNotFound
	}
	return out, nil
}

// GetReadOnly is Get without the tile grid copy. Stored tiles are never
// modified after Create.
func (r WorldRepo) GetReadOnly(ctx context.Context, id string) (ports.WorldRecord, error) {
	var (
		out ports.WorldRecord
		ok  bool
	)
	r.store.read(ctx, func() {
		out, ok = r.store.worlds[id]
		if ok {
			out.Map = out.Map.ReadOnlyCopy()
		}
	})
	if !ok {
		return ports.WorldRecord{}, ports.ErrNotFound
	}
	return out, nil
}

func (r WorldRepo) List(ctx context.Context, limit int) ([]ports.WorldSummary, error) {
	out := []ports.WorldSummary{}
	r.store.read(ctx, func() {
		for _, rec := range r.store.worlds {
			out = append(out, ports.SummaryOf(rec))
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r WorldRepo) AppendRoad(ctx context.Context, worldID string, road world.RoadConnection) error {
	var err error
	r.store.write(ctx, func() {
		rec, ok := r.store.worlds[worldID]
		if !ok {
			err = ports.ErrNotFound
			return
		}
		for _, existing := range rec.Map.Roads {
			if existing.ID == road.ID {
				err = ports.ErrConflict
				return
			}
		}
		road.Path = append([]world.Point(nil), road.Path...)
		rec.Map.Roads = append(rec.Map.Roads, road)
	})
	return err
}

func (r WorldRepo) SaveResources(ctx context.Context, worldID string, resources []world.ResourceNode, tickAt time.Time) error {
	var err error
	r.store.write(ctx, func() {
		rec, ok := r.store.worlds[worldID]
		if !ok {
			err = ports.ErrNotFound
			return
		}
		for _, node := range resources {
			if stored, ok := rec.Map.ResourceByID(node.ID); ok {
				stored.SetCurrent(node.Current)
			}
		}
		rec.LastTickAt = tickAt
		r.store.worlds[worldID] = rec
	})
	return err
}

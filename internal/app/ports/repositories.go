package ports

import (
	"context"
	"time"

	"overland/internal/domain/world"
)

// WorldRecord is a generated world together with its storage metadata.
type WorldRecord struct {
	ID         string
	Noise      world.NoiseKind
	Map        *world.Map
	CreatedAt  time.Time
	LastTickAt time.Time
}

type WorldSummary struct {
	ID          string          `json:"id"`
	Seed        int64           `json:"seed"`
	Noise       world.NoiseKind `json:"noise"`
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	Settlements int             `json:"settlements"`
	Resources   int             `json:"resources"`
	Roads       int             `json:"roads"`
	CreatedAt   time.Time       `json:"created_at"`
	LastTickAt  time.Time       `json:"last_tick_at"`
}

func SummaryOf(rec WorldRecord) WorldSummary {
	out := WorldSummary{
		ID:         rec.ID,
		Noise:      rec.Noise,
		CreatedAt:  rec.CreatedAt,
		LastTickAt: rec.LastTickAt,
	}
	if rec.Map != nil {
		out.Seed = rec.Map.Seed
		out.Width = rec.Map.Width
		out.Height = rec.Map.Height
		out.Settlements = len(rec.Map.Settlements)
		out.Resources = len(rec.Map.Resources)
		out.Roads = len(rec.Map.Roads)
	}
	return out
}

type WorldRepository interface {
	// Create stores a new world. An existing id returns ErrConflict.
	Create(ctx context.Context, rec WorldRecord) error
	// Get loads a full world or returns ErrNotFound.
	Get(ctx context.Context, id string) (WorldRecord, error)
	// List returns summaries, newest first.
	List(ctx context.Context, limit int) ([]WorldSummary, error)
	// AppendRoad stores one more road. A road id already taken in the world
	// returns ErrConflict.
	AppendRoad(ctx context.Context, worldID string, road world.RoadConnection) error
	// SaveResources overwrites the stock of every resource node and records
	// the tick time.
	SaveResources(ctx context.Context, worldID string, resources []world.ResourceNode, tickAt time.Time) error
}

// ReadOnlyWorldGetter is implemented by repositories that can load a world
// without copying its tile grid. The returned map's tiles are shared with
// the store and must not be written; everything else belongs to the caller.
type ReadOnlyWorldGetter interface {
	GetReadOnly(ctx context.Context, id string) (WorldRecord, error)
}

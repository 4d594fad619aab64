package simulation

import (
	"time"

	"overland/internal/domain/world"
)

// Request advances a world's resources. A zero DTSeconds derives the step
// from the wall time since the previous tick.
type Request struct {
	WorldID   string  `json:"-"`
	DTSeconds float64 `json:"dt_seconds"`
}

type ResourceState struct {
	ID       int                `json:"id"`
	Type     world.ResourceType `json:"type"`
	Current  float64            `json:"current"`
	Capacity int                `json:"capacity"`
	Full     bool               `json:"full"`
}

type Response struct {
	WorldID   string          `json:"world_id"`
	DTSeconds float64         `json:"dt_seconds"`
	TickedAt  time.Time       `json:"ticked_at"`
	Resources []ResourceState `json:"resources"`
}

package roads

import "overland/internal/domain/world"

// EndpointRef names a settlement or resource node by id.
type EndpointRef struct {
	Kind string `json:"kind"`
	ID   int    `json:"id"`
}

type Request struct {
	WorldID string      `json:"-"`
	From    EndpointRef `json:"from"`
	To      EndpointRef `json:"to"`
}

type Response struct {
	Built   bool                  `json:"built"`
	Road    *world.RoadConnection `json:"road,omitempty"`
	Cost    float64               `json:"cost,omitempty"`
	Warning string                `json:"warning,omitempty"`
}

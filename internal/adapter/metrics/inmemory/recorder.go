package inmemory

import (
	"sync"

	"overland/internal/domain/world"
)

type Snapshot struct {
	WorldsGenerated      uint64  `json:"worlds_generated"`
	RiversCarved         uint64  `json:"rivers_carved"`
	SettlementsPlaced    uint64  `json:"settlements_placed"`
	ResourcesPlaced      uint64  `json:"resources_placed"`
	PlacementsExhausted  uint64  `json:"placements_exhausted"`
	RoadsBuilt           uint64  `json:"roads_built"`
	RoadCostTotal        float64 `json:"road_cost_total"`
	RoadsNoPath          uint64  `json:"roads_no_path"`
	Ticks                uint64  `json:"ticks"`
	ResourceTicksApplied uint64  `json:"resource_ticks_applied"`
}

type Recorder struct {
	mu sync.Mutex
	s  Snapshot
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) RecordGenerated(report world.GenReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.WorldsGenerated++
	r.s.RiversCarved += uint64(report.Rivers.Rivers)
	r.s.SettlementsPlaced += uint64(report.Settlements.Placed)
	r.s.ResourcesPlaced += uint64(report.Resources.Placed)
	if report.Settlements.Exhausted() {
		r.s.PlacementsExhausted++
	}
	if report.Resources.Exhausted() {
		r.s.PlacementsExhausted++
	}
}

func (r *Recorder) RecordRoadBuilt(cost float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.RoadsBuilt++
	r.s.RoadCostTotal += cost
}

func (r *Recorder) RecordNoPath() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.RoadsNoPath++
}

func (r *Recorder) RecordTick(resources int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.Ticks++
	r.s.ResourceTicksApplied += uint64(resources)
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.s
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}

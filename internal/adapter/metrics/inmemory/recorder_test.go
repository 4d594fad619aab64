package inmemory

import (
	"sync"
	"testing"

	"overland/internal/app/ports"
	"overland/internal/domain/world"
)

var _ ports.WorldMetrics = (*Recorder)(nil)

func TestRecorderSnapshot(t *testing.T) {
	r := NewRecorder()
	r.RecordGenerated(world.GenReport{
		Rivers:      world.RiverReport{Rivers: 4, TilesCarved: 80},
		Settlements: world.PlacementReport{Requested: 10, Placed: 7, Attempts: 400},
		Resources:   world.PlacementReport{Requested: 5, Placed: 5, Attempts: 30},
	})
	r.RecordRoadBuilt(12.5)
	r.RecordRoadBuilt(2.5)
	r.RecordNoPath()
	r.RecordTick(5)

	s := r.Snapshot()
	if s.WorldsGenerated != 1 || s.RiversCarved != 4 {
		t.Fatalf("unexpected generation counters: %+v", s)
	}
	if s.SettlementsPlaced != 7 || s.ResourcesPlaced != 5 {
		t.Fatalf("unexpected placement counters: %+v", s)
	}
	if s.PlacementsExhausted != 1 {
		t.Fatalf("expected 1 exhausted placement, got %d", s.PlacementsExhausted)
	}
	if s.RoadsBuilt != 2 || s.RoadCostTotal != 15 || s.RoadsNoPath != 1 {
		t.Fatalf("unexpected road counters: %+v", s)
	}
	if s.Ticks != 1 || s.ResourceTicksApplied != 5 {
		t.Fatalf("unexpected tick counters: %+v", s)
	}
}

func TestRecorderConcurrent(t *testing.T) {
	r := NewRecorder()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.RecordTick(2)
		}()
	}
	wg.Wait()
	if s := r.Snapshot(); s.Ticks != 16 || s.ResourceTicksApplied != 32 {
		t.Fatalf("unexpected counters: %+v", s)
	}
}

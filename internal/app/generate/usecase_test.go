package generate

import (
	"context"
	"errors"
	"testing"
	"time"

	"overland/internal/app/ports"
	"overland/internal/domain/world"
)

func TestUseCase_GeneratesAndStoresWorld(t *testing.T) {
	repo := &fakeRepo{}
	metrics := &fakeMetrics{}
	seed := int64(42)
	uc := UseCase{
		Repo:    repo,
		Metrics: metrics,
		Config:  smallConfig(),
		Now:     func() time.Time { return time.Unix(100, 0) },
		NewID:   func() string { return "world-1" },
	}

	resp, err := uc.Execute(context.Background(), Request{Seed: &seed})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if resp.WorldID != "world-1" || resp.Seed != 42 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Width != 48 || resp.Height != 32 {
		t.Fatalf("expected 48x32, got %dx%d", resp.Width, resp.Height)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one stored world, got %d", len(repo.created))
	}
	stored := repo.created[0]
	if stored.Map.Seed != 42 || !stored.CreatedAt.Equal(time.Unix(100, 0)) {
		t.Fatalf("unexpected stored record: seed=%d created=%s", stored.Map.Seed, stored.CreatedAt)
	}
	if resp.Settlements != len(stored.Map.Settlements) {
		t.Fatalf("settlement count mismatch: %d vs %d", resp.Settlements, len(stored.Map.Settlements))
	}
	total := 0
	for _, n := range resp.TileCounts {
		total += n
	}
	if total != 48*32 {
		t.Fatalf("tile counts sum to %d", total)
	}
	if metrics.generated != 1 {
		t.Fatalf("expected generated metric, got %d", metrics.generated)
	}
}

func TestUseCase_SameSeedSameWorld(t *testing.T) {
	repo := &fakeRepo{}
	seed := int64(7)
	uc := UseCase{Repo: repo, Config: smallConfig(), NewID: counterIDs()}

	if _, err := uc.Execute(context.Background(), Request{Seed: &seed}); err != nil {
		t.Fatalf("first Execute error: %v", err)
	}
	if _, err := uc.Execute(context.Background(), Request{Seed: &seed}); err != nil {
		t.Fatalf("second Execute error: %v", err)
	}
	a, b := repo.created[0].Map, repo.created[1].Map
	for i := range a.Tiles {
		if a.Tiles[i] != b.Tiles[i] {
			t.Fatalf("tile %d differs: %+v vs %+v", i, a.Tiles[i], b.Tiles[i])
		}
	}
	if len(a.Settlements) != len(b.Settlements) {
		t.Fatalf("settlement counts differ")
	}
	for i := range a.Settlements {
		if a.Settlements[i].ID != b.Settlements[i].ID || a.Settlements[i].Name != b.Settlements[i].Name {
			t.Fatalf("settlement %d differs", i)
		}
	}
}

func TestUseCase_DefaultsSeedFromClock(t *testing.T) {
	repo := &fakeRepo{}
	now := time.Unix(0, 123456789)
	uc := UseCase{Repo: repo, Config: smallConfig(), Now: func() time.Time { return now }, NewID: counterIDs()}

	resp, err := uc.Execute(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if resp.Seed != now.UnixNano() {
		t.Fatalf("expected clock seed %d, got %d", now.UnixNano(), resp.Seed)
	}
}

func TestUseCase_RequestOverridesConfig(t *testing.T) {
	repo := &fakeRepo{}
	seed := int64(1)
	uc := UseCase{Repo: repo, Config: smallConfig(), NewID: counterIDs()}

	resp, err := uc.Execute(context.Background(), Request{Seed: &seed, Width: 20, Height: 10, Settlements: 2, Resources: 3, Noise: "perlin"})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if resp.Width != 20 || resp.Height != 10 || resp.Noise != world.NoisePerlin {
		t.Fatalf("overrides not applied: %+v", resp)
	}
	if resp.Report.Settlements.Requested != 2 || resp.Report.Resources.Requested != 3 {
		t.Fatalf("placement targets not applied: %+v", resp.Report)
	}
}

func TestUseCase_RejectsInvalidRequest(t *testing.T) {
	uc := UseCase{Repo: &fakeRepo{}, Config: smallConfig()}
	cases := []Request{
		{Width: -1},
		{Height: maxDimension + 1},
		{Settlements: -2},
		{Resources: maxPlacement + 1},
		{Noise: "fractal"},
	}
	for _, req := range cases {
		if _, err := uc.Execute(context.Background(), req); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("expected ErrInvalidRequest for %+v, got %v", req, err)
		}
	}
	if _, err := (UseCase{}).Execute(context.Background(), Request{}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest without repo, got %v", err)
	}
}

func TestUseCase_RetriesIDConflict(t *testing.T) {
	repo := &fakeRepo{conflicts: 2}
	seed := int64(3)
	uc := UseCase{Repo: repo, Config: smallConfig(), NewID: counterIDs()}

	resp, err := uc.Execute(context.Background(), Request{Seed: &seed})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if resp.WorldID != "w3" {
		t.Fatalf("expected third id, got %s", resp.WorldID)
	}
}

func TestUseCase_PropagatesRepoError(t *testing.T) {
	wantErr := errors.New("db down")
	seed := int64(3)
	uc := UseCase{Repo: &fakeRepo{err: wantErr}, Config: smallConfig(), NewID: counterIDs()}

	if _, err := uc.Execute(context.Background(), Request{Seed: &seed}); !errors.Is(err, wantErr) {
		t.Fatalf("expected repo error, got %v", err)
	}
}

func smallConfig() world.GenConfig {
	cfg := world.SmallConfig()
	cfg.Width = 48
	cfg.Height = 32
	cfg.NumSettlements = 3
	cfg.NumResources = 4
	return cfg
}

func counterIDs() func() string {
	n := 0
	return func() string {
		n++
		return "w" + string(rune('0'+n))
	}
}

type fakeRepo struct {
	created   []ports.WorldRecord
	conflicts int
	err       error
}

var _ ports.WorldRepository = (*fakeRepo)(nil)

func (r *fakeRepo) Create(_ context.Context, rec ports.WorldRecord) error {
	if r.err != nil {
		return r.err
	}
	if r.conflicts > 0 {
		r.conflicts--
		return ports.ErrConflict
	}
	r.created = append(r.created, rec)
	return nil
}

func (r *fakeRepo) Get(_ context.Context, _ string) (ports.WorldRecord, error) {
	return ports.WorldRecord{}, ports.ErrNotFound
}

func (r *fakeRepo) List(_ context.Context, _ int) ([]ports.WorldSummary, error) {
	return nil, nil
}

func (r *fakeRepo) AppendRoad(_ context.Context, _ string, _ world.RoadConnection) error {
	return nil
}

func (r *fakeRepo) SaveResources(_ context.Context, _ string, _ []world.ResourceNode, _ time.Time) error {
	return nil
}

type fakeMetrics struct {
	generated int
}

func (m *fakeMetrics) RecordGenerated(world.GenReport) { m.generated++ }
func (m *fakeMetrics) RecordRoadBuilt(float64)         {}
func (m *fakeMetrics) RecordNoPath()                   {}
func (m *fakeMetrics) RecordTick(int)                  {}

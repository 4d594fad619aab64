package observe

import (
	"context"
	"errors"
	"testing"
	"time"

	"overland/internal/app/ports"
	"overland/internal/domain/world"
)

func TestView_ClipsWindowToMap(t *testing.T) {
	uc := UseCase{Repo: newFakeRepo()}

	resp, err := uc.View(context.Background(), ViewRequest{WorldID: "w1", X: 1, Y: 1, Radius: 3})
	if err != nil {
		t.Fatalf("View error: %v", err)
	}
	want := Window{MinX: 0, MinY: 0, MaxX: 4, MaxY: 4}
	if resp.Window != want {
		t.Fatalf("expected window %+v, got %+v", want, resp.Window)
	}
	if len(resp.Tiles) != 25 {
		t.Fatalf("expected 25 tiles, got %d", len(resp.Tiles))
	}
	if len(resp.Settlements) != 1 || resp.Settlements[0].ID != 1 {
		t.Fatalf("expected settlement 1 in view, got %+v", resp.Settlements)
	}
	if len(resp.Roads) != 1 {
		t.Fatalf("expected the road in view, got %d", len(resp.Roads))
	}
	if len(resp.Resources) != 0 {
		t.Fatalf("expected no resources in view, got %+v", resp.Resources)
	}
}

func TestView_IncludesResourceFootprintAtEdge(t *testing.T) {
	uc := UseCase{Repo: newFakeRepo()}

	resp, err := uc.View(context.Background(), ViewRequest{WorldID: "w1", X: 10, Y: 10, Radius: 3})
	if err != nil {
		t.Fatalf("View error: %v", err)
	}
	if len(resp.Resources) != 1 || resp.Resources[0].ID != 7 {
		t.Fatalf("expected resource 7 overlapping the window, got %+v", resp.Resources)
	}
}

func TestView_DefaultsAndRejections(t *testing.T) {
	uc := UseCase{Repo: newFakeRepo()}

	resp, err := uc.View(context.Background(), ViewRequest{WorldID: "w1", X: 10, Y: 10})
	if err != nil {
		t.Fatalf("View error: %v", err)
	}
	if resp.Radius != DefaultViewRadius {
		t.Fatalf("expected default radius, got %d", resp.Radius)
	}
	for _, req := range []ViewRequest{
		{WorldID: "w1", X: 1, Y: 1, Radius: MaxViewRadius + 1},
		{WorldID: "w1", X: 1, Y: 1, Radius: -1},
		{WorldID: "w1", X: 99, Y: 1},
		{X: 1, Y: 1},
	} {
		if _, err := uc.View(context.Background(), req); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("expected ErrInvalidRequest for %+v, got %v", req, err)
		}
	}
}

func TestSelect_SettlementBeforeResource(t *testing.T) {
	uc := UseCase{Repo: newFakeRepo()}

	resp, err := uc.Select(context.Background(), SelectRequest{WorldID: "w1", X: 3, Y: 2})
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if resp.Kind != SelectionSettlement || resp.Settlement.ID != 1 {
		t.Fatalf("expected settlement 1, got %+v", resp)
	}
	if resp.DiameterTiles != 5 {
		t.Fatalf("expected diameter 5, got %d", resp.DiameterTiles)
	}
}

func TestSelect_ResourceAndNone(t *testing.T) {
	uc := UseCase{Repo: newFakeRepo()}

	resp, err := uc.Select(context.Background(), SelectRequest{WorldID: "w1", X: 15, Y: 16})
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if resp.Kind != SelectionResource || resp.Resource.ID != 7 {
		t.Fatalf("expected resource 7, got %+v", resp)
	}

	resp, err = uc.Select(context.Background(), SelectRequest{WorldID: "w1", X: 10, Y: 0})
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if resp.Kind != SelectionNone || resp.Tile.X != 10 {
		t.Fatalf("expected empty selection, got %+v", resp)
	}

	if _, err := uc.Select(context.Background(), SelectRequest{WorldID: "w1", X: -1, Y: 0}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestFindSettlement(t *testing.T) {
	uc := UseCase{Repo: newFakeRepo()}

	resp, err := uc.FindSettlement(context.Background(), FindRequest{WorldID: "w1", Name: "  porttOn "})
	if err != nil {
		t.Fatalf("FindSettlement error: %v", err)
	}
	if !resp.Exact || resp.Settlement.ID != 2 {
		t.Fatalf("expected exact match on Portton, got %+v", resp)
	}

	resp, err = uc.FindSettlement(context.Background(), FindRequest{WorldID: "w1", Name: "Nrthford"})
	if err != nil {
		t.Fatalf("FindSettlement error: %v", err)
	}
	if resp.Exact || resp.Settlement.ID != 1 || resp.Distance != 1 {
		t.Fatalf("expected fuzzy match on Northford, got %+v", resp)
	}

	if _, err := uc.FindSettlement(context.Background(), FindRequest{WorldID: "w1", Name: "Lakewick"}); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := uc.FindSettlement(context.Background(), FindRequest{WorldID: "w1", Name: " "}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestSummaryAndList(t *testing.T) {
	repo := newFakeRepo()
	uc := UseCase{Repo: repo}

	resp, err := uc.Summary(context.Background(), "w1")
	if err != nil {
		t.Fatalf("Summary error: %v", err)
	}
	if resp.World.ID != "w1" || resp.World.Settlements != 2 || resp.World.Roads != 1 {
		t.Fatalf("unexpected summary: %+v", resp.World)
	}
	if resp.TileCounts[string(world.TilePlains)] != 20*20-1 || resp.TileCounts[string(world.TileForest)] != 1 {
		t.Fatalf("unexpected tile counts: %+v", resp.TileCounts)
	}

	list, err := uc.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if repo.listLimit != DefaultListLimit {
		t.Fatalf("expected default limit, got %d", repo.listLimit)
	}
	if len(list) != 2 || list[0].ID != "w2" {
		t.Fatalf("expected newest first, got %+v", list)
	}

	if _, err := uc.List(context.Background(), 1000); err != nil || repo.listLimit != MaxListLimit {
		t.Fatalf("expected limit clamp, got %d err=%v", repo.listLimit, err)
	}
	if _, err := uc.Summary(context.Background(), "missing"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func testWorld() *world.Map {
	m := &world.Map{Seed: 9, Width: 20, Height: 20}
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			m.Tiles = append(m.Tiles, world.Tile{X: x, Y: y, Type: world.TilePlains})
		}
	}
	m.Tiles[m.Index(5, 5)].Type = world.TileForest
	m.Settlements = []world.Settlement{
		{ID: 1, Name: "Northford", X: 2, Y: 2, Size: world.SizeVillage, Population: 2500},
		{ID: 2, Name: "Portton", X: 17, Y: 3, Size: world.SizeTown, Population: 40000},
	}
	m.Resources = []world.ResourceNode{
		{ID: 7, Type: world.ResourceWood, X: 15, Y: 15, Capacity: 100, Current: 10},
	}
	m.Roads = []world.RoadConnection{
		{ID: 1, Path: []world.Point{{X: 2, Y: 2}, {X: 3, Y: 2}, {X: 4, Y: 2}}},
	}
	return m
}

type fakeRepo struct {
	rec       ports.WorldRecord
	listLimit int
}

var _ ports.WorldRepository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rec: ports.WorldRecord{
		ID:        "w1",
		Noise:     world.NoiseSimplex,
		Map:       testWorld(),
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}}
}

func (r *fakeRepo) Create(_ context.Context, _ ports.WorldRecord) error { return nil }

func (r *fakeRepo) Get(_ context.Context, id string) (ports.WorldRecord, error) {
	if id != r.rec.ID {
		return ports.WorldRecord{}, ports.ErrNotFound
	}
	return r.rec, nil
}

func (r *fakeRepo) List(_ context.Context, limit int) ([]ports.WorldSummary, error) {
	r.listLimit = limit
	return []ports.WorldSummary{
		ports.SummaryOf(r.rec),
		{ID: "w2", CreatedAt: r.rec.CreatedAt.Add(time.Hour)},
	}, nil
}

func (r *fakeRepo) AppendRoad(_ context.Context, _ string, _ world.RoadConnection) error { return nil }

func (r *fakeRepo) SaveResources(_ context.Context, _ string, _ []world.ResourceNode, _ time.Time) error {
	return nil
}

type readOnlyRepo struct {
	*fakeRepo
	readOnlyGets int
}

func (r *readOnlyRepo) Get(_ context.Context, _ string) (ports.WorldRecord, error) {
	return ports.WorldRecord{}, errors.New("full copy requested")
}

func (r *readOnlyRepo) GetReadOnly(ctx context.Context, id string) (ports.WorldRecord, error) {
	r.readOnlyGets++
	return r.fakeRepo.Get(ctx, id)
}

func TestUseCase_ReadsUseReadOnlyPath(t *testing.T) {
	repo := &readOnlyRepo{fakeRepo: newFakeRepo()}
	uc := UseCase{Repo: repo}
	ctx := context.Background()

	if _, err := uc.Select(ctx, SelectRequest{WorldID: "w1", X: 2, Y: 2}); err != nil {
		t.Fatalf("select: %v", err)
	}
	if _, err := uc.View(ctx, ViewRequest{WorldID: "w1", X: 2, Y: 2, Radius: 1}); err != nil {
		t.Fatalf("view: %v", err)
	}
	if _, err := uc.Summary(ctx, "w1"); err != nil {
		t.Fatalf("summary: %v", err)
	}
	if repo.readOnlyGets != 3 {
		t.Fatalf("expected 3 read-only loads, got %d", repo.readOnlyGets)
	}
}

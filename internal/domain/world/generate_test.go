package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() GenConfig {
	cfg := SmallConfig()
	cfg.Width = 64
	cfg.Height = 48
	cfg.NumSettlements = 6
	cfg.NumResources = 10
	return cfg
}

func TestGenerateIsDeterministic(t *testing.T) {
	a, reportA := Generate(testConfig(), 1234, nil)
	b, reportB := Generate(testConfig(), 1234, nil)

	require.Equal(t, a.Tiles, b.Tiles)
	require.Equal(t, a.Settlements, b.Settlements)
	require.Equal(t, a.Resources, b.Resources)
	assert.Equal(t, reportA, reportB)
}

func TestGenerateSeedsDiffer(t *testing.T) {
	a, _ := Generate(testConfig(), 1, nil)
	b, _ := Generate(testConfig(), 2, nil)

	assert.NotEqual(t, a.Tiles, b.Tiles)
}

func TestGeneratePerlinWorld(t *testing.T) {
	cfg := testConfig()
	cfg.Noise = NoisePerlin

	a, _ := Generate(cfg, 77, nil)
	b, _ := Generate(cfg, 77, nil)
	require.Equal(t, a.Tiles, b.Tiles)
}

func TestGenerateShape(t *testing.T) {
	cfg := testConfig()
	m, report := Generate(cfg, 99, nil)

	require.Len(t, m.Tiles, cfg.Width*cfg.Height)
	assert.Equal(t, int64(99), m.Seed)
	assert.Empty(t, m.Roads)
	for i, tile := range m.Tiles {
		require.Equal(t, i, m.Index(tile.X, tile.Y))
		require.True(t, tile.Type.Valid())
		require.GreaterOrEqual(t, tile.Elevation, 0.0)
		require.LessOrEqual(t, tile.Elevation, 1.0)
		require.GreaterOrEqual(t, tile.Moisture, 0.0)
		require.LessOrEqual(t, tile.Moisture, 1.0)
	}

	assert.Equal(t, cfg.NumSettlements, report.Settlements.Requested)
	assert.Equal(t, len(m.Settlements), report.Settlements.Placed)
	assert.Equal(t, len(m.Resources), report.Resources.Placed)
	assert.Equal(t, m.TypeCounts()[TileRiver], report.Rivers.TilesCarved)
}

func TestGenerateSettlementsSitOnLand(t *testing.T) {
	m, _ := Generate(testConfig(), 5, nil)
	for _, s := range m.Settlements {
		tile, ok := m.TileAt(s.X, s.Y)
		require.True(t, ok)
		assert.True(t, tile.Type.IsLand(), "settlement %s on %s", s.Name, tile.Type)
	}
}

func TestGenerateSharesAllocator(t *testing.T) {
	ids := NewIDAllocator()
	a, _ := Generate(testConfig(), 1, ids)
	b, _ := Generate(testConfig(), 1, ids)
	if len(a.Settlements) == 0 || len(b.Settlements) == 0 {
		t.Skip("seed produced no settlements")
	}

	assert.Equal(t, len(a.Settlements)+1, b.Settlements[0].ID)
	assert.Equal(t, a.Settlements[0].ID, 1)
}

func TestGenerateZeroConfigNormalises(t *testing.T) {
	cfg := GenConfig{Width: 16, Height: 12, NumSettlements: 1, NumResources: 1}
	m, _ := Generate(cfg, 3, nil)
	assert.Equal(t, 16, m.Width)
	assert.Equal(t, 12, m.Height)
	assert.Len(t, m.Tiles, 16*12)
}

func TestGenerateUnseededResourceTypesKeepsTerrain(t *testing.T) {
	cfg := testConfig()
	cfg.UnseededResourceTypes = true

	a, _ := Generate(cfg, 8, nil)
	b, _ := Generate(cfg, 8, nil)
	require.Equal(t, a.Tiles, b.Tiles)
	require.Equal(t, a.Settlements, b.Settlements)
}

package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyBands(t *testing.T) {
	cases := []struct {
		name      string
		elevation float64
		moisture  float64
		want      TileType
	}{
		{"deep", 0.1, 0.9, TileDeepWater},
		{"shallow", 0.35, 0.1, TileShallowWater},
		{"coast", 0.4, 0.5, TileCoast},
		{"dry peak", 0.9, 0.2, TileMountains},
		{"wet peak", 0.9, 0.8, TileForest},
		{"dry highland", 0.7, 0.3, TileHills},
		{"wet highland", 0.7, 0.6, TileForest},
		{"midland", 0.5, 0.5, TilePlains},
		{"wet midland", 0.5, 0.75, TileForest},
		{"lowland", 0.43, 0.6, TilePlains},
		{"wet lowland", 0.43, 0.66, TileForest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.elevation, tc.moisture))
		})
	}
}

func TestClassifyWaterBoundaries(t *testing.T) {
	th := DefaultThresholds()
	assert.Equal(t, TileShallowWater, th.Classify(th.DeepWater, 0))
	assert.Equal(t, TileCoast, th.Classify(th.ShallowWater, 0))
	assert.Equal(t, TilePlains, th.Classify(th.Coast, 0))
}

func TestClassifyNeverReturnsRiver(t *testing.T) {
	for e := 0.0; e <= 1.0; e += 0.01 {
		for m := 0.0; m <= 1.0; m += 0.05 {
			got := Classify(e, m)
			require.True(t, got.Valid())
			require.NotEqual(t, TileRiver, got)
		}
	}
}

func TestThresholdsValidate(t *testing.T) {
	require.NoError(t, DefaultThresholds().Validate())

	bad := DefaultThresholds()
	bad.ShallowWater = 0.2
	require.ErrorIs(t, bad.Validate(), ErrInvalidThresholds)
}

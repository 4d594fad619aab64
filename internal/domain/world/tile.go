package world

type TileType string

const (
	TileDeepWater    TileType = "deep_water"
	TileShallowWater TileType = "shallow_water"
	TileCoast        TileType = "coast"
	TilePlains       TileType = "plains"
	TileForest       TileType = "forest"
	TileHills        TileType = "hills"
	TileMountains    TileType = "mountains"
	TileRiver        TileType = "river"
)

// TileTypes lists every tile type in a stable order. Storage codecs rely on
// the position of each entry.
var TileTypes = []TileType{
	TileDeepWater,
	TileShallowWater,
	TileCoast,
	TilePlains,
	TileForest,
	TileHills,
	TileMountains,
	TileRiver,
}

// IsLand reports the four classified land types. Coast and river are not land.
func (t TileType) IsLand() bool {
	switch t {
	case TilePlains, TileForest, TileHills, TileMountains:
		return true
	default:
		return false
	}
}

// IsOpenWater reports tiles that roads cannot cross and rivers drain into.
func (t TileType) IsOpenWater() bool {
	return t == TileDeepWater || t == TileShallowWater
}

// IsWaterSource reports the tiles that seed the distance-to-water field.
func (t TileType) IsWaterSource() bool {
	return t.IsOpenWater() || t == TileCoast
}

func (t TileType) Valid() bool {
	for _, tt := range TileTypes {
		if tt == t {
			return true
		}
	}
	return false
}

type Tile struct {
	X         int      `json:"x"`
	Y         int      `json:"y"`
	Type      TileType `json:"type"`
	Elevation float64  `json:"elevation"`
	Moisture  float64  `json:"moisture"`
}

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func distanceSq(x1, y1, x2, y2 int) int {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

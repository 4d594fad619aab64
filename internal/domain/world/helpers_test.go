package world

func flatMap(width, height int, tt TileType) *Map {
	m := &Map{Width: width, Height: height}
	m.Tiles = make([]Tile, 0, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			m.Tiles = append(m.Tiles, Tile{X: x, Y: y, Type: tt, Elevation: 0.5, Moisture: 0.5})
		}
	}
	return m
}

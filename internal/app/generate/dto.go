package generate

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"overland/internal/domain/world"
)

type Request struct {
	Seed        *int64 `json:"seed,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Settlements int    `json:"settlements,omitempty"`
	Resources   int    `json:"resources,omitempty"`
	Noise       string `json:"noise,omitempty"`
}

// UnmarshalJSON accepts any JSON value for seed. A seed that is not an
// integer in int64 range is dropped so generation falls back to a
// time-derived seed.
func (r *Request) UnmarshalJSON(data []byte) error {
	type plain Request
	var aux struct {
		plain
		Seed json.RawMessage `json:"seed,omitempty"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = Request(aux.plain)
	r.Seed = parseSeed(aux.Seed)
	return nil
}

func parseSeed(raw json.RawMessage) *int64 {
	s := strings.TrimSpace(string(raw))
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return &v
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return nil
	}
	v := int64(f)
	return &v
}

type Response struct {
	WorldID     string          `json:"world_id"`
	Seed        int64           `json:"seed"`
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	Noise       world.NoiseKind `json:"noise"`
	Report      world.GenReport `json:"report"`
	TileCounts  map[string]int  `json:"tile_counts"`
	Settlements int             `json:"settlements"`
	Resources   int             `json:"resources"`
}

package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"overland/internal/adapter/repo/gorm/model"
	"overland/internal/adapter/repo/tilecodec"
	"overland/internal/app/ports"
	"overland/internal/domain/world"

	"gorm.io/gorm"
)

const insertBatchSize = 500

type WorldRepo struct {
	db *gorm.DB
}

func NewWorldRepo(db *gorm.DB) WorldRepo {
	return WorldRepo{db: db}
}

func (r WorldRepo) Create(ctx context.Context, rec ports.WorldRecord) error {
	if rec.Map == nil {
		return fmt.Errorf("create world %s: nil map", rec.ID)
	}
	m := rec.Map
	tiles, err := tilecodec.Encode(m.Width, m.Height, m.Tiles)
	if err != nil {
		return err
	}
	row := model.World{
		ID:         rec.ID,
		Seed:       m.Seed,
		Width:      int32(m.Width),
		Height:     int32(m.Height),
		Noise:      string(rec.Noise),
		Tiles:      tiles,
		CreatedAt:  rec.CreatedAt,
		LastTickAt: timePtr(rec.LastTickAt),
	}
	if row.Noise == "" {
		row.Noise = string(world.NoiseSimplex)
	}

	err = conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		if settlements := toSettlementRows(rec.ID, m.Settlements); len(settlements) > 0 {
			if err := tx.CreateInBatches(settlements, insertBatchSize).Error; err != nil {
				return err
			}
		}
		if resources := toResourceRows(rec.ID, m.Resources); len(resources) > 0 {
			if err := tx.CreateInBatches(resources, insertBatchSize).Error; err != nil {
				return err
			}
		}
		for _, road := range m.Roads {
			roadRow, err := toRoadRow(rec.ID, road, rec.CreatedAt)
			if err != nil {
				return err
			}
			if err := tx.Create(&roadRow).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ports.ErrConflict
	}
	return err
}

func (r WorldRepo) Get(ctx context.Context, id string) (ports.WorldRecord, error) {
	db := conn(ctx, r.db)

	var row model.World
	if err := db.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.WorldRecord{}, ports.ErrNotFound
		}
		return ports.WorldRecord{}, err
	}
	width, height, tiles, err := tilecodec.Decode(row.Tiles)
	if err != nil {
		return ports.WorldRecord{}, fmt.Errorf("decode world %s: %w", id, err)
	}

	var settlements []model.WorldSettlement
	if err := db.Where("world_id = ?", id).Order("settlement_id").Find(&settlements).Error; err != nil {
		return ports.WorldRecord{}, err
	}
	var resources []model.WorldResource
	if err := db.Where("world_id = ?", id).Order("resource_id").Find(&resources).Error; err != nil {
		return ports.WorldRecord{}, err
	}
	var roads []model.WorldRoad
	if err := db.Where("world_id = ?", id).Order("road_id").Find(&roads).Error; err != nil {
		return ports.WorldRecord{}, err
	}

	m := &world.Map{
		Seed:        row.Seed,
		Width:       width,
		Height:      height,
		Tiles:       tiles,
		Settlements: make([]world.Settlement, 0, len(settlements)),
		Resources:   make([]world.ResourceNode, 0, len(resources)),
		Roads:       make([]world.RoadConnection, 0, len(roads)),
	}
	for _, s := range settlements {
		m.Settlements = append(m.Settlements, fromSettlementRow(s))
	}
	for _, res := range resources {
		m.Resources = append(m.Resources, fromResourceRow(res))
	}
	for _, rd := range roads {
		road, err := fromRoadRow(rd)
		if err != nil {
			return ports.WorldRecord{}, fmt.Errorf("decode road %d: %w", rd.RoadID, err)
		}
		m.Roads = append(m.Roads, road)
	}

	rec := ports.WorldRecord{
		ID:        row.ID,
		Noise:     world.NoiseKind(row.Noise),
		Map:       m,
		CreatedAt: row.CreatedAt,
	}
	if row.LastTickAt != nil {
		rec.LastTickAt = *row.LastTickAt
	}
	return rec, nil
}

func (r WorldRepo) List(ctx context.Context, limit int) ([]ports.WorldSummary, error) {
	db := conn(ctx, r.db)

	var rows []model.World
	q := db.Select("id", "seed", "width", "height", "noise", "created_at", "last_tick_at").Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []ports.WorldSummary{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	settlements, err := countByWorld(db, &model.WorldSettlement{}, ids)
	if err != nil {
		return nil, err
	}
	resources, err := countByWorld(db, &model.WorldResource{}, ids)
	if err != nil {
		return nil, err
	}
	roads, err := countByWorld(db, &model.WorldRoad{}, ids)
	if err != nil {
		return nil, err
	}

	out := make([]ports.WorldSummary, 0, len(rows))
	for _, row := range rows {
		s := ports.WorldSummary{
			ID:          row.ID,
			Seed:        row.Seed,
			Noise:       world.NoiseKind(row.Noise),
			Width:       int(row.Width),
			Height:      int(row.Height),
			Settlements: settlements[row.ID],
			Resources:   resources[row.ID],
			Roads:       roads[row.ID],
			CreatedAt:   row.CreatedAt,
		}
		if row.LastTickAt != nil {
			s.LastTickAt = *row.LastTickAt
		}
		out = append(out, s)
	}
	return out, nil
}

func (r WorldRepo) AppendRoad(ctx context.Context, worldID string, road world.RoadConnection) error {
	row, err := toRoadRow(worldID, road, time.Now())
	if err != nil {
		return err
	}
	err = conn(ctx, r.db).Create(&row).Error
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ports.ErrConflict
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ports.ErrNotFound
	}
	return err
}

func (r WorldRepo) SaveResources(ctx context.Context, worldID string, resources []world.ResourceNode, tickAt time.Time) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.World{}).Where("id = ?", worldID).Update("last_tick_at", tickAt)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ports.ErrNotFound
		}
		for _, node := range resources {
			err := tx.Model(&model.WorldResource{}).
				Where("world_id = ? AND resource_id = ?", worldID, int32(node.ID)).
				Update("current", node.Current).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

type worldCount struct {
	WorldID string
	N       int
}

func countByWorld(db *gorm.DB, table any, ids []string) (map[string]int, error) {
	var rows []worldCount
	err := db.Model(table).
		Select("world_id, COUNT(*) AS n").
		Where("world_id IN ?", ids).
		Group("world_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.WorldID] = row.N
	}
	return out, nil
}

func toSettlementRows(worldID string, settlements []world.Settlement) []model.WorldSettlement {
	out := make([]model.WorldSettlement, 0, len(settlements))
	for _, s := range settlements {
		out = append(out, model.WorldSettlement{
			WorldID:      worldID,
			SettlementID: int32(s.ID),
			Name:         s.Name,
			X:            int32(s.X),
			Y:            int32(s.Y),
			Size:         string(s.Size),
			Population:   int32(s.Population),
			DemandPax:    int32(s.Demand.Pax),
			DemandGoods:  int32(s.Demand.Goods),
			DemandFuel:   int32(s.Demand.Fuel),
			SupplyGoods:  int32(s.Supply.Goods),
			SupplyFuel:   int32(s.Supply.Fuel),
		})
	}
	return out
}

func fromSettlementRow(row model.WorldSettlement) world.Settlement {
	return world.Settlement{
		ID:         int(row.SettlementID),
		Name:       row.Name,
		X:          int(row.X),
		Y:          int(row.Y),
		Size:       world.SettlementSize(row.Size),
		Population: int(row.Population),
		Demand: world.DemandProfile{
			Pax:   int(row.DemandPax),
			Goods: int(row.DemandGoods),
			Fuel:  int(row.DemandFuel),
		},
		Supply: world.SupplyProfile{
			Goods: int(row.SupplyGoods),
			Fuel:  int(row.SupplyFuel),
		},
	}
}

func toResourceRows(worldID string, resources []world.ResourceNode) []model.WorldResource {
	out := make([]model.WorldResource, 0, len(resources))
	for _, r := range resources {
		out = append(out, model.WorldResource{
			WorldID:      worldID,
			ResourceID:   int32(r.ID),
			Type:         string(r.Type),
			X:            int32(r.X),
			Y:            int32(r.Y),
			Richness:     r.Richness,
			Capacity:     int32(r.Capacity),
			Current:      r.Current,
			RegenPerTick: r.RegenPerTick,
		})
	}
	return out
}

func fromResourceRow(row model.WorldResource) world.ResourceNode {
	return world.ResourceNode{
		ID:           int(row.ResourceID),
		Type:         world.ResourceType(row.Type),
		X:            int(row.X),
		Y:            int(row.Y),
		Richness:     row.Richness,
		Capacity:     int(row.Capacity),
		Current:      row.Current,
		RegenPerTick: row.RegenPerTick,
	}
}

func toRoadRow(worldID string, road world.RoadConnection, createdAt time.Time) (model.WorldRoad, error) {
	path, err := json.Marshal(road.Path)
	if err != nil {
		return model.WorldRoad{}, err
	}
	return model.WorldRoad{
		WorldID:   worldID,
		RoadID:    int32(road.ID),
		FromKind:  string(road.From.Kind),
		FromX:     int32(road.From.X),
		FromY:     int32(road.From.Y),
		ToKind:    string(road.To.Kind),
		ToX:       int32(road.To.X),
		ToY:       int32(road.To.Y),
		Path:      string(path),
		CreatedAt: createdAt,
	}, nil
}

func fromRoadRow(row model.WorldRoad) (world.RoadConnection, error) {
	path := []world.Point{}
	if row.Path != "" {
		if err := json.Unmarshal([]byte(row.Path), &path); err != nil {
			return world.RoadConnection{}, err
		}
	}
	return world.RoadConnection{
		ID:   int(row.RoadID),
		From: world.Endpoint{Kind: world.EndpointKind(row.FromKind), X: int(row.FromX), Y: int(row.FromY)},
		To:   world.Endpoint{Kind: world.EndpointKind(row.ToKind), X: int(row.ToX), Y: int(row.ToY)},
		Path: path,
	}, nil
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

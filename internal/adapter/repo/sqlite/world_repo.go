package sqliterepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"overland/internal/adapter/repo/tilecodec"
	"overland/internal/app/ports"
	"overland/internal/domain/world"
)

type WorldRepo struct {
	db *DB
	tx TxManager
}

func NewWorldRepo(db *DB) WorldRepo {
	return WorldRepo{db: db, tx: NewTxManager(db)}
}

type worldRow struct {
	ID           string `db:"id"`
	Seed         int64  `db:"seed"`
	Width        int    `db:"width"`
	Height       int    `db:"height"`
	Noise        string `db:"noise"`
	Tiles        []byte `db:"tiles"`
	CreatedAtNS  int64  `db:"created_at_ns"`
	LastTickAtNS int64  `db:"last_tick_at_ns"`
}

type settlementRow struct {
	SettlementID int    `db:"settlement_id"`
	Name         string `db:"name"`
	X            int    `db:"x"`
	Y            int    `db:"y"`
	Size         string `db:"size"`
	Population   int    `db:"population"`
	DemandPax    int    `db:"demand_pax"`
	DemandGoods  int    `db:"demand_goods"`
	DemandFuel   int    `db:"demand_fuel"`
	SupplyGoods  int    `db:"supply_goods"`
	SupplyFuel   int    `db:"supply_fuel"`
}

type resourceRow struct {
	ResourceID   int     `db:"resource_id"`
	Type         string  `db:"type"`
	X            int     `db:"x"`
	Y            int     `db:"y"`
	Richness     float64 `db:"richness"`
	Capacity     int     `db:"capacity"`
	Current      float64 `db:"current"`
	RegenPerTick float64 `db:"regen_per_tick"`
}

type roadRow struct {
	RoadID   int    `db:"road_id"`
	FromKind string `db:"from_kind"`
	FromX    int    `db:"from_x"`
	FromY    int    `db:"from_y"`
	ToKind   string `db:"to_kind"`
	ToX      int    `db:"to_x"`
	ToY      int    `db:"to_y"`
	PathJSON string `db:"path_json"`
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
	noise := string(rec.Noise)
	if noise == "" {
		noise = string(world.NoiseSimplex)
	}

	err = r.tx.RunInTx(ctx, func(ctx context.Context) error {
		q := r.db.q(ctx)
		_, err := q.ExecContext(ctx, `INSERT INTO worlds
			(id, seed, width, height, noise, tiles, created_at_ns, last_tick_at_ns)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, m.Seed, m.Width, m.Height, noise, tiles, unixNano(rec.CreatedAt), unixNano(rec.LastTickAt))
		if err != nil {
			return err
		}

		stmt, err := sqlx.PreparexContext(ctx, q, `INSERT INTO world_settlements
			(world_id, settlement_id, name, x, y, size, population,
			 demand_pax, demand_goods, demand_fuel, supply_goods, supply_fuel)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, s := range m.Settlements {
			if _, err := stmt.ExecContext(ctx, rec.ID, s.ID, s.Name, s.X, s.Y, string(s.Size), s.Population,
				s.Demand.Pax, s.Demand.Goods, s.Demand.Fuel, s.Supply.Goods, s.Supply.Fuel); err != nil {
				return err
			}
		}

		resStmt, err := sqlx.PreparexContext(ctx, q, `INSERT INTO world_resources
			(world_id, resource_id, type, x, y, richness, capacity, current, regen_per_tick)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer resStmt.Close()
		for _, n := range m.Resources {
			if _, err := resStmt.ExecContext(ctx, rec.ID, n.ID, string(n.Type), n.X, n.Y,
				n.Richness, n.Capacity, n.Current, n.RegenPerTick); err != nil {
				return err
			}
		}

		for _, road := range m.Roads {
			if err := insertRoad(ctx, q, rec.ID, road); err != nil {
				return err
			}
		}
		return nil
	})
	if isConstraint(err, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE) {
		return ports.ErrConflict
	}
	return err
}

func (r WorldRepo) Get(ctx context.Context, id string) (ports.WorldRecord, error) {
	q := r.db.q(ctx)

	var row worldRow
	if err := sqlx.GetContext(ctx, q, &row, `SELECT * FROM worlds WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ports.WorldRecord{}, ports.ErrNotFound
		}
		return ports.WorldRecord{}, err
	}
	width, height, tiles, err := tilecodec.Decode(row.Tiles)
	if err != nil {
		return ports.WorldRecord{}, fmt.Errorf("decode world %s: %w", id, err)
	}

	var settlements []settlementRow
	if err := sqlx.SelectContext(ctx, q, &settlements, `SELECT settlement_id, name, x, y, size, population,
		demand_pax, demand_goods, demand_fuel, supply_goods, supply_fuel
		FROM world_settlements WHERE world_id = ? ORDER BY settlement_id`, id); err != nil {
		return ports.WorldRecord{}, err
	}
	var resources []resourceRow
	if err := sqlx.SelectContext(ctx, q, &resources, `SELECT resource_id, type, x, y, richness, capacity, current, regen_per_tick
		FROM world_resources WHERE world_id = ? ORDER BY resource_id`, id); err != nil {
		return ports.WorldRecord{}, err
	}
	var roads []roadRow
	if err := sqlx.SelectContext(ctx, q, &roads, `SELECT road_id, from_kind, from_x, from_y, to_kind, to_x, to_y, path_json
		FROM world_roads WHERE world_id = ? ORDER BY road_id`, id); err != nil {
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
		m.Settlements = append(m.Settlements, world.Settlement{
			ID:         s.SettlementID,
			Name:       s.Name,
			X:          s.X,
			Y:          s.Y,
			Size:       world.SettlementSize(s.Size),
			Population: s.Population,
			Demand:     world.DemandProfile{Pax: s.DemandPax, Goods: s.DemandGoods, Fuel: s.DemandFuel},
			Supply:     world.SupplyProfile{Goods: s.SupplyGoods, Fuel: s.SupplyFuel},
		})
	}
	for _, n := range resources {
		m.Resources = append(m.Resources, world.ResourceNode{
			ID:           n.ResourceID,
			Type:         world.ResourceType(n.Type),
			X:            n.X,
			Y:            n.Y,
			Richness:     n.Richness,
			Capacity:     n.Capacity,
			Current:      n.Current,
			RegenPerTick: n.RegenPerTick,
		})
	}
	for _, rd := range roads {
		var path []world.Point
		if err := json.Unmarshal([]byte(rd.PathJSON), &path); err != nil {
			return ports.WorldRecord{}, fmt.Errorf("decode road %d: %w", rd.RoadID, err)
		}
		m.Roads = append(m.Roads, world.RoadConnection{
			ID:   rd.RoadID,
			From: world.Endpoint{Kind: world.EndpointKind(rd.FromKind), X: rd.FromX, Y: rd.FromY},
			To:   world.Endpoint{Kind: world.EndpointKind(rd.ToKind), X: rd.ToX, Y: rd.ToY},
			Path: path,
		})
	}

	return ports.WorldRecord{
		ID:         row.ID,
		Noise:      world.NoiseKind(row.Noise),
		Map:        m,
		CreatedAt:  fromUnixNano(row.CreatedAtNS),
		LastTickAt: fromUnixNano(row.LastTickAtNS),
	}, nil
}

type summaryRow struct {
	ID           string `db:"id"`
	Seed         int64  `db:"seed"`
	Noise        string `db:"noise"`
	Width        int    `db:"width"`
	Height       int    `db:"height"`
	CreatedAtNS  int64  `db:"created_at_ns"`
	LastTickAtNS int64  `db:"last_tick_at_ns"`
	Settlements  int    `db:"settlements"`
	Resources    int    `db:"resources"`
	Roads        int    `db:"roads"`
}

func (r WorldRepo) List(ctx context.Context, limit int) ([]ports.WorldSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	var rows []summaryRow
	err := sqlx.SelectContext(ctx, r.db.q(ctx), &rows, `SELECT w.id, w.seed, w.noise, w.width, w.height,
		w.created_at_ns, w.last_tick_at_ns,
		(SELECT COUNT(*) FROM world_settlements s WHERE s.world_id = w.id) AS settlements,
		(SELECT COUNT(*) FROM world_resources r WHERE r.world_id = w.id) AS resources,
		(SELECT COUNT(*) FROM world_roads rd WHERE rd.world_id = w.id) AS roads
		FROM worlds w ORDER BY w.created_at_ns DESC, w.id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	out := make([]ports.WorldSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, ports.WorldSummary{
			ID:          row.ID,
			Seed:        row.Seed,
			Noise:       world.NoiseKind(row.Noise),
			Width:       row.Width,
			Height:      row.Height,
			Settlements: row.Settlements,
			Resources:   row.Resources,
			Roads:       row.Roads,
			CreatedAt:   fromUnixNano(row.CreatedAtNS),
			LastTickAt:  fromUnixNano(row.LastTickAtNS),
		})
	}
	return out, nil
}

func (r WorldRepo) AppendRoad(ctx context.Context, worldID string, road world.RoadConnection) error {
	err := insertRoad(ctx, r.db.q(ctx), worldID, road)
	switch {
	case isConstraint(err, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE):
		return ports.ErrConflict
	case isConstraint(err, sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY):
		return ports.ErrNotFound
	}
	return err
}

func (r WorldRepo) SaveResources(ctx context.Context, worldID string, resources []world.ResourceNode, tickAt time.Time) error {
	return r.tx.RunInTx(ctx, func(ctx context.Context) error {
		q := r.db.q(ctx)
		res, err := q.ExecContext(ctx, `UPDATE worlds SET last_tick_at_ns = ? WHERE id = ?`, unixNano(tickAt), worldID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return ports.ErrNotFound
		}
		for _, node := range resources {
			if _, err := q.ExecContext(ctx, `UPDATE world_resources SET current = ? WHERE world_id = ? AND resource_id = ?`,
				node.Current, worldID, node.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertRoad(ctx context.Context, q querier, worldID string, road world.RoadConnection) error {
	path, err := json.Marshal(road.Path)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `INSERT INTO world_roads
		(world_id, road_id, from_kind, from_x, from_y, to_kind, to_x, to_y, path_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		worldID, road.ID, string(road.From.Kind), road.From.X, road.From.Y,
		string(road.To.Kind), road.To.X, road.To.Y, string(path))
	return err
}

func isConstraint(err error, codes ...int) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	for _, c := range codes {
		if se.Code() == c {
			return true
		}
	}
	return false
}

func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(ns int64) time.Time {
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns).UTC()
}

// Package sqliterepo stores worlds in a single SQLite file.
package sqliterepo

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite connection for world persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at path and applies the schema.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One writer at a time; transactions hold the only connection.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS worlds (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		noise TEXT NOT NULL,
		tiles BLOB NOT NULL,
		created_at_ns INTEGER NOT NULL,
		last_tick_at_ns INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS world_settlements (
		world_id TEXT NOT NULL REFERENCES worlds(id) ON DELETE CASCADE,
		settlement_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		size TEXT NOT NULL,
		population INTEGER NOT NULL,
		demand_pax INTEGER NOT NULL,
		demand_goods INTEGER NOT NULL,
		demand_fuel INTEGER NOT NULL,
		supply_goods INTEGER NOT NULL,
		supply_fuel INTEGER NOT NULL,
		PRIMARY KEY (world_id, settlement_id)
	);

	CREATE TABLE IF NOT EXISTS world_resources (
		world_id TEXT NOT NULL REFERENCES worlds(id) ON DELETE CASCADE,
		resource_id INTEGER NOT NULL,
		type TEXT NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		richness REAL NOT NULL,
		capacity INTEGER NOT NULL,
		current REAL NOT NULL,
		regen_per_tick REAL NOT NULL,
		PRIMARY KEY (world_id, resource_id)
	);

	CREATE TABLE IF NOT EXISTS world_roads (
		world_id TEXT NOT NULL REFERENCES worlds(id) ON DELETE CASCADE,
		road_id INTEGER NOT NULL,
		from_kind TEXT NOT NULL,
		from_x INTEGER NOT NULL,
		from_y INTEGER NOT NULL,
		to_kind TEXT NOT NULL,
		to_x INTEGER NOT NULL,
		to_y INTEGER NOT NULL,
		path_json TEXT NOT NULL,
		PRIMARY KEY (world_id, road_id)
	);

	CREATE INDEX IF NOT EXISTS idx_worlds_created ON worlds(created_at_ns);
	`
	_, err := db.conn.Exec(schema)
	return err
}

type txKeyType struct{}

var txKey = txKeyType{}

// querier is satisfied by both *sqlx.DB and *sqlx.Tx.
type querier interface {
	sqlx.ExtContext
	sqlx.PreparerContext
}

func (db *DB) q(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey).(*sqlx.Tx); ok && tx != nil {
		return tx
	}
	return db.conn
}

type TxManager struct {
	db *DB
}

func NewTxManager(db *DB) TxManager {
	return TxManager{db: db}
}

// RunInTx commits when fn returns nil and rolls back otherwise. Nested calls
// join the outer transaction.
func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey).(*sqlx.Tx); ok {
		return fn(ctx)
	}
	tx, err := t.db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(context.WithValue(ctx, txKey, tx)); err != nil {
		return err
	}
	return tx.Commit()
}

package gormrepo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
)

const migrationsTable = "world_schema_migrations"

// ApplyMigrations runs every *.sql file in dir that the world store has not
// applied yet, in file name order, each in its own transaction. It returns
// the versions it applied.
func ApplyMigrations(ctx context.Context, db *gorm.DB, dir string) ([]string, error) {
	createMetaTableSQL := `
CREATE TABLE IF NOT EXISTS ` + migrationsTable + ` (
  version TEXT PRIMARY KEY,
  applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`
	if err := db.WithContext(ctx).Exec(createMetaTableSQL).Error; err != nil {
		return nil, fmt.Errorf("world schema: create %s: %w", migrationsTable, err)
	}

	files, err := migrationFiles(dir)
	if err != nil {
		return nil, err
	}

	var done []string
	if err := db.WithContext(ctx).Table(migrationsTable).Pluck("version", &done).Error; err != nil {
		return nil, fmt.Errorf("world schema: list applied versions: %w", err)
	}
	applied := make(map[string]struct{}, len(done))
	for _, v := range done {
		applied[v] = struct{}{}
	}

	var ran []string
	for _, name := range files {
		version := strings.TrimSuffix(name, ".sql")
		if _, ok := applied[version]; ok {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return ran, fmt.Errorf("world schema: read %s: %w", name, err)
		}

		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(content)).Error; err != nil {
				return fmt.Errorf("world schema: apply %s: %w", name, err)
			}
			if err := tx.Exec(`INSERT INTO `+migrationsTable+`(version, applied_at) VALUES (?, ?)`, version, time.Now()).Error; err != nil {
				return fmt.Errorf("world schema: record %s: %w", version, err)
			}
			return nil
		})
		if err != nil {
			return ran, err
		}
		ran = append(ran, version)
	}
	return ran, nil
}

// migrationFiles lists the *.sql files in dir, sorted by name.
func migrationFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("world schema: read migration dir: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	return files, nil
}

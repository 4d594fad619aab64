package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	httpadapter "overland/internal/adapter/http"
	metricsinmem "overland/internal/adapter/metrics/inmemory"
	gormrepo "overland/internal/adapter/repo/gorm"
	"overland/internal/adapter/repo/memory"
	sqliterepo "overland/internal/adapter/repo/sqlite"
	worldruntime "overland/internal/adapter/world/runtime"
	"overland/internal/app/generate"
	"overland/internal/app/observe"
	"overland/internal/app/ports"
	"overland/internal/app/roads"
	"overland/internal/app/simulation"
	"overland/internal/domain/world"

	"github.com/cloudwego/hertz/pkg/app/server"
)

func main() {
	repo, txManager, backend := mustBuildRepos()
	kpiRecorder := metricsinmem.NewRecorder()
	clock := world.NewClock(world.ClockConfig{
		MaxStep: time.Duration(intEnv("WORLD_MAX_TICK_SECONDS", world.MaxTickSeconds)) * time.Second,
	})

	h := httpadapter.Handler{
		GenerateUC: generate.UseCase{
			Repo:    repo,
			Metrics: kpiRecorder,
			Config:  genConfigFromEnv(),
			Now:     time.Now,
		},
		RoadsUC: roads.UseCase{
			TxManager: txManager,
			Repo:      repo,
			Metrics:   kpiRecorder,
		},
		SimulationUC: simulation.UseCase{
			TxManager: txManager,
			Repo:      repo,
			Metrics:   kpiRecorder,
			Clock:     clock,
			Now:       time.Now,
		},
		ObserveUC:   observe.UseCase{Repo: repo},
		KPI:         kpiRecorder,
		CORSOrigins: httpadapter.ParseCORSOrigins(os.Getenv("OVERLAND_CORS_ORIGINS")),
	}

	addr := strings.TrimSpace(os.Getenv("OVERLAND_ADDR"))
	if addr == "" {
		addr = ":8080"
	}
	s := server.Default(server.WithHostPorts(addr))
	h.RegisterRoutes(s)

	log.Printf("overland server listening on %s (store: %s)", addr, backend)
	s.Spin()
}

// mustBuildRepos picks Postgres when OVERLAND_DB_DSN is set, SQLite when
// OVERLAND_SQLITE_PATH is set, and an in-memory store otherwise.
func mustBuildRepos() (ports.WorldRepository, ports.TxManager, string) {
	if dsn := strings.TrimSpace(os.Getenv("OVERLAND_DB_DSN")); dsn != "" {
		db, err := gormrepo.OpenPostgres(dsn)
		if err != nil {
			log.Fatalf("open postgres: %v", err)
		}
		if dir := strings.TrimSpace(os.Getenv("OVERLAND_MIGRATIONS_DIR")); dir != "" {
			applied, err := gormrepo.ApplyMigrations(context.Background(), db, dir)
			if err != nil {
				log.Fatalf("apply migrations: %v", err)
			}
			if len(applied) > 0 {
				log.Printf("applied world migrations: %s", strings.Join(applied, ", "))
			}
		}
		repo, tx := cached(gormrepo.NewWorldRepo(db), gormrepo.NewTxManager(db))
		return repo, tx, "postgres"
	}
	if path := strings.TrimSpace(os.Getenv("OVERLAND_SQLITE_PATH")); path != "" {
		db, err := sqliterepo.Open(path)
		if err != nil {
			log.Fatalf("open sqlite: %v", err)
		}
		repo, tx := cached(sqliterepo.NewWorldRepo(db), sqliterepo.NewTxManager(db))
		return repo, tx, "sqlite"
	}
	store := memory.NewStore()
	return memory.NewWorldRepo(store), memory.NewTxManager(store), "memory"
}

// cached keeps decoded worlds in memory in front of a database store.
func cached(repo ports.WorldRepository, tx ports.TxManager) (ports.WorldRepository, ports.TxManager) {
	c := worldruntime.NewCachedWorldRepo(repo, worldruntime.Config{
		Capacity: intEnv("WORLD_CACHE_SIZE", 0),
		TTL:      time.Duration(intEnv("WORLD_CACHE_TTL_SECONDS", 0)) * time.Second,
	})
	return c, c.WrapTx(tx)
}

func genConfigFromEnv() world.GenConfig {
	cfg := world.DefaultGenConfig()
	if strings.EqualFold(strings.TrimSpace(os.Getenv("WORLD_PRESET")), "small") {
		cfg = world.SmallConfig()
	}
	cfg.Width = intEnv("WORLD_WIDTH", cfg.Width)
	cfg.Height = intEnv("WORLD_HEIGHT", cfg.Height)
	cfg.NumSettlements = intEnv("WORLD_SETTLEMENTS", cfg.NumSettlements)
	cfg.NumResources = intEnv("WORLD_RESOURCES", cfg.NumResources)
	cfg.ElevationBias = floatEnv("WORLD_ELEVATION_BIAS", cfg.ElevationBias)
	cfg.ElevationScale = floatEnv("WORLD_ELEVATION_SCALE", cfg.ElevationScale)
	cfg.MoistureScale = floatEnv("WORLD_MOISTURE_SCALE", cfg.MoistureScale)
	if kind, ok := world.ParseNoiseKind(os.Getenv("WORLD_NOISE")); ok {
		cfg.Noise = kind
	}
	cfg.UnseededResourceTypes = boolEnv("WORLD_UNSEEDED_RESOURCE_TYPES", false)
	return cfg
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func floatEnv(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func boolEnv(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

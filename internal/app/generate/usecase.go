package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"

	"overland/internal/app/ports"
	"overland/internal/domain/world"
)

var ErrInvalidRequest = errors.New("invalid generate request")

const (
	maxDimension = 4096
	maxPlacement = 500
	createTries  = 3
)

type UseCase struct {
	Repo    ports.WorldRepository
	Metrics ports.WorldMetrics
	Config  world.GenConfig
	Now     func() time.Time
	NewID   func() string
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if u.Repo == nil {
		return Response{}, ErrInvalidRequest
	}
	cfg, err := u.configFor(req)
	if err != nil {
		return Response{}, err
	}
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	newID := u.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	now := nowFn().UTC()
	seed := now.UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	m, report := world.Generate(cfg, seed, world.NewIDAllocator())
	if report.Settlements.Exhausted() {
		hlog.CtxWarnf(ctx, "settlement placement exhausted: placed %d of %d in %d attempts",
			report.Settlements.Placed, report.Settlements.Requested, report.Settlements.Attempts)
	}
	if report.Resources.Exhausted() {
		hlog.CtxWarnf(ctx, "resource placement exhausted: placed %d of %d in %d attempts",
			report.Resources.Placed, report.Resources.Requested, report.Resources.Attempts)
	}

	rec := ports.WorldRecord{Noise: cfg.Noise, Map: m, CreatedAt: now}
	for i := 0; i < createTries; i++ {
		rec.ID = newID()
		err = u.Repo.Create(ctx, rec)
		if !errors.Is(err, ports.ErrConflict) {
			break
		}
	}
	if err != nil {
		return Response{}, fmt.Errorf("store world: %w", err)
	}
	if u.Metrics != nil {
		u.Metrics.RecordGenerated(report)
	}
	hlog.CtxInfof(ctx, "world %s generated: seed=%d size=%dx%d rivers=%d settlements=%d resources=%d",
		rec.ID, seed, m.Width, m.Height, report.Rivers.Rivers, len(m.Settlements), len(m.Resources))

	counts := map[string]int{}
	for t, n := range m.TypeCounts() {
		counts[string(t)] = n
	}
	return Response{
		WorldID:     rec.ID,
		Seed:        seed,
		Width:       m.Width,
		Height:      m.Height,
		Noise:       cfg.Noise,
		Report:      report,
		TileCounts:  counts,
		Settlements: len(m.Settlements),
		Resources:   len(m.Resources),
	}, nil
}

func (u UseCase) configFor(req Request) (world.GenConfig, error) {
	cfg := u.Config.Normalize()
	if req.Width < 0 || req.Height < 0 || req.Width > maxDimension || req.Height > maxDimension {
		return world.GenConfig{}, ErrInvalidRequest
	}
	if req.Settlements < 0 || req.Resources < 0 || req.Settlements > maxPlacement || req.Resources > maxPlacement {
		return world.GenConfig{}, ErrInvalidRequest
	}
	if req.Width > 0 {
		cfg.Width = req.Width
	}
	if req.Height > 0 {
		cfg.Height = req.Height
	}
	if req.Settlements > 0 {
		cfg.NumSettlements = req.Settlements
	}
	if req.Resources > 0 {
		cfg.NumResources = req.Resources
	}
	if raw := strings.TrimSpace(req.Noise); raw != "" {
		kind, ok := world.ParseNoiseKind(raw)
		if !ok {
			return world.GenConfig{}, ErrInvalidRequest
		}
		cfg.Noise = kind
	}
	return cfg, nil
}

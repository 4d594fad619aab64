package simulation

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"overland/internal/app/ports"
	"overland/internal/domain/world"
)

var ErrInvalidRequest = errors.New("invalid tick request")

type UseCase struct {
	TxManager ports.TxManager
	Repo      ports.WorldRepository
	Metrics   ports.WorldMetrics
	Clock     world.Clock
	Now       func() time.Time
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if u.Repo == nil || u.TxManager == nil || strings.TrimSpace(req.WorldID) == "" {
		return Response{}, ErrInvalidRequest
	}
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	clock := u.Clock
	if clock == (world.Clock{}) {
		clock = world.DefaultClock()
	}
	// Explicit steps share the clock's cap.
	if math.IsNaN(req.DTSeconds) || req.DTSeconds < 0 || req.DTSeconds > clock.MaxStepSeconds() {
		return Response{}, ErrInvalidRequest
	}
	now := nowFn().UTC()

	var resp Response
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		rec, err := u.Repo.Get(txCtx, req.WorldID)
		if err != nil {
			return err
		}
		dt := req.DTSeconds
		if dt == 0 {
			last := rec.LastTickAt
			if last.IsZero() {
				last = rec.CreatedAt
			}
			dt = clock.StepSeconds(last, now)
		}

		rec.Map.Regenerate(dt)
		if err := u.Repo.SaveResources(txCtx, req.WorldID, rec.Map.Resources, now); err != nil {
			return err
		}

		resp = Response{
			WorldID:   req.WorldID,
			DTSeconds: dt,
			TickedAt:  now,
			Resources: make([]ResourceState, 0, len(rec.Map.Resources)),
		}
		for _, r := range rec.Map.Resources {
			resp.Resources = append(resp.Resources, ResourceState{
				ID:       r.ID,
				Type:     r.Type,
				Current:  r.Current,
				Capacity: r.Capacity,
				Full:     r.Current >= float64(r.Capacity),
			})
		}
		return nil
	})
	if err != nil {
		return Response{}, err
	}
	if u.Metrics != nil {
		u.Metrics.RecordTick(len(resp.Resources))
	}
	hlog.CtxDebugf(ctx, "world %s ticked %.2fs over %d resources", req.WorldID, resp.DTSeconds, len(resp.Resources))
	return resp, nil
}

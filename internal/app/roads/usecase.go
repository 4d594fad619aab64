package roads

import (
	"context"
	"errors"
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"overland/internal/app/ports"
	"overland/internal/domain/road"
	"overland/internal/domain/world"
)

var (
	ErrInvalidRequest  = errors.New("invalid road request")
	ErrSameEndpoint    = errors.New("road endpoints are the same node")
	ErrUnknownEndpoint = errors.New("unknown road endpoint")
)

const (
	WarningNoPath = "no path found between endpoints"
	appendTries   = 3
)

type UseCase struct {
	TxManager ports.TxManager
	Repo      ports.WorldRepository
	Metrics   ports.WorldMetrics
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if u.Repo == nil || u.TxManager == nil || strings.TrimSpace(req.WorldID) == "" {
		return Response{}, ErrInvalidRequest
	}
	fromKind, ok := world.ParseEndpointKind(req.From.Kind)
	if !ok {
		return Response{}, ErrInvalidRequest
	}
	toKind, ok := world.ParseEndpointKind(req.To.Kind)
	if !ok {
		return Response{}, ErrInvalidRequest
	}
	if fromKind == toKind && req.From.ID == req.To.ID {
		return Response{}, ErrSameEndpoint
	}

	var (
		resp Response
		err  error
	)
	for i := 0; i < appendTries; i++ {
		resp = Response{}
		err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
			rec, err := u.Repo.Get(txCtx, req.WorldID)
			if err != nil {
				return err
			}
			m := rec.Map
			from, err := resolve(m, fromKind, req.From.ID)
			if err != nil {
				return err
			}
			to, err := resolve(m, toKind, req.To.ID)
			if err != nil {
				return err
			}

			built, ok := road.NewBuilder(m.Roads).Build(m, from, to)
			if !ok {
				resp.Warning = WarningNoPath
				return nil
			}
			if err := u.Repo.AppendRoad(txCtx, req.WorldID, built.Road); err != nil {
				return err
			}
			resp.Built = true
			resp.Road = &built.Road
			resp.Cost = built.Cost
			return nil
		})
		if !errors.Is(err, ports.ErrConflict) {
			break
		}
	}
	if err != nil {
		return Response{}, err
	}

	if !resp.Built {
		hlog.CtxWarnf(ctx, "world %s: %s (%s %d -> %s %d)", req.WorldID, WarningNoPath, fromKind, req.From.ID, toKind, req.To.ID)
		if u.Metrics != nil {
			u.Metrics.RecordNoPath()
		}
		return resp, nil
	}
	if u.Metrics != nil {
		u.Metrics.RecordRoadBuilt(resp.Cost)
	}
	hlog.CtxInfof(ctx, "world %s: road %d built, %d tiles, cost %.2f", req.WorldID, resp.Road.ID, len(resp.Road.Path), resp.Cost)
	return resp, nil
}

func resolve(m *world.Map, kind world.EndpointKind, id int) (world.Endpoint, error) {
	switch kind {
	case world.EndpointSettlement:
		if s, ok := m.SettlementByID(id); ok {
			return world.SettlementEndpoint(*s), nil
		}
	case world.EndpointResource:
		if r, ok := m.ResourceByID(id); ok {
			return world.ResourceEndpoint(*r), nil
		}
	}
	return world.Endpoint{}, ErrUnknownEndpoint
}

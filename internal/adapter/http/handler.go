package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"overland/internal/app/generate"
	"overland/internal/app/observe"
	"overland/internal/app/ports"
	"overland/internal/app/roads"
	"overland/internal/app/simulation"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type Handler struct {
	GenerateUC   generate.UseCase
	RoadsUC      roads.UseCase
	SimulationUC simulation.UseCase
	ObserveUC    observe.UseCase
	KPI          kpiSnapshotProvider
	// CORSOrigins limits browser access; empty allows any origin.
	CORSOrigins []string
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware(h.CORSOrigins))

	worlds := s.Group("/api/worlds")
	worlds.POST("", h.generate)
	worlds.GET("", h.list)
	worlds.GET("/:id", h.summary)
	worlds.GET("/:id/view", h.view)
	worlds.GET("/:id/select", h.selectTile)
	worlds.GET("/:id/settlements/search", h.findSettlement)
	worlds.POST("/:id/roads", h.buildRoad)
	worlds.POST("/:id/tick", h.tick)

	s.GET("/ops/kpi", h.kpi)
}

var ErrInvalidQuery = errors.New("invalid query parameter")

func (h Handler) generate(c context.Context, ctx *app.RequestContext) {
	var body generate.Request
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.GenerateUC.Execute(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

func (h Handler) list(c context.Context, ctx *app.RequestContext) {
	limit, err := optionalInt(ctx, "limit")
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.ObserveUC.List(c, limit)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"worlds": resp})
}

func (h Handler) summary(c context.Context, ctx *app.RequestContext) {
	resp, err := h.ObserveUC.Summary(c, ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) view(c context.Context, ctx *app.RequestContext) {
	x, y, err := requiredXY(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	radius, err := optionalInt(ctx, "radius")
	if err != nil {
		writeError(ctx, err)
		return
	}

	resp, err := h.ObserveUC.View(c, observe.ViewRequest{
		WorldID: ctx.Param("id"),
		X:       x,
		Y:       y,
		Radius:  radius,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) selectTile(c context.Context, ctx *app.RequestContext) {
	x, y, err := requiredXY(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	resp, err := h.ObserveUC.Select(c, observe.SelectRequest{WorldID: ctx.Param("id"), X: x, Y: y})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) findSettlement(c context.Context, ctx *app.RequestContext) {
	resp, err := h.ObserveUC.FindSettlement(c, observe.FindRequest{
		WorldID: ctx.Param("id"),
		Name:    ctx.Query("name"),
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) buildRoad(c context.Context, ctx *app.RequestContext) {
	var body roads.Request
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	body.WorldID = ctx.Param("id")

	resp, err := h.RoadsUC.Execute(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	if !resp.Built {
		ctx.JSON(consts.StatusOK, resp)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

func (h Handler) tick(c context.Context, ctx *app.RequestContext) {
	var body simulation.Request
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	body.WorldID = ctx.Param("id")

	resp, err := h.SimulationUC.Execute(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func requiredXY(ctx *app.RequestContext) (int, int, error) {
	x, err := strconv.Atoi(strings.TrimSpace(ctx.Query("x")))
	if err != nil {
		return 0, 0, ErrInvalidQuery
	}
	y, err := strconv.Atoi(strings.TrimSpace(ctx.Query("y")))
	if err != nil {
		return 0, 0, ErrInvalidQuery
	}
	return x, y, nil
}

// optionalInt returns 0 for an absent parameter.
func optionalInt(ctx *app.RequestContext, key string) (int, error) {
	raw := strings.TrimSpace(ctx.Query(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ErrInvalidQuery
	}
	return v, nil
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, roads.ErrSameEndpoint):
		writeErrorBody(ctx, consts.StatusBadRequest, "same_endpoint", err.Error())
	case errors.Is(err, roads.ErrUnknownEndpoint):
		writeErrorBody(ctx, consts.StatusNotFound, "unknown_endpoint", err.Error())
	case errors.Is(err, ErrInvalidQuery):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_query", err.Error())
	case errors.Is(err, generate.ErrInvalidRequest),
		errors.Is(err, roads.ErrInvalidRequest),
		errors.Is(err, simulation.ErrInvalidRequest),
		errors.Is(err, observe.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

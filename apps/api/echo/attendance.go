package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/attendance"
)

type attendanceApi struct {
	svc      *attendance.Service
	validate *validator.Validate
}

func registerAttendanceAPI(g *echo.Group, staff echo.MiddlewareFunc, svc *attendance.Service, validate *validator.Validate) {
	api := attendanceApi{svc: svc, validate: validate}

	ag := g.Group("/attendance")
	ag.GET("", api.query)
	ag.GET("/stats", api.dailyStats)
	ag.POST("", api.upsert, staff)
	ag.PUT("/:id", api.update, staff)
	ag.DELETE("/:id", api.destroy, staff)
}

// Handlers

func (api *attendanceApi) query(ctx echo.Context) error {
	filter := new(attendance.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return jsonOK(ctx, []attendance.Entry{})
	}
	filter.Clean()

	entries, err := api.svc.Filter(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "filtering attendance entries")
	}
	return jsonOK(ctx, entries)
}

func (api *attendanceApi) upsert(ctx echo.Context) error {
	var data attendance.NewEntry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEntry")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ent, err := api.svc.Upsert(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "upserting attendance entry")
	}
	return jsonData(ctx, http.StatusCreated, ent)
}

func (api *attendanceApi) update(ctx echo.Context) error {
	var data attendance.UpdateEntry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEntry")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ent, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating attendance entry")
	}
	return jsonOK(ctx, ent)
}

func (api *attendanceApi) destroy(ctx echo.Context) error {
	ent, err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "deleting attendance entry")
	}
	return jsonOK(ctx, ent)
}

func (api *attendanceApi) dailyStats(ctx echo.Context) error {
	date := ctx.QueryParam("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return core.NewFieldError("date", "must be a calendar date in YYYY-MM-DD format")
	}

	dayStats, err := api.svc.DailyStats(ctx.Request().Context(), date)
	if err != nil {
		return errors.Wrap(err, "computing daily attendance stats")
	}
	return jsonOK(ctx, dayStats)
}

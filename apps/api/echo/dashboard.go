package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/roster"
	"github.com/darasahq/darasa/core/stats"
)

type dashboardApi struct {
	svc *stats.Service
}

func registerDashboardAPI(g *echo.Group, svc *stats.Service) {
	api := dashboardApi{svc: svc}

	g.GET("/admin/dashboard", api.dashboard, roleMiddleware(roster.RoleAdmin))
}

func (api *dashboardApi) dashboard(ctx echo.Context) error {
	dash, err := api.svc.AdminDashboard(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "building admin dashboard")
	}
	return jsonOK(ctx, dash)
}

package handlers

import (
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/omaradel/manaboard/core"
	"github.com/omaradel/manaboard/core/auth"
	"github.com/omaradel/manaboard/core/nav"
	"github.com/omaradel/manaboard/core/resource"
	"github.com/omaradel/manaboard/core/session"
)

type dashboardApi struct {
	store    *session.Store
	gateway  *auth.Gateway
	registry *nav.Registry
	lister   resource.Lister
	logger   core.Logger
}

// RegisterDashboard mounts the protected subtree. The group's guard
// middleware has already permitted every request that reaches a handler.
func RegisterDashboard(
	g *echo.Group,
	store *session.Store,
	gateway *auth.Gateway,
	registry *nav.Registry,
	lister resource.Lister,
	logger core.Logger,
) {
	api := dashboardApi{store: store, gateway: gateway, registry: registry, lister: lister, logger: logger}

	g.GET("", api.home)
	g.GET("/*", api.destination)
}

// home sends the operator to the default destination, matching the
// post-login landing page.
func (api *dashboardApi) home(ctx echo.Context) error {
	return ctx.Redirect(http.StatusSeeOther, "/dashboard/users")
}

func (api *dashboardApi) destination(ctx echo.Context) error {
	rel := strings.Trim(ctx.Param("*"), "/")

	// logout is a pseudo-destination: remote logout, then login —
	// unconditionally. The local session is already cleared by the gateway
	// even when the remote call fails, so the redirect never waits on it.
	if rel == nav.LogoutPath {
		if res := api.gateway.Logout(ctx.Request().Context()); !res.OK() {
			api.logger.Warn("remote logout failed", res.Message)
		}
		return ctx.Redirect(http.StatusSeeOther, "/"+nav.LoginPath)
	}

	dest, ok := api.registry.Resolve(rel)
	if !ok { // the guard only lets registered paths through
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}

	data := echo.Map{
		"Active": dest,
		"Groups": api.registry.Groups(),
	}

	// shell header; the view renders without it when the remote call fails
	if profile, err := api.gateway.Profile(ctx.Request().Context()); err != nil {
		api.logger.Warn("fetching profile data failed", err)
		if info, perr := auth.PeekToken(api.store.Token()); perr == nil {
			data["Profile"] = auth.ProfileData{Name: info.Name, Role: info.Role}
		}
	} else {
		data["Profile"] = profile
	}

	if isListDestination(rel) {
		rows, err := api.lister.List(ctx.Request().Context(), rel)
		if err != nil {
			// transient notice; the operator re-triggers the action
			data["Notice"] = "Could not load " + dest.Label + ". Please try again."
			api.logger.Warn("listing resource failed", err)
		} else {
			data["Rows"] = rows
			data["Columns"] = columns(rows)
		}
	}

	return ctx.Render(http.StatusOK, "dashboard.html", data)
}

// isListDestination tells table views (users, students, ...) apart from
// form and standalone views (users/add, attendance).
func isListDestination(path string) bool {
	return !strings.HasSuffix(path, "/add") && path != "attendance"
}

func columns(rows []map[string]interface{}) []string {
	if len(rows) == 0 {
		return nil
	}
	cols := make([]string, 0, len(rows[0]))
	for col := range rows[0] {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

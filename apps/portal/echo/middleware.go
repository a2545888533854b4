package echoapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/omaradel/manaboard/core/nav"
	"github.com/omaradel/manaboard/core/session"
)

// guardMiddleware gates the protected subtree. The guard decision is made
// fresh on every request from the store's current state. A denial answers
// 303 See Other to /login: the denied view is never rendered and a 303
// never enters history as the denied page, so back-navigation cannot
// return to it.
func guardMiddleware(registry *nav.Registry, store *session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			rel := dashboardPath(ctx)
			if rel == "" { // the subtree root delegates to the default destination
				if !store.Authenticated() {
					return ctx.Redirect(http.StatusSeeOther, "/"+nav.LoginPath)
				}
				return next(ctx)
			}

			switch registry.Evaluate(nav.Request{Path: rel, HasSession: store.Authenticated()}) {
			case nav.RedirectToLogin:
				return ctx.Redirect(http.StatusSeeOther, "/"+nav.LoginPath)
			case nav.NotFound:
				return ctx.Render(http.StatusNotFound, "notfound.html", echo.Map{
					"Path": rel,
				})
			}
			return next(ctx)
		}
	}
}

// dashboardPath extracts the destination path relative to the protected
// root, e.g. /dashboard/students/add -> students/add.
func dashboardPath(ctx echo.Context) string {
	rel := strings.TrimPrefix(ctx.Request().URL.Path, "/dashboard")
	return strings.Trim(rel, "/")
}

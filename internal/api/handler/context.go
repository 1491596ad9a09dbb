package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vertexlab/identity-api/internal/api/middleware"
)

// ctxPrincipal extracts the auth claims injected by the Auth middleware.
// An empty username means the middleware did not run on this route, which
// is a wiring mistake; fail closed with 401 rather than trusting the request.
func ctxPrincipal(c echo.Context) (username string, roles []string, err error) {
	username, _ = c.Get(middleware.CtxUsername).(string)
	if username == "" {
		return "", nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	roles, _ = c.Get(middleware.CtxRoles).([]string)
	return username, roles, nil
}

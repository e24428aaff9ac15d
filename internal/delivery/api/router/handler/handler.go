// Package handler contains the HTTP handlers of the storefront API.
package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/delivery/api/middleware"
	"storefront/internal/delivery/api/response"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// HealthCheck reports that the process is serving.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}

// pathID parses a positive int64 path parameter.
func pathID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

// cartIdentity combines the optional authenticated user with the cookie session.
func cartIdentity(c echo.Context) usecase.CartIdentity {
	identity := usecase.CartIdentity{SessionID: middleware.GetSessionID(c)}
	if userID, ok := middleware.GetUserID(c); ok {
		identity.UserID = &userID
	}

	return identity
}

func actor(c echo.Context) (usecase.Actor, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return usecase.Actor{}, false
	}

	return usecase.Actor{UserID: userID, IsAdmin: middleware.IsAdmin(c)}, true
}

// bindAndValidate decodes the body into req. When it reports false the error
// response has already been written and err is what the handler returns.
func bindAndValidate(c echo.Context, req any) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, response.BindingError(c, "INVALID_INPUT", "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return false, response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	return true, nil
}

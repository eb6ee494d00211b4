package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lexhaven/clientdesk/internal/core/domain"
)

// ctxActor extracts the actor injected by the Auth middleware and performs a
// fast-fail check before any service call: a usable actor must carry a role,
// a user id, and an owning firm — a structurally valid JWT without them is
// operationally unusable, so reject with 401.
func ctxActor(c echo.Context) (domain.Actor, error) {
	role, _ := c.Get("role").(string)
	if role == "" {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	userID, _ := c.Get("user_id").(string)
	lawFirmID, _ := c.Get("law_firm_id").(string)
	if userID == "" || lawFirmID == "" {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "token missing actor identity")
	}

	return domain.Actor{UserID: userID, Role: role, LawFirmID: lawFirmID}, nil
}

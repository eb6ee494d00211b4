package handler

import "github.com/labstack/echo/v4"

// envelope is the success payload shape shared by every endpoint: a success
// flag, a human-readable message, and the data itself. Errors use the
// matching envelope rendered by the central error handler.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respond(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

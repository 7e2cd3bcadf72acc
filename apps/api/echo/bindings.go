package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type (
	// successResponse is the envelope wrapping every 2xx payload.
	successResponse struct {
		Success bool        `json:"success"`
		Data    interface{} `json:"data"`
	}

	// errorResponse is the envelope wrapping every error payload.
	// Error is either a message string or a field-error map.
	errorResponse struct {
		Success bool        `json:"success"`
		Error   interface{} `json:"error"`
	}
)

func jsonData(ctx echo.Context, code int, data interface{}) error {
	return ctx.JSON(code, successResponse{Success: true, Data: data})
}

func jsonOK(ctx echo.Context, data interface{}) error {
	return jsonData(ctx, http.StatusOK, data)
}

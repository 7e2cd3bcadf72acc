package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// roleMiddleware only lets principals through whose role carries one of the prefixes.
func roleMiddleware(rolePrefixes ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			for _, prefix := range rolePrefixes {
				if strings.HasPrefix(claims.Role, prefix) {
					return next(ctx)
				}
			}
			return errHttpForbidden
		}
	}
}

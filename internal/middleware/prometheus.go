package middleware

import (
	"time"

	"storefront/internal/metrics"

	"github.com/labstack/echo/v4"
)

// HTTPリクエスト数と処理時間を記録
func Prometheus() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			metrics.ObserveHTTP(c.Request().Method, path, status, time.Since(start))
			return err
		}
	}
}

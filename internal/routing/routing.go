package routing

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"hadees/internal/handlers"
)

// NewEcho - Echo with logging, recovery and CORS wired, and every route registered.
func NewEcho(handler *handlers.Handler, allowedOrigins []string, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true // why is it even false by default
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				logger.Warn("request", append(fields, zap.Error(v.Error))...)
			} else {
				logger.Info("request", fields...)
			}
			return nil
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{echo.GET, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		MaxAge:       int((12 * time.Hour).Seconds()),
	}))

	InitGetRoutes(e, handler)
	return e
}

func InitGetRoutes(e *echo.Echo, handler *handlers.Handler) {
	e.GET("/", handler.RootHandler)
	e.GET("/search", handler.SearchHandler)
	e.GET("/answer", handler.AnswerHandler)
	e.GET("/hadiths/:id", handler.HadithHandler)
}

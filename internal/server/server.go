package server

import (
	"checkout/config"
	"checkout/internal/payments"
	"checkout/internal/payments/handlers"
	"context"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"log/slog"
	"net/http"
)

type paymentProcessor interface {
	Process(ctx context.Context, req *payments.PaymentRequest) payments.Outcome
}

// New builds the echo app: middleware stack plus the checkout routes under the
// configured base path.
func New(appConfig *config.AppConfig, processor paymentProcessor, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = sonicSerializer{}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(logger))
	e.Use(cors(appConfig.Cors.AllowedOrigins, logger))

	if appConfig.Telemetry.Enabled {
		e.Use(otelecho.Middleware(appConfig.Telemetry.ServiceName))
	}

	paymentHandler := handlers.NewPaymentHandler(processor)
	statusHandler := handlers.NewStatusHandler(appConfig.Environment, appConfig.Server.BasePath, appConfig.Stripe.SecretKey != "")

	e.GET("/", statusHandler.Root)
	e.GET("/health", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	api := e.Group(appConfig.Server.BasePath)
	api.GET("/test", statusHandler.Test)
	api.POST("/process-payment", paymentHandler.Handle)

	return e
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"requestId", v.RequestID,
				"remoteIp", v.RemoteIP,
				"origin", c.Request().Header.Get(echo.HeaderOrigin),
			}
			if v.Error != nil {
				logger.Error("request failed", append(attrs, "error", v.Error)...)
				return nil
			}
			logger.Info("request", attrs...)
			return nil
		},
	})
}

// cors only answers browser requests from allow-listed origins. Requests without
// an Origin header (curl, server to server) pass untouched.
func cors(allowedOrigins []string, logger *slog.Logger) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOriginFunc: func(origin string) (bool, error) {
			if _, ok := allowed[origin]; ok {
				return true, nil
			}
			logger.Warn("CORS blocked origin", "origin", origin)
			return false, nil
		},
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowHeaders: []string{
			echo.HeaderContentType,
			echo.HeaderAuthorization,
			echo.HeaderAccept,
			echo.HeaderOrigin,
			echo.HeaderXRequestedWith,
		},
		AllowCredentials: true,
	})
}

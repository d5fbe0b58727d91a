package main

import (
	"checkout/config"
	"checkout/internal/payments"
	"checkout/internal/server"
	"checkout/internal/stripe"
	"context"
	"errors"
	"fmt"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := setupLogger(appConfig)

	cleanup, err := config.InitTracer(appConfig.Telemetry, appConfig.Environment, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	stripeClient, err := stripe.NewClient(appConfig.Stripe.SecretKey, appConfig.Stripe.BaseURL, setupHttpClient(appConfig), logger)
	if err != nil {
		log.Fatal(err)
	}

	dispatcher := payments.NewDispatcher(stripeClient, appConfig.Payments.Currency, appConfig.Payments.ReturnURL, logger)

	e := server.New(appConfig, dispatcher, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf("%s:%d", appConfig.Server.Host, appConfig.Server.Port)
	go func() {
		logger.Info("server running", "addr", addr, "environment", appConfig.Environment, "basePath", appConfig.Server.BasePath)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
	}
}

func setupLogger(appConfig *config.AppConfig) *slog.Logger {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(appConfig.Log.Level)); err != nil {
		logLevel = slog.LevelInfo
	}
	if appConfig.Telemetry.Enabled && logLevel > slog.LevelDebug {
		logLevel = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// 80s matches the Stripe SDK default request timeout.
func setupHttpClient(appConfig *config.AppConfig) *http.Client {
	transport := http.DefaultTransport
	if appConfig.Telemetry.Enabled {
		transport = otelhttp.NewTransport(http.DefaultTransport)
	}
	return &http.Client{
		Transport: transport,
		Timeout:   80 * time.Second,
	}
}

package handlers

import (
	"github.com/labstack/echo/v4"
	"net/http"
	"time"
)

type StatusHandler struct {
	environment      string
	basePath         string
	stripeConfigured bool
}

func NewStatusHandler(environment, basePath string, stripeConfigured bool) *StatusHandler {
	return &StatusHandler{
		environment:      environment,
		basePath:         basePath,
		stripeConfigured: stripeConfigured,
	}
}

type endpoints struct {
	Payment string `json:"payment"`
	Test    string `json:"test"`
}

type rootResponse struct {
	Status           string    `json:"status"`
	Message          string    `json:"message"`
	Environment      string    `json:"environment"`
	StripeConfigured bool      `json:"stripe_configured"`
	Endpoints        endpoints `json:"endpoints"`
}

type testEnvironment struct {
	Environment      string `json:"environment"`
	StripeConfigured bool   `json:"stripe_configured"`
}

type testResponse struct {
	Status      string          `json:"status"`
	Timestamp   time.Time       `json:"timestamp"`
	Environment testEnvironment `json:"environment"`
}

func (h *StatusHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, rootResponse{
		Status:           "ok",
		Message:          "Virtwin Energy Payment Server",
		Environment:      h.environment,
		StripeConfigured: h.stripeConfigured,
		Endpoints: endpoints{
			Payment: h.basePath + "/process-payment",
			Test:    h.basePath + "/test",
		},
	})
}

func (h *StatusHandler) Test(c echo.Context) error {
	return c.JSON(http.StatusOK, testResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Environment: testEnvironment{
			Environment:      h.environment,
			StripeConfigured: h.stripeConfigured,
		},
	})
}

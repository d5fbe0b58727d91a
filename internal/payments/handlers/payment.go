package handlers

import (
	"checkout/internal/payments"
	"context"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"net/http"
)

type paymentProcessor interface {
	Process(ctx context.Context, req *payments.PaymentRequest) payments.Outcome
}

type PaymentHandler struct {
	processor paymentProcessor
}

func NewPaymentHandler(processor paymentProcessor) *PaymentHandler {
	return &PaymentHandler{
		processor: processor,
	}
}

type challengeResponse struct {
	RequiresAction bool   `json:"requires_action"`
	ClientSecret   string `json:"client_secret"`
	ReturnURL      string `json:"return_url,omitempty"`
}

type confirmationResponse struct {
	RequiresConfirmation bool   `json:"requires_confirmation"`
	ClientSecret         string `json:"client_secret"`
}

type successResponse struct {
	Success         bool   `json:"success"`
	PaymentIntentID string `json:"payment_intent_id,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Type  string `json:"type,omitempty"`
}

// Handle serves POST /process-payment. Every failure, client mistakes included,
// is answered with a 500 and a flat error body.
func (h *PaymentHandler) Handle(c echo.Context) error {
	ctx := c.Request().Context()
	tracer := otel.Tracer("payment-handler")
	ctx, span := tracer.Start(ctx, "payment-handler", trace.WithAttributes(
		attribute.String("handler", "process-payment"),
	))
	defer span.End()

	var req payments.PaymentRequest
	if err := c.Bind(&req); err != nil {
		span.RecordError(err)
		c.Logger().Errorf("error while binding the payment request: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{
			Error: "invalid request body",
			Type:  payments.ErrorTypeInvalidRequest,
		})
	}

	outcome := h.processor.Process(ctx, &req)
	span.SetAttributes(attribute.String("payment.outcome", string(outcome.Status)))

	switch outcome.Status {
	case payments.OutcomeRequiresChallenge:
		return c.JSON(http.StatusOK, challengeResponse{
			RequiresAction: true,
			ClientSecret:   outcome.ClientSecret,
			ReturnURL:      outcome.ReturnURL,
		})
	case payments.OutcomeRequiresConfirmation:
		return c.JSON(http.StatusOK, confirmationResponse{
			RequiresConfirmation: true,
			ClientSecret:         outcome.ClientSecret,
		})
	case payments.OutcomeCompleted:
		return c.JSON(http.StatusOK, successResponse{
			Success:         true,
			PaymentIntentID: outcome.IntentID,
		})
	default:
		span.RecordError(outcome.Err)
		return c.JSON(http.StatusInternalServerError, errorResponse{
			Error: payments.ErrorMessage(outcome.Err),
			Type:  outcome.ErrorType(),
		})
	}
}

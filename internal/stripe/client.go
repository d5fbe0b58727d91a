package stripe

import (
	"checkout/internal/payments"
	"context"
	"errors"
	"fmt"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"log/slog"
	"net/http"
	"net/url"
)

const DefaultBaseURL = "https://api.stripe.com"

var ErrMissingSecretKey = errors.New("stripe secret key is not configured")

type Client struct {
	rest   *resty.Client
	logger *slog.Logger
}

var _ payments.Processor = (*Client)(nil)

// NewClient refuses to build a client without a secret key so the service fails at
// startup instead of on the first checkout.
func NewClient(secretKey, baseURL string, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	if secretKey == "" {
		return nil, ErrMissingSecretKey
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	rest := resty.NewWithClient(httpClient).
		SetBaseURL(baseURL).
		SetAuthToken(secretKey).
		SetHeader("Accept", "application/json")

	return &Client{rest: rest, logger: logger}, nil
}

func (c *Client) CreateCustomer(ctx context.Context, params payments.CustomerParams) (*payments.Customer, error) {
	var customer payments.Customer
	if err := c.post(ctx, "create-customer", "/v1/customers", nil, customerForm(params), &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *Client) CreateIntent(ctx context.Context, params payments.IntentParams) (*payments.Intent, error) {
	var intent payments.Intent
	if err := c.post(ctx, "create-payment-intent", "/v1/payment_intents", nil, intentForm(params), &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

func (c *Client) ConfirmIntent(ctx context.Context, id string, params payments.ConfirmParams) (*payments.Intent, error) {
	var intent payments.Intent
	pathParams := map[string]string{"id": id}
	if err := c.post(ctx, "confirm-payment-intent", "/v1/payment_intents/{id}/confirm", pathParams, confirmForm(params), &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

func (c *Client) CreateSource(ctx context.Context, params payments.SourceParams) (*payments.Source, error) {
	var source payments.Source
	if err := c.post(ctx, "create-source", "/v1/sources", nil, sourceForm(params), &source); err != nil {
		return nil, err
	}
	return &source, nil
}

type apiError struct {
	Type        string `json:"type"`
	Code        string `json:"code"`
	DeclineCode string `json:"decline_code"`
	Param       string `json:"param"`
	Message     string `json:"message"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

var tracer = otel.Tracer("stripe-client")

func (c *Client) post(ctx context.Context, op, path string, pathParams map[string]string, form url.Values, result any) error {
	ctx, span := tracer.Start(ctx, "stripe."+op, trace.WithAttributes(
		attribute.String("stripe.operation", op),
		attribute.String("stripe.path", path),
	))
	defer span.End()

	var envelope errorEnvelope
	resp, err := c.rest.R().
		SetContext(ctx).
		SetPathParams(pathParams).
		SetFormDataFromValues(form).
		SetResult(result).
		SetError(&envelope).
		Post(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error sending HTTP request")
		c.logger.Error("stripe request failed", "operation", op, "error", err)
		return fmt.Errorf("%w: %s: %w", payments.ErrProcessor, op, err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode()))

	if resp.IsError() {
		perr := &payments.ProcessorError{
			StatusCode:  resp.StatusCode(),
			Type:        envelope.Error.Type,
			Code:        envelope.Error.Code,
			DeclineCode: envelope.Error.DeclineCode,
			Param:       envelope.Error.Param,
			Message:     envelope.Error.Message,
		}
		if perr.Message == "" {
			perr.Message = fmt.Sprintf("stripe returned %s", resp.Status())
		}

		span.RecordError(perr)
		span.SetStatus(codes.Error, "Stripe rejected the request")
		c.logger.Warn("stripe rejected request",
			"operation", op,
			"status", resp.StatusCode(),
			"type", perr.Type,
			"code", perr.Code,
			"declineCode", perr.DeclineCode)
		return perr
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

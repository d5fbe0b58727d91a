package payments

import (
	"context"
	"fmt"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"log/slog"
	"strconv"
)

const (
	klarnaProduct    = "payment"
	klarnaCountry    = "SE"
	klarnaLocale     = "sv-SE"
	sourceTypeKlarna = "klarna"
)

// The charge variants carry only what their method needs. Validation runs on the
// `validate` tags and reports the `field` name back to the client.
type cardCharge struct {
	PaymentMethodID string   `field:"payment_method_id" validate:"required"`
	Name            string   `field:"billing_details.name" validate:"required"`
	Email           string   `field:"billing_details.email" validate:"required"`
	Address         *Address `field:"billing_details.address" validate:"required"`
	Metadata        map[string]string
}

type swishCharge struct {
	SwishNumber string `field:"swish_number" validate:"required"`
	Metadata    map[string]string
}

type klarnaCharge struct {
	FullName string `field:"billing_details.name" validate:"required"`
	Metadata map[string]string
}

// newCharge builds the variant for method; req only supplies the fields.
func newCharge(method Method, req *PaymentRequest) (any, error) {
	billing := req.BillingDetails
	if billing == nil {
		billing = &BillingDetails{}
	}

	switch method {
	case MethodCard:
		return &cardCharge{
			PaymentMethodID: req.PaymentMethodID,
			Name:            billing.Name,
			Email:           billing.Email,
			Address:         billing.Address,
			Metadata:        mergeMetadata(req, nil),
		}, nil
	case MethodSwish:
		return &swishCharge{
			SwishNumber: req.SwishNumber.String(),
			Metadata:    mergeMetadata(req, map[string]string{"swish_number": req.SwishNumber.String()}),
		}, nil
	case MethodKlarna:
		return &klarnaCharge{
			FullName: billing.Name,
			Metadata: mergeMetadata(req, map[string]string{"personal_number": req.PersonalNumber.String()}),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, method)
	}
}

// mergeMetadata tags the charge with plan and cycle (plus method specific keys) and
// lays the caller's metadata over them. Empty values are left out.
func mergeMetadata(req *PaymentRequest, extra map[string]string) map[string]string {
	md := make(map[string]string, 2+len(extra)+len(req.Metadata))
	set := func(k, v string) {
		if v != "" {
			md[k] = v
		}
	}

	set("plan", req.Plan.String())
	set("cycle", req.Cycle.String())
	for k, v := range extra {
		set(k, v)
	}
	for k, v := range req.Metadata {
		set(k, metadataValue(v))
	}
	return md
}

func metadataValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

type Dispatcher struct {
	processor Processor
	currency  string
	returnURL string
	logger    *slog.Logger
}

func NewDispatcher(processor Processor, currency, returnURL string, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		processor: processor,
		currency:  currency,
		returnURL: returnURL,
		logger:    logger,
	}
}

var tracer = otel.Tracer("payment-dispatcher")

// Process runs one checkout attempt end to end. Every error is turned into a
// failed outcome here and nowhere else.
func (d *Dispatcher) Process(ctx context.Context, req *PaymentRequest) Outcome {
	ctx, span := tracer.Start(ctx, "dispatcher.process", trace.WithAttributes(
		attribute.String("payment.method", string(req.PaymentMethod)),
		attribute.String("payment.plan", req.Plan.String()),
		attribute.String("payment.cycle", req.Cycle.String()),
	))
	defer span.End()

	amount, err := Normalize(req.Amount, req.Price)
	if err != nil {
		return d.fail(span, req, err)
	}
	span.SetAttributes(attribute.Int64("payment.amount", amount))

	intent, err := d.Charge(ctx, req.PaymentMethod, amount, req)
	if err != nil {
		return d.fail(span, req, err)
	}

	outcome := Classify(intent)
	span.SetAttributes(
		attribute.String("payment.intent_id", intent.ID),
		attribute.String("payment.intent_status", intent.Status),
		attribute.String("payment.outcome", string(outcome.Status)),
	)
	span.SetStatus(codes.Ok, "")

	d.logger.Info("payment processed",
		"method", req.PaymentMethod,
		"amount", amount,
		"intentId", intent.ID,
		"intentStatus", intent.Status,
		"outcome", outcome.Status)

	return outcome
}

func (d *Dispatcher) fail(span trace.Span, req *PaymentRequest, err error) Outcome {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	d.logger.Error("payment processing failed",
		"method", req.PaymentMethod,
		"type", ErrorType(err),
		"error", err)

	return Failed(err)
}

// Charge executes the workflow of the given method against the processor.
// Resources created before a failing step are left as they are.
func (d *Dispatcher) Charge(ctx context.Context, method Method, amount int64, req *PaymentRequest) (*Intent, error) {
	charge, err := newCharge(method, req)
	if err != nil {
		return nil, err
	}
	if err := validateCharge(charge); err != nil {
		return nil, err
	}

	switch c := charge.(type) {
	case *cardCharge:
		return d.chargeCard(ctx, amount, c)
	case *swishCharge:
		return d.chargeSwish(ctx, amount, c)
	case *klarnaCharge:
		return d.chargeKlarna(ctx, amount, c)
	}
	return nil, ErrInvalidPaymentMethod
}

func (d *Dispatcher) chargeCard(ctx context.Context, amount int64, c *cardCharge) (*Intent, error) {
	customer, err := d.processor.CreateCustomer(ctx, CustomerParams{
		PaymentMethod: c.PaymentMethodID,
		Name:          c.Name,
		Email:         c.Email,
		Address:       c.Address,
	})
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	d.logger.Debug("customer created", "customerId", customer.ID)

	offSession := false
	intent, err := d.processor.CreateIntent(ctx, IntentParams{
		Amount:             amount,
		Currency:           d.currency,
		Customer:           customer.ID,
		PaymentMethod:      c.PaymentMethodID,
		PaymentMethodTypes: []string{string(MethodCard)},
		Confirm:            true,
		OffSession:         &offSession,
		Metadata:           c.Metadata,
		ReturnURL:          d.returnURL,
	})
	if err != nil {
		return nil, &PartialFailureError{Step: "create payment intent", ResourceID: customer.ID, Err: err}
	}
	return intent, nil
}

// chargeSwish needs two round trips: swish intents cannot be confirmed at creation.
func (d *Dispatcher) chargeSwish(ctx context.Context, amount int64, c *swishCharge) (*Intent, error) {
	intent, err := d.processor.CreateIntent(ctx, IntentParams{
		Amount:             amount,
		Currency:           d.currency,
		PaymentMethodTypes: []string{string(MethodSwish)},
		Metadata:           c.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	d.logger.Debug("swish intent created", "intentId", intent.ID, "status", intent.Status)

	confirmed, err := d.processor.ConfirmIntent(ctx, intent.ID, ConfirmParams{
		PaymentMethodType: string(MethodSwish),
		ReturnURL:         d.returnURL,
	})
	if err != nil {
		return nil, &PartialFailureError{Step: "confirm payment intent", ResourceID: intent.ID, Err: err}
	}
	return confirmed, nil
}

func (d *Dispatcher) chargeKlarna(ctx context.Context, amount int64, c *klarnaCharge) (*Intent, error) {
	firstName, lastName := splitName(c.FullName)

	source, err := d.processor.CreateSource(ctx, SourceParams{
		Type:     sourceTypeKlarna,
		Amount:   amount,
		Currency: d.currency,
		Klarna: &KlarnaParams{
			Product:         klarnaProduct,
			PurchaseCountry: klarnaCountry,
			FirstName:       firstName,
			LastName:        lastName,
			Locale:          klarnaLocale,
		},
		Metadata:  c.Metadata,
		ReturnURL: d.returnURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create source: %w", err)
	}
	d.logger.Debug("klarna source created", "sourceId", source.ID)

	intent, err := d.processor.CreateIntent(ctx, IntentParams{
		Amount:             amount,
		Currency:           d.currency,
		Source:             source.ID,
		PaymentMethodTypes: []string{string(MethodKlarna)},
		Confirm:            true,
		Metadata:           c.Metadata,
		ReturnURL:          d.returnURL,
	})
	if err != nil {
		return nil, &PartialFailureError{Step: "create payment intent", ResourceID: source.ID, Err: err}
	}
	return intent, nil
}

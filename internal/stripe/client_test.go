package stripe

import (
	"checkout/internal/payments"
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

type capturedRequest struct {
	method string
	path   string
	auth   string
	form   url.Values
}

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		captured.method = r.Method
		captured.path = r.URL.Path
		captured.auth = r.Header.Get("Authorization")
		captured.form = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	return srv, captured
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := NewClient("sk_test_123", srv.URL, srv.Client(), logger)
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresSecretKey(t *testing.T) {
	_, err := NewClient("", "", nil, slog.Default())
	assert.ErrorIs(t, err, ErrMissingSecretKey)
}

func TestCreateCustomer(t *testing.T) {
	srv, got := newTestServer(t, http.StatusOK, `{"id": "cus_123", "object": "customer"}`)
	c := newTestClient(t, srv)

	customer, err := c.CreateCustomer(context.Background(), payments.CustomerParams{
		PaymentMethod: "pm_card_visa",
		Name:          "Anna Svensson",
		Email:         "anna@example.se",
		Address:       &payments.Address{Line1: "Storgatan 1", City: "Stockholm", PostalCode: "11122", Country: "SE"},
	})

	require.NoError(t, err)
	assert.Equal(t, "cus_123", customer.ID)
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/v1/customers", got.path)
	assert.Equal(t, "Bearer sk_test_123", got.auth)
	assert.Equal(t, "pm_card_visa", got.form.Get("payment_method"))
	assert.Equal(t, "anna@example.se", got.form.Get("email"))
	assert.Equal(t, "Storgatan 1", got.form.Get("address[line1]"))
	assert.Equal(t, "11122", got.form.Get("address[postal_code]"))
	assert.False(t, got.form.Has("address[line2]"))
}

func TestCreateIntent(t *testing.T) {
	srv, got := newTestServer(t, http.StatusOK, `{
		"id": "pi_123",
		"status": "requires_action",
		"client_secret": "pi_123_secret_abc",
		"next_action": {"type": "redirect_to_url", "redirect_to_url": {"url": "https://hooks.stripe.com/3ds", "return_url": "https://virtwin-energy.se/success.html"}}
	}`)
	c := newTestClient(t, srv)
	offSession := false

	intent, err := c.CreateIntent(context.Background(), payments.IntentParams{
		Amount:             14950,
		Currency:           "sek",
		Customer:           "cus_123",
		PaymentMethod:      "pm_card_visa",
		PaymentMethodTypes: []string{"card"},
		Confirm:            true,
		OffSession:         &offSession,
		Metadata:           map[string]string{"plan": "premium", "cycle": "monthly"},
		ReturnURL:          "https://virtwin-energy.se/success.html",
	})

	require.NoError(t, err)
	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, payments.StatusRequiresAction, intent.Status)
	assert.Equal(t, "pi_123_secret_abc", intent.ClientSecret)
	require.NotNil(t, intent.NextAction)
	assert.Equal(t, "https://hooks.stripe.com/3ds", intent.NextAction.RedirectToURL.URL)

	assert.Equal(t, "/v1/payment_intents", got.path)
	assert.Equal(t, "14950", got.form.Get("amount"))
	assert.Equal(t, "sek", got.form.Get("currency"))
	assert.Equal(t, "card", got.form.Get("payment_method_types[0]"))
	assert.Equal(t, "true", got.form.Get("confirm"))
	assert.Equal(t, "false", got.form.Get("off_session"))
	assert.Equal(t, "premium", got.form.Get("metadata[plan]"))
	assert.Equal(t, "monthly", got.form.Get("metadata[cycle]"))
	assert.False(t, got.form.Has("source"))
}

func TestConfirmIntent(t *testing.T) {
	srv, got := newTestServer(t, http.StatusOK, `{"id": "pi_sw", "status": "requires_action", "client_secret": "pi_sw_secret"}`)
	c := newTestClient(t, srv)

	intent, err := c.ConfirmIntent(context.Background(), "pi_sw", payments.ConfirmParams{
		PaymentMethodType: "swish",
		ReturnURL:         "https://virtwin-energy.se/success.html",
	})

	require.NoError(t, err)
	assert.Equal(t, "pi_sw_secret", intent.ClientSecret)
	assert.Equal(t, "/v1/payment_intents/pi_sw/confirm", got.path)
	assert.Equal(t, "swish", got.form.Get("payment_method_data[type]"))
	assert.Equal(t, "https://virtwin-energy.se/success.html", got.form.Get("return_url"))
}

func TestCreateSource(t *testing.T) {
	srv, got := newTestServer(t, http.StatusOK, `{"id": "src_123", "status": "pending"}`)
	c := newTestClient(t, srv)

	source, err := c.CreateSource(context.Background(), payments.SourceParams{
		Type:     "klarna",
		Amount:   29900,
		Currency: "sek",
		Klarna: &payments.KlarnaParams{
			Product:         "payment",
			PurchaseCountry: "SE",
			FirstName:       "Anna",
			LastName:        "Maria Svensson",
			Locale:          "sv-SE",
		},
		Metadata:  map[string]string{"personal_number": "199001011234"},
		ReturnURL: "https://virtwin-energy.se/success.html",
	})

	require.NoError(t, err)
	assert.Equal(t, "src_123", source.ID)
	assert.Equal(t, "/v1/sources", got.path)
	assert.Equal(t, "klarna", got.form.Get("type"))
	assert.Equal(t, "29900", got.form.Get("amount"))
	assert.Equal(t, "SE", got.form.Get("klarna[purchase_country]"))
	assert.Equal(t, "Maria Svensson", got.form.Get("klarna[last_name]"))
	assert.Equal(t, "sv-SE", got.form.Get("klarna[locale]"))
	assert.Equal(t, "199001011234", got.form.Get("metadata[personal_number]"))
	assert.Equal(t, "https://virtwin-energy.se/success.html", got.form.Get("redirect[return_url]"))
}

func TestProcessorErrors(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusPaymentRequired, `{"error": {
		"type": "card_error",
		"code": "card_declined",
		"decline_code": "insufficient_funds",
		"message": "Your card has insufficient funds."
	}}`)
	c := newTestClient(t, srv)

	_, err := c.CreateIntent(context.Background(), payments.IntentParams{Amount: 100, Currency: "sek"})

	require.Error(t, err)
	assert.ErrorIs(t, err, payments.ErrProcessor)

	var perr *payments.ProcessorError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusPaymentRequired, perr.StatusCode)
	assert.Equal(t, "card_error", perr.Type)
	assert.Equal(t, "insufficient_funds", perr.DeclineCode)
	assert.Equal(t, "Your card has insufficient funds.", perr.Message)
	assert.Equal(t, "card_error", payments.ErrorType(err))
}

func TestProcessorErrorWithoutEnvelope(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusBadGateway, `{}`)
	c := newTestClient(t, srv)

	_, err := c.CreateSource(context.Background(), payments.SourceParams{Type: "klarna", Amount: 100, Currency: "sek"})

	var perr *payments.ProcessorError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "stripe returned 502 Bad Gateway", perr.Message)
	assert.Equal(t, payments.ErrorTypeGeneral, payments.ErrorType(err))
}

func TestTransportError(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{}`)
	c := newTestClient(t, srv)
	srv.Close()

	_, err := c.CreateCustomer(context.Background(), payments.CustomerParams{Email: "a@b.se"})

	assert.ErrorIs(t, err, payments.ErrProcessor)
	assert.Equal(t, payments.ErrorTypeConnection, payments.ErrorType(err))

	msg := payments.ErrorMessage(err)
	assert.NotContains(t, msg, srv.URL)
	assert.NotContains(t, msg, "/v1/customers")
}

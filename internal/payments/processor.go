package payments

import (
	"context"
)

const (
	StatusRequiresPaymentMethod = "requires_payment_method"
	StatusRequiresConfirmation  = "requires_confirmation"
	StatusRequiresAction        = "requires_action"
	StatusRequiresSourceAction  = "requires_source_action"
	StatusProcessing            = "processing"
	StatusSucceeded             = "succeeded"
)

// Processor is the subset of the payment processor API the dispatcher drives.
type Processor interface {
	CreateCustomer(ctx context.Context, params CustomerParams) (*Customer, error)
	CreateIntent(ctx context.Context, params IntentParams) (*Intent, error)
	ConfirmIntent(ctx context.Context, id string, params ConfirmParams) (*Intent, error)
	CreateSource(ctx context.Context, params SourceParams) (*Source, error)
}

type CustomerParams struct {
	PaymentMethod string
	Name          string
	Email         string
	Address       *Address
}

type IntentParams struct {
	Amount             int64
	Currency           string
	Customer           string
	PaymentMethod      string
	Source             string
	PaymentMethodTypes []string
	Confirm            bool
	OffSession         *bool
	Metadata           map[string]string
	ReturnURL          string
}

type ConfirmParams struct {
	PaymentMethodType string
	ReturnURL         string
}

type KlarnaParams struct {
	Product         string
	PurchaseCountry string
	FirstName       string
	LastName        string
	Locale          string
}

type SourceParams struct {
	Type      string
	Amount    int64
	Currency  string
	Klarna    *KlarnaParams
	Metadata  map[string]string
	ReturnURL string
}

type Customer struct {
	ID string `json:"id"`
}

type Source struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type RedirectToURL struct {
	URL       string `json:"url"`
	ReturnURL string `json:"return_url"`
}

type NextAction struct {
	Type          string         `json:"type"`
	RedirectToURL *RedirectToURL `json:"redirect_to_url"`
}

type Intent struct {
	ID           string      `json:"id"`
	Status       string      `json:"status"`
	ClientSecret string      `json:"client_secret"`
	NextAction   *NextAction `json:"next_action"`
}

func (i *Intent) redirectURL() string {
	if i.NextAction == nil || i.NextAction.RedirectToURL == nil {
		return ""
	}
	return i.NextAction.RedirectToURL.URL
}

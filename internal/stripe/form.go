package stripe

import (
	"checkout/internal/payments"
	"fmt"
	"net/url"
	"strconv"
)

// Stripe takes application/x-www-form-urlencoded bodies and spells nested
// parameters with brackets, e.g. metadata[plan] or payment_method_types[0].

func setIf(f url.Values, key, value string) {
	if value != "" {
		f.Set(key, value)
	}
}

func setMetadata(f url.Values, md map[string]string) {
	for k, v := range md {
		f.Set(fmt.Sprintf("metadata[%s]", k), v)
	}
}

func customerForm(p payments.CustomerParams) url.Values {
	f := url.Values{}
	setIf(f, "payment_method", p.PaymentMethod)
	setIf(f, "name", p.Name)
	setIf(f, "email", p.Email)
	if a := p.Address; a != nil {
		setIf(f, "address[line1]", a.Line1)
		setIf(f, "address[line2]", a.Line2)
		setIf(f, "address[city]", a.City)
		setIf(f, "address[postal_code]", a.PostalCode)
		setIf(f, "address[state]", a.State)
		setIf(f, "address[country]", a.Country)
	}
	return f
}

func intentForm(p payments.IntentParams) url.Values {
	f := url.Values{}
	f.Set("amount", strconv.FormatInt(p.Amount, 10))
	f.Set("currency", p.Currency)
	setIf(f, "customer", p.Customer)
	setIf(f, "payment_method", p.PaymentMethod)
	setIf(f, "source", p.Source)
	for i, t := range p.PaymentMethodTypes {
		f.Set(fmt.Sprintf("payment_method_types[%d]", i), t)
	}
	if p.Confirm {
		f.Set("confirm", "true")
	}
	if p.OffSession != nil {
		f.Set("off_session", strconv.FormatBool(*p.OffSession))
	}
	setMetadata(f, p.Metadata)
	setIf(f, "return_url", p.ReturnURL)
	return f
}

func confirmForm(p payments.ConfirmParams) url.Values {
	f := url.Values{}
	setIf(f, "payment_method_data[type]", p.PaymentMethodType)
	setIf(f, "return_url", p.ReturnURL)
	return f
}

func sourceForm(p payments.SourceParams) url.Values {
	f := url.Values{}
	f.Set("type", p.Type)
	f.Set("amount", strconv.FormatInt(p.Amount, 10))
	f.Set("currency", p.Currency)
	if k := p.Klarna; k != nil {
		setIf(f, "klarna[product]", k.Product)
		setIf(f, "klarna[purchase_country]", k.PurchaseCountry)
		setIf(f, "klarna[first_name]", k.FirstName)
		setIf(f, "klarna[last_name]", k.LastName)
		setIf(f, "klarna[locale]", k.Locale)
	}
	setMetadata(f, p.Metadata)
	setIf(f, "redirect[return_url]", p.ReturnURL)
	return f
}

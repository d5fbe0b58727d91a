package payments

import (
	"fmt"
	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"
	"strings"
)

type Method string

const (
	MethodCard   Method = "card"
	MethodSwish  Method = "swish"
	MethodKlarna Method = "klarna"
)

type Address struct {
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	State      string `json:"state,omitempty"`
	Country    string `json:"country,omitempty"`
}

type BillingDetails struct {
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Address *Address `json:"address"`
}

// PaymentRequest is the checkout body posted by the web client.
type PaymentRequest struct {
	PaymentMethod   Method          `json:"payment_method"`
	PaymentMethodID string          `json:"payment_method_id"`
	SwishNumber     Text            `json:"swish_number"`
	PersonalNumber  Text            `json:"personal_number"`
	Plan            Text            `json:"plan"`
	Cycle           Text            `json:"cycle"`
	Price           Numeric         `json:"price"`
	Amount          Numeric         `json:"amount"`
	BillingDetails  *BillingDetails `json:"billing_details"`
	Metadata        map[string]any  `json:"metadata"`
}

// Numeric holds a request field that may arrive as a JSON number or a numeric string.
// Anything else leaves it unset instead of failing the whole body.
type Numeric struct {
	value decimal.Decimal
	valid bool
}

func NewNumeric(s string) Numeric {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Numeric{}
	}
	return Numeric{value: d, valid: true}
}

func (n *Numeric) UnmarshalJSON(b []byte) error {
	var d decimal.NullDecimal
	if err := d.UnmarshalJSON(b); err != nil {
		*n = Numeric{}
		return nil
	}
	*n = Numeric{value: d.Decimal, valid: d.Valid}
	return nil
}

func (n Numeric) MarshalJSON() ([]byte, error) {
	return decimal.NullDecimal{Decimal: n.value, Valid: n.valid}.MarshalJSON()
}

// Text is an identifier field that web clients send either quoted or as a bare JSON
// number (phone numbers, national IDs). Numbers keep their literal digits.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	raw := string(b)
	switch {
	case raw == "null":
		*t = ""
		return nil
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := sonic.ConfigStd.UnmarshalFromString(raw, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}

	if _, err := decimal.NewFromString(raw); err != nil {
		return fmt.Errorf("expected string or number, got %s", raw)
	}
	*t = Text(raw)
	return nil
}

func (t Text) String() string { return string(t) }

// usable mirrors the client contract: zero counts as "not supplied".
func (n Numeric) usable() bool {
	return n.valid && !n.value.IsZero()
}

// splitName returns the first token as first name and the rest joined as last name.
func splitName(fullName string) (first, last string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

package payments

import (
	"errors"
	"github.com/go-playground/validator/v10"
	"reflect"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("field"); name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

// validateCharge reports the first field a payment method needs but did not get.
func validateCharge(c any) error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return missingField(verrs[0].Field())
	}
	return err
}

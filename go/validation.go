package orderserver

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	nonstandard "github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
)

var registerOnce sync.Once

// registerValidators installs the order rules on gin's validator engine.
func registerValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		err = RegisterValidators(v)
	})
	return err
}

// RegisterValidators adds notblank and positive_decimal to v.
func RegisterValidators(v *validator.Validate) error {
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})
	if err := v.RegisterValidation("notblank", nonstandard.NotBlank); err != nil {
		return err
	}
	return v.RegisterValidation("positive_decimal", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && d.IsPositive()
	})
}

// fieldMessages maps "Field.tag" to the client facing message.
var fieldMessages = map[string]string{
	"CustomerName.required":   "Customer name is mandatory",
	"CustomerName.notblank":   "Customer name is mandatory",
	"Amount.required":         "Amount is mandatory",
	"Amount.positive_decimal": "Amount must be greater than 0",
	"OrderStatus.required":    "Status is mandatory",
}

// validationMessage returns the message for the first failed field, or false when
// err is not a field validation failure.
func validationMessage(err error) (string, bool) {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "", false
	}
	fe := fieldErrs[0]
	if msg, ok := fieldMessages[fe.StructField()+"."+fe.Tag()]; ok {
		return msg, true
	}
	return fmt.Sprintf("%s failed on the '%s' rule", fe.Field(), fe.Tag()), true
}

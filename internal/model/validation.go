package model

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// RegisterValidators installs the custom binding validators used by the
// request types. "notfuture" rejects timestamps after the current time,
// which keeps arrival times from inflating wait scores.
func RegisterValidators(v *validator.Validate) error {
	return v.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		return !t.After(time.Now())
	})
}

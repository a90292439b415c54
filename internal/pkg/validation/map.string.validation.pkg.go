package validation

import (
	"reflect"

	"github.com/go-playground/validator/v10"
)

// validateMapStringString accepts string keyed string maps (named map types
// included) whose keys are all non-empty. Empty values are allowed.
func validateMapStringString(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Map {
		return false
	}
	t := field.Type()
	if t.Key().Kind() != reflect.String || t.Elem().Kind() != reflect.String {
		return false
	}

	for _, k := range field.MapKeys() {
		if k.String() == "" {
			return false
		}
	}

	return true
}

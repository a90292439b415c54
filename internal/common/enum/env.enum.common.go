package enum

import (
	"github.com/go-playground/validator/v10"
)

type EnvEnum string

const (
	LOCAL       EnvEnum = "local"
	DEVELOPMENT EnvEnum = "development"
	PRODUCTION  EnvEnum = "production"
	STAGING     EnvEnum = "staging"
)

func (e EnvEnum) ToString() string {
	switch e {
	case LOCAL:
		return "local"
	case DEVELOPMENT:
		return "development"
	case PRODUCTION:
		return "production"
	case STAGING:
		return "staging"
	}
	return ""
}

func (e EnvEnum) IsValid() bool {
	switch e {
	case LOCAL, DEVELOPMENT, PRODUCTION, STAGING:
		return true
	}
	return false
}

// IsLocal reports whether the service runs on a developer machine.
func (e EnvEnum) IsLocal() bool {
	return e == LOCAL || e == DEVELOPMENT
}

// IEnum is implemented by every enum that can be checked with the "enum" tag.
type IEnum interface {
	IsValid() bool
}

// ValidateEnum backs the "enum" validation tag.
func ValidateEnum(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(IEnum)
	if !ok {
		return false
	}
	return value.IsValid()
}

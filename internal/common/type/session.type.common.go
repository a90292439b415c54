package types

import (
	"github.com/google/uuid"
)

// ClientWithAuth is the host order system identity carried in service tokens.
type ClientWithAuth struct {
	ID    uuid.UUID `json:"id" validate:"required"`
	Name  string    `json:"name" validate:"required"`
	Scope string    `json:"scope" validate:"omitempty,oneof=checkout admin"`
}

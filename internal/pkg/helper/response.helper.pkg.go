package helper

import (
	types "go-twocheckout/internal/common/type"
	"net/http"
)

// ParseResponse fills in defaults so every response carries a code and message.
func ParseResponse(r *types.Response) *types.Response {
	if r.Code == 0 {
		if r.Error != nil {
			r.Code = http.StatusInternalServerError
		} else {
			r.Code = http.StatusOK
		}
	}
	if r.Message == "" {
		if r.Error != nil {
			r.Message = r.Error.Error()
		} else {
			r.Message = http.StatusText(r.Code)
		}
	}
	return r
}

// ToResponseAPI converts a service response into the JSON envelope.
func ToResponseAPI(r *types.Response) types.ResponseAPI {
	out := types.ResponseAPI{
		Status:  r.Code,
		Message: r.Message,
		Data:    r.Data,
	}
	if r.Error != nil {
		out.Error = r.Error.Error()
	}
	return out
}

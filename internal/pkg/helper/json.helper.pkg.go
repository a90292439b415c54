package helper

import (
	"encoding/json"
	"fmt"
)

// JSONToByte marshals payload, naming its type in the error.
func JSONToByte(payload any) ([]byte, error) {
	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", payload, err)
	}
	return jsonBytes, nil
}

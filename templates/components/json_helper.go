package components

import (
	"encoding/json"
)

// JSON marshals v for use inside an attribute, returning "null" on error
func JSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

// Record body encoding for the documents table.
package sqlite

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/walkcat/pkg/types"
)

// encodeBody renders fields as the JSON stored in documents.body.
func encodeBody(fields types.Fields) (string, error) {
	b, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encoding body: %w", err)
	}
	return string(b), nil
}

// decodeBody parses a documents.body value. Numbers decode as float64, the
// same as the JSON document backend.
func decodeBody(body string) (types.Fields, error) {
	var fields types.Fields
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return nil, fmt.Errorf("decoding body: %w", err)
	}
	if fields == nil {
		fields = types.Fields{}
	}
	return fields, nil
}

// jsonPath returns the json_extract path for a top-level field, and false
// when the name cannot be quoted safely inside a path.
func jsonPath(field string) (string, bool) {
	if field == "" || strings.ContainsAny(field, `"\`) {
		return "", false
	}
	return `$."` + field + `"`, true
}

package product

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Spec is a single specification entry, e.g. {"Material": "100% cotton"}.
type Spec struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Specifications is an ordered list of specification pairs. Order follows the
// JSON object submitted by the admin form, which a plain map would lose.
type Specifications []Spec

// ParseSpecifications parses the "specifications" form field: a JSON object
// of string keys to string values. Key order is preserved. An empty field
// yields an empty list; anything that is not a flat string-to-string object
// is a validation error.
func ParseSpecifications(raw string) (Specifications, error) {
	if strings.TrimSpace(raw) == "" {
		return Specifications{}, nil
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("specifications is not valid JSON: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("specifications must be a JSON object")
	}

	specs := Specifications{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("specifications is not valid JSON: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("specifications is not valid JSON")
		}

		var value string
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("specification %q must have a string value", key)
		}
		specs = append(specs, Spec{Key: key, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("specifications is not valid JSON: %w", err)
	}
	return specs, nil
}

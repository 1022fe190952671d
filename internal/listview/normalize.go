package listview

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// errInvalidJSON is returned for payloads that are not well-formed JSON.
var errInvalidJSON = errors.New("payload is not valid JSON")

// NormalizeList decodes a list payload. It accepts a bare JSON array or an
// object whose "results" field is an array. Any other well-formed shape
// yields an empty list.
func NormalizeList[E any](payload []byte) ([]E, error) {
	if !gjson.ValidBytes(payload) {
		return nil, errInvalidJSON
	}

	root := gjson.ParseBytes(payload)
	var raw string
	switch {
	case root.IsArray():
		raw = root.Raw
	case root.IsObject():
		if results := root.Get("results"); results.IsArray() {
			raw = results.Raw
		}
	}

	items := []E{}
	if raw == "" {
		return items, nil
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("failed to decode list items: %w", err)
	}
	return items, nil
}

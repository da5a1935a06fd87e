package store

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// snapshot returns a JSON-safe clone of v for the jsonb columns. Cloning is
// best effort: a value that cannot be marshalled is stored as its string
// rendering instead of failing the insert.
func snapshot(v any) []byte {
	if v == nil {
		return []byte("null")
	}
	data, err := json.Marshal(v)
	if err != nil {
		data, err = json.Marshal(fmt.Sprint(v))
		if err != nil {
			return []byte("null")
		}
	}
	return data
}

package models

import "encoding/json"

// Document is a row in the versioned configuration store. Keys are
// slash-delimited paths; only the highest version per key is current.
type Document struct {
	Key     string          `json:"key"`
	Value   json.RawMessage `json:"value"`
	Version int64           `json:"version"`
}

package models

import "encoding/json"

// Page is the envelope of list endpoints. Items stay opaque.
type Page struct {
	Data  []json.RawMessage `json:"data"`
	Total int               `json:"total"`
	Page  int               `json:"page"`
	Size  int               `json:"size"`
	Pages int               `json:"pages,omitempty"`
}

// Download is a binary payload returned by an export endpoint.
type Download struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Upload is a multipart body: one file part plus optional plain fields.
type Upload struct {
	FieldName string
	FileName  string
	Data      []byte
	Fields    map[string]string
}

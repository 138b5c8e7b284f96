package transport

import (
	"encoding/json"
	"strings"
)

// errorBody is the backend error envelope. detail is either a string or a
// list of {"loc": [...], "msg": "...", "type": "..."} items.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationItem struct {
	Msg string `json:"msg"`
}

func detailOr(body []byte, fallback string) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return fallback
	}
	var s string
	if err := json.Unmarshal(eb.Detail, &s); err == nil && s != "" {
		return s
	}
	return fallback
}

func validationMessage(body []byte) string {
	const fallback = "invalid request parameters"

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return fallback
	}

	var items []validationItem
	if err := json.Unmarshal(eb.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, ", ")
		}
		return fallback
	}

	return detailOr(body, fallback)
}

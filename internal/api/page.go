package api

import (
	"bytes"
	"encoding/json"
)

// Page absorbs both list shapes the backend produces: a bare JSON array and
// the paginated {"count": n, "results": [...]} envelope. Consumers get the
// same slice either way, normalized in this one place.
type Page[T any] struct {
	Count   int
	Results []T
}

func (p *Page[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(data, &p.Results); err != nil {
			return err
		}
		p.Count = len(p.Results)
		return nil
	}

	var envelope struct {
		Count   int `json:"count"`
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	p.Count = envelope.Count
	p.Results = envelope.Results
	if p.Count == 0 {
		p.Count = len(p.Results)
	}
	return nil
}

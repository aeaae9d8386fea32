package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Page is one page of a list endpoint, whatever envelope the backend used.
type Page[T any] struct {
	Items      []T
	TotalPages int
	Total      int
}

type pageEnvelope struct {
	Content       json.RawMessage `json:"content"`
	Produtos      json.RawMessage `json:"produtos"`
	Items         json.RawMessage `json:"items"`
	Data          json.RawMessage `json:"data"`
	Total         *int            `json:"total"`
	TotalElements *int            `json:"totalElements"`
	TotalPages    *int            `json:"totalPages"`
}

// decodePage normalizes a bare array, {content,...}, {produtos,...},
// {items,...} or {data,...} into a Page.
func decodePage[T any](data []byte) (*Page[T], error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return &Page[T]{Items: []T{}}, nil
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return newPage(items, nil, nil), nil
	}

	var env pageEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	var items []T
	for _, raw := range []json.RawMessage{env.Content, env.Produtos, env.Items, env.Data} {
		if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
			continue
		}
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		break
	}

	total := env.Total
	if total == nil {
		total = env.TotalElements
	}
	return newPage(items, total, env.TotalPages), nil
}

func newPage[T any](items []T, total, totalPages *int) *Page[T] {
	if items == nil {
		items = []T{}
	}
	p := &Page[T]{Items: items, Total: len(items)}
	if total != nil {
		p.Total = *total
	}
	switch {
	case totalPages != nil:
		p.TotalPages = *totalPages
	case len(items) > 0:
		p.TotalPages = 1
	}
	return p
}

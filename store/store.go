/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package store provides the keyed JSON document store that game state is
// persisted through.
package store

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	ErrNotFound = errors.New("document not found")
	ErrClosed   = errors.New("store closed")
)

// Document is a stored JSON document and its key within a collection.
type Document struct {
	Key  string
	Data json.RawMessage
}

// Decode unmarshals the document body into v.
func (d Document) Decode(v any) error {
	return json.Unmarshal(d.Data, v)
}

// Store is a keyed document store. Documents are JSON objects; Update merges
// the given top-level fields into an existing document. List and QueryByField
// return documents in insertion order.
type Store interface {
	Get(ctx context.Context, collection, key string) (Document, error)
	Set(ctx context.Context, collection, key string, doc any) error
	Update(ctx context.Context, collection, key string, fields map[string]any) error
	QueryByField(ctx context.Context, collection, field string, value any) ([]Document, error)
	List(ctx context.Context, collection string) ([]Document, error)
	DeleteMany(ctx context.Context, collection string, keys []string) error
	Close() error
}

func encodeObject(doc any) (map[string]json.RawMessage, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, errors.New("document must encode to a JSON object")
	}
	return fields, nil
}

func encodeFields(fields map[string]any) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(fields))
	for k, v := range fields {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		out[k] = data
	}
	return out, nil
}

/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"maps"
	"slices"
	"sync"
)

type memoryCollection struct {
	docs  map[string]map[string]json.RawMessage
	order []string
}

// Memory is an in-process Store. It is the default backend and loses all
// state when the process exits.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
	closed      bool
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string]*memoryCollection)}
}

func (m *Memory) collectionLocked(name string) *memoryCollection {
	c, ok := m.collections[name]
	if !ok {
		c = &memoryCollection{docs: make(map[string]map[string]json.RawMessage)}
		m.collections[name] = c
	}
	return c
}

func (m *Memory) Get(ctx context.Context, collection, key string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Document{}, ErrClosed
	}

	c, ok := m.collections[collection]
	if !ok {
		return Document{}, ErrNotFound
	}
	fields, ok := c.docs[key]
	if !ok {
		return Document{}, ErrNotFound
	}
	return toDocument(key, fields)
}

func (m *Memory) Set(ctx context.Context, collection, key string, doc any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fields, err := encodeObject(doc)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	c := m.collectionLocked(collection)
	if _, exists := c.docs[key]; !exists {
		c.order = append(c.order, key)
	}
	c.docs[key] = fields
	return nil
}

func (m *Memory) Update(ctx context.Context, collection, key string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	encoded, err := encodeFields(fields)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	c, ok := m.collections[collection]
	if !ok {
		return ErrNotFound
	}
	existing, ok := c.docs[key]
	if !ok {
		return ErrNotFound
	}

	merged := maps.Clone(existing)
	maps.Copy(merged, encoded)
	c.docs[key] = merged
	return nil
}

func (m *Memory) QueryByField(ctx context.Context, collection, field string, value any) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	want, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}

	c, ok := m.collections[collection]
	if !ok {
		return []Document{}, nil
	}

	docs := make([]Document, 0)
	for _, key := range c.order {
		fields := c.docs[key]
		got, ok := fields[field]
		if !ok || !jsonEqual(got, want) {
			continue
		}
		doc, err := toDocument(key, fields)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (m *Memory) List(ctx context.Context, collection string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}

	c, ok := m.collections[collection]
	if !ok {
		return []Document{}, nil
	}

	docs := make([]Document, 0, len(c.order))
	for _, key := range c.order {
		doc, err := toDocument(key, c.docs[key])
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (m *Memory) DeleteMany(ctx context.Context, collection string, keys []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	c, ok := m.collections[collection]
	if !ok {
		return nil
	}
	for _, key := range keys {
		delete(c.docs, key)
	}
	c.order = slices.DeleteFunc(c.order, func(key string) bool {
		return slices.Contains(keys, key)
	})
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

func toDocument(key string, fields map[string]json.RawMessage) (Document, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return Document{}, err
	}
	return Document{Key: key, Data: data}, nil
}

func jsonEqual(a, b json.RawMessage) bool {
	if bytes.Equal(a, b) {
		return true
	}

	var av, bv any
	if json.Unmarshal(a, &av) != nil || json.Unmarshal(b, &bv) != nil {
		return false
	}
	ae, _ := json.Marshal(av)
	be, _ := json.Marshal(bv)
	return bytes.Equal(ae, be)
}

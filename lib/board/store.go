// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package board

import (
	"context"
	"sync"
)

// Store is a mutex-guarded list of entities keyed by id. Reads return
// deep copies, so callers may keep and modify them freely.
type Store[T any] struct {
	keyOf func(T) int64
	clone func(T) T

	mu    sync.Mutex
	items []T
}

// NewStore creates an empty store. keyOf returns an item's id and
// clone returns a deep copy.
func NewStore[T any](keyOf func(T) int64, clone func(T) T) *Store[T] {
	return &Store[T]{keyOf: keyOf, clone: clone}
}

func (s *Store[T]) copyItems(items []T) []T {
	if items == nil {
		return nil
	}
	copied := make([]T, len(items))
	for index, item := range items {
		copied[index] = s.clone(item)
	}
	return copied
}

// Items returns a copy of the list.
func (s *Store[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyItems(s.items)
}

// Len returns the number of items.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Get returns the item with id.
func (s *Store[T]) Get(id int64) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if s.keyOf(item) == id {
			return s.clone(item), true
		}
	}
	var zero T
	return zero, false
}

// Replace swaps in a new list.
func (s *Store[T]) Replace(items []T) {
	copied := s.copyItems(items)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = copied
}

// Update applies fn to a copy of the list under the lock and stores
// the result.
func (s *Store[T]) Update(fn func([]T) []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = fn(s.copyItems(s.items))
}

// Prepend inserts item at the front.
func (s *Store[T]) Prepend(item T) {
	s.Update(func(items []T) []T {
		return append([]T{s.clone(item)}, items...)
	})
}

// Put replaces the item with the same id in place, or prepends it when
// absent.
func (s *Store[T]) Put(item T) {
	s.Update(func(items []T) []T {
		return s.put(items, item)
	})
}

func (s *Store[T]) put(items []T, item T) []T {
	id := s.keyOf(item)
	for index := range items {
		if s.keyOf(items[index]) == id {
			items[index] = s.clone(item)
			return items
		}
	}
	return append([]T{s.clone(item)}, items...)
}

// Remove deletes the item with id. It reports whether one was present.
func (s *Store[T]) Remove(id int64) bool {
	removed := false
	s.Update(func(items []T) []T {
		items, removed = s.remove(items, id)
		return items
	})
	return removed
}

func (s *Store[T]) remove(items []T, id int64) ([]T, bool) {
	for index := range items {
		if s.keyOf(items[index]) == id {
			return append(items[:index], items[index+1:]...), true
		}
	}
	return items, false
}

// Mutate applies a local change, then runs call. If call fails, the
// list is restored to exactly its state before apply and the error is
// returned. apply receives a copy it may modify.
func (s *Store[T]) Mutate(ctx context.Context, apply func([]T) []T, call func(context.Context) error) error {
	s.mu.Lock()
	snapshot := s.copyItems(s.items)
	s.items = apply(s.copyItems(s.items))
	s.mu.Unlock()

	if err := call(ctx); err != nil {
		s.mu.Lock()
		s.items = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

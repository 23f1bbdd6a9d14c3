// Copyright 2022 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package lru implements generic caches with fixed capacity and
// least-recently-used eviction, used by the header stores to bound
// memory use without an external cache dependency.
package lru

import "container/list"

// BasicLRU is a simple LRU cache, not safe for concurrent use.
type BasicLRU[K comparable, V any] struct {
	list  *list.List
	items map[K]*list.Element
	cap   int
}

type lruItem[K comparable, V any] struct {
	key   K
	value V
}

// NewBasicLRU creates a new LRU cache of the given capacity. Capacity must be
// at least one.
func NewBasicLRU[K comparable, V any](capacity int) BasicLRU[K, V] {
	if capacity <= 0 {
		capacity = 1
	}
	c := BasicLRU[K, V]{
		items: make(map[K]*list.Element),
		list:  list.New(),
		cap:   capacity,
	}
	return c
}

// Add adds a value to the cache. Returns true if an item had to be evicted
// to store the new value.
func (c *BasicLRU[K, V]) Add(key K, value V) (evicted bool) {
	if c.items == nil {
		c.items = make(map[K]*list.Element)
		c.list = list.New()
	}
	if e, ok := c.items[key]; ok {
		c.list.MoveToFront(e)
		e.Value.(*lruItem[K, V]).value = value
		return false
	}
	e := c.list.PushFront(&lruItem[K, V]{key, value})
	c.items[key] = e
	if c.list.Len() > c.cap {
		c.removeOldest()
		return true
	}
	return false
}

// Get retrieves a value from the cache, marking it most recently used.
func (c *BasicLRU[K, V]) Get(key K) (value V, ok bool) {
	e, ok := c.items[key]
	if !ok {
		return value, false
	}
	c.list.MoveToFront(e)
	return e.Value.(*lruItem[K, V]).value, true
}

// Peek retrieves a value from the cache without marking it most recently used.
func (c *BasicLRU[K, V]) Peek(key K) (value V, ok bool) {
	e, ok := c.items[key]
	if !ok {
		return value, false
	}
	return e.Value.(*lruItem[K, V]).value, true
}

// Contains reports whether key is present, without affecting recency.
func (c *BasicLRU[K, V]) Contains(key K) bool {
	_, ok := c.items[key]
	return ok
}

// Remove removes a key from the cache, returning whether it was present.
func (c *BasicLRU[K, V]) Remove(key K) bool {
	e, ok := c.items[key]
	if !ok {
		return false
	}
	c.list.Remove(e)
	delete(c.items, key)
	return true
}

// Len returns the number of items in the cache.
func (c *BasicLRU[K, V]) Len() int {
	return c.list.Len()
}

// Purge empties the cache.
func (c *BasicLRU[K, V]) Purge() {
	c.list.Init()
	for k := range c.items {
		delete(c.items, k)
	}
}

// GetOldest returns the least-recently-used item.
func (c *BasicLRU[K, V]) GetOldest() (key K, value V, ok bool) {
	e := c.list.Back()
	if e == nil {
		return key, value, false
	}
	item := e.Value.(*lruItem[K, V])
	return item.key, item.value, true
}

// RemoveOldest removes the least-recently-used item.
func (c *BasicLRU[K, V]) RemoveOldest() (key K, value V, ok bool) {
	e := c.list.Back()
	if e == nil {
		return key, value, false
	}
	item := e.Value.(*lruItem[K, V])
	c.list.Remove(e)
	delete(c.items, item.key)
	return item.key, item.value, true
}

func (c *BasicLRU[K, V]) removeOldest() {
	e := c.list.Back()
	if e == nil {
		return
	}
	item := e.Value.(*lruItem[K, V])
	c.list.Remove(e)
	delete(c.items, item.key)
}

// Keys returns a slice of all keys, in order from least-recently used to
// most-recently used.
func (c *BasicLRU[K, V]) Keys() []K {
	keys := make([]K, 0, len(c.items))
	for e := c.list.Back(); e != nil; e = e.Prev() {
		keys = append(keys, e.Value.(*lruItem[K, V]).key)
	}
	return keys
}

/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package cache provides a generic in-memory cache with TTL based expiry.
package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/motumag/payflow/internal/system/config"
	"github.com/motumag/payflow/internal/system/log"
)

const (
	defaultCacheSize = 100
	defaultCacheTTL  = 600 * time.Second
)

// CacheInterface defines the common interface for cache operations.
type CacheInterface[T any] interface {
	GetName() string
	Set(key string, value T)
	Get(key string) (T, bool)
	Delete(key string)
	Clear()
	IsEnabled() bool
	CleanupExpired()
}

type cacheEntry[T any] struct {
	key       string
	value     T
	expiresAt time.Time
}

// Cache is an in-memory cache with LRU eviction. A disabled cache accepts
// every operation and never stores anything.
type Cache[T any] struct {
	enabled   bool
	cacheName string
	size      int
	ttl       time.Duration

	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List
}

// NewCache creates a cache sized and enabled per the runtime cache configuration.
func NewCache[T any](cacheName string) CacheInterface[T] {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "Cache"),
		log.String("cacheName", cacheName))

	cacheConfig := config.GetPayflowRuntime().Config.Cache
	if cacheConfig.Disabled {
		logger.Debug("Caching is disabled")
		return &Cache[T]{enabled: false, cacheName: cacheName}
	}

	size := cacheConfig.Size
	if size <= 0 {
		size = defaultCacheSize
	}
	ttl := time.Duration(cacheConfig.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	return &Cache[T]{
		enabled:   true,
		cacheName: cacheName,
		size:      size,
		ttl:       ttl,
		entries:   make(map[string]*list.Element),
		order:     list.New(),
	}
}

// GetName returns the name of the cache.
func (c *Cache[T]) GetName() string {
	return c.cacheName
}

// IsEnabled reports whether the cache stores values.
func (c *Cache[T]) IsEnabled() bool {
	return c.enabled
}

// Set stores a value in the cache, evicting the least recently used entry
// when the cache is full.
func (c *Cache[T]) Set(key string, value T) {
	if !c.enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*cacheEntry[T])
		entry.value = value
		entry.expiresAt = time.Now().Add(c.ttl)
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.size {
		c.evictOldest()
	}

	elem := c.order.PushFront(&cacheEntry[T]{
		key:       key,
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	})
	c.entries[key] = elem
}

// Get retrieves a value from the cache. Expired entries are removed on access.
func (c *Cache[T]) Get(key string) (T, bool) {
	var zero T
	if !c.enabled {
		return zero, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return zero, false
	}

	entry := elem.Value.(*cacheEntry[T])
	if time.Now().After(entry.expiresAt) {
		c.removeElement(elem)
		return zero, false
	}

	c.order.MoveToFront(elem)
	return entry.value, true
}

// Delete removes a value from the cache.
func (c *Cache[T]) Delete(key string) {
	if !c.enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.removeElement(elem)
	}
}

// Clear removes all values from the cache.
func (c *Cache[T]) Clear() {
	if !c.enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.order.Init()
}

// CleanupExpired removes all expired entries from the cache.
func (c *Cache[T]) CleanupExpired() {
	if !c.enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for elem := c.order.Back(); elem != nil; {
		prev := elem.Prev()
		if now.After(elem.Value.(*cacheEntry[T]).expiresAt) {
			c.removeElement(elem)
		}
		elem = prev
	}
}

func (c *Cache[T]) evictOldest() {
	if elem := c.order.Back(); elem != nil {
		c.removeElement(elem)
	}
}

func (c *Cache[T]) removeElement(elem *list.Element) {
	entry := elem.Value.(*cacheEntry[T])
	delete(c.entries, entry.key)
	c.order.Remove(elem)
}

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

package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/motumag/payflow/internal/system/log"
	"github.com/motumag/payflow/internal/system/utils"
)

const storeLoggerComponentName = "SessionStore"

// ErrSessionNotFound is returned when a session ID is not present in the store.
var ErrSessionNotFound = errors.New("session not found")

// Subscriber receives a snapshot of the session state after each committed update.
type Subscriber func(state SessionState)

// Store is the single source of truth for session state. Updates are applied
// atomically under one lock and each committed update produces exactly one
// notification per subscriber, delivered outside the lock.
type Store struct {
	mu          sync.RWMutex
	sessions    map[string]*SessionState
	subscribers map[string]map[string]Subscriber
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions:    make(map[string]*SessionState),
		subscribers: make(map[string]map[string]Subscriber),
	}
}

// Create registers a new session with initial state and returns its snapshot.
func (s *Store) Create(sessionID string) SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := NewSessionState(sessionID)
	s.sessions[sessionID] = state
	return *state
}

// Get returns a snapshot of the session state.
func (s *Store) Get(sessionID string) (SessionState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		return SessionState{}, false
	}
	return *state, true
}

// Set applies the mutator to the session state atomically and notifies
// subscribers once. A nil mutator is rejected without touching the state.
func (s *Store) Set(sessionID string, mutate func(state *SessionState)) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, storeLoggerComponentName))

	if mutate == nil {
		logger.Warn("Rejected nil session mutator", log.String(log.LoggerKeySessionID, sessionID))
		return errors.New("session mutator is nil")
	}

	snapshot, subs, err := s.apply(sessionID, mutate)
	if err != nil {
		return err
	}

	for _, sub := range subs {
		sub(snapshot)
	}
	return nil
}

// apply runs the mutator under the lock. A panicking mutator is recovered so
// the lock is released and the store stays usable; the update is not notified.
func (s *Store) apply(sessionID string, mutate func(state *SessionState)) (
	snapshot SessionState, subs []Subscriber, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		return SessionState{}, nil, ErrSessionNotFound
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			logger := log.GetLogger().With(
				log.String(log.LoggerKeyComponentName, storeLoggerComponentName))
			logger.Error("Session mutator panicked",
				log.String(log.LoggerKeySessionID, sessionID),
				log.Any("panic", recovered))
			snapshot, subs = SessionState{}, nil
			err = fmt.Errorf("session mutator panicked: %v", recovered)
		}
	}()

	mutate(state)
	state.UpdatedAt = time.Now()
	snapshot = *state
	subs = make([]Subscriber, 0, len(s.subscribers[sessionID]))
	for _, sub := range s.subscribers[sessionID] {
		subs = append(subs, sub)
	}
	return snapshot, subs, nil
}

// Subscribe registers a subscriber for the session and returns its
// deregistration function. Deregistration is idempotent.
func (s *Store) Subscribe(sessionID string, subscriber Subscriber) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subscribers[sessionID] == nil {
		s.subscribers[sessionID] = make(map[string]Subscriber)
	}
	subscriptionID := utils.GenerateUUID()
	s.subscribers[sessionID][subscriptionID] = subscriber

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers[sessionID], subscriptionID)
	}
}

// Reset restores the session to its initial state, keeping the session ID,
// and notifies subscribers of the reset state.
func (s *Store) Reset(sessionID string) error {
	s.mu.Lock()
	if _, ok := s.sessions[sessionID]; !ok {
		s.mu.Unlock()
		return ErrSessionNotFound
	}
	state := NewSessionState(sessionID)
	s.sessions[sessionID] = state
	snapshot := *state
	subs := make([]Subscriber, 0, len(s.subscribers[sessionID]))
	for _, sub := range s.subscribers[sessionID] {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(snapshot)
	}
	return nil
}

// Delete removes the session and its subscribers from the store.
func (s *Store) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	delete(s.subscribers, sessionID)
}

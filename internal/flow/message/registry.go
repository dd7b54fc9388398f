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

package message

import (
	"sync"
	"time"

	"github.com/motumag/payflow/internal/flow/model"
	"github.com/motumag/payflow/internal/system/log"
	"github.com/motumag/payflow/internal/system/utils"
)

const registryLoggerComponentName = "FrameMessageRegistry"

// Listener receives the completion data when a challenge completion is recognized.
type Listener func(completion model.ThreeDSCompletionData)

// Registry routes frame messages to completion listeners. Listeners are single
// use; a recognized completion deregisters every listener it notifies, and
// Teardown deregisters the rest.
type Registry struct {
	mu             sync.Mutex
	trustedOrigins []string
	listeners      map[string]Listener
}

// NewRegistry creates a registry accepting messages from the given origins only.
func NewRegistry(trustedOrigins []string) *Registry {
	return &Registry{
		trustedOrigins: trustedOrigins,
		listeners:      make(map[string]Listener),
	}
}

// AddListener registers a completion listener and returns its removal function.
// Removal is idempotent.
func (r *Registry) AddListener(listener Listener) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	listenerID := utils.GenerateUUID()
	r.listeners[listenerID] = listener

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.listeners, listenerID)
	}
}

// ListenerCount returns the number of registered listeners.
func (r *Registry) ListenerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.listeners)
}

// Dispatch inspects one frame message. Messages from untrusted origins are
// dropped without inspection. A recognized completion notifies and removes
// all current listeners; Dispatch returns true only when at least one
// listener consumed the completion.
func (r *Registry) Dispatch(origin string, data any) bool {
	logger := log.GetLogger().With(
		log.String(log.LoggerKeyComponentName, registryLoggerComponentName))

	if !r.isTrustedOrigin(origin) {
		logger.Debug("Dropped frame message from untrusted origin", log.String("origin", origin))
		return false
	}

	recognition := Recognize(data)
	if !recognition.Completed {
		return false
	}

	completion := model.ThreeDSCompletionData{
		TransactionID: recognition.TransactionID,
		Raw:           recognition.Raw,
		Source:        model.CompletionSourceMessage,
		ReceivedAt:    time.Now(),
	}

	r.mu.Lock()
	notified := make([]Listener, 0, len(r.listeners))
	for _, listener := range r.listeners {
		notified = append(notified, listener)
	}
	r.listeners = make(map[string]Listener)
	r.mu.Unlock()

	logger.Debug("Challenge completion recognized",
		log.String("origin", origin),
		log.String("transactionId", completion.TransactionID),
		log.Int("listeners", len(notified)))

	for _, listener := range notified {
		listener(completion)
	}
	return len(notified) > 0
}

// Teardown removes every registered listener.
func (r *Registry) Teardown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = make(map[string]Listener)
}

func (r *Registry) isTrustedOrigin(origin string) bool {
	for _, trusted := range r.trustedOrigins {
		if origin == trusted {
			return true
		}
	}
	return false
}

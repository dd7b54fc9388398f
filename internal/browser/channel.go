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

// Package browser relays widget and frame work to the connected front end.
// The secure fields and authentication frames can only exist in the user's
// browser, so the server queues presentation directives that the front end
// polls and executes, and accepts the widget outcomes back over HTTP.
package browser

import (
	"context"
	"sync"
	"time"

	"github.com/motumag/payflow/internal/flow/frames"
	"github.com/motumag/payflow/internal/gateway"
	"github.com/motumag/payflow/internal/microform"
	"github.com/motumag/payflow/internal/system/log"
	sysutils "github.com/motumag/payflow/internal/system/utils"
)

// Directive types understood by the front end.
const (
	DirectiveLoadWidget   = "loadWidget"
	DirectiveUnloadWidget = "unloadWidget"
	DirectiveTokenize     = "tokenize"
	DirectiveCreateFrame  = "createFrame"
	DirectivePostForm     = "postForm"
	DirectiveRemoveFrame  = "removeFrame"
)

// Directive is one unit of presentation work for the front end.
type Directive struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Channel queues presentation directives and routes widget outcomes back to
// their waiting callbacks. It implements both the widget driver and the frame
// bridge so one connected front end serves the whole flow.
type Channel struct {
	mu      sync.Mutex
	queue   []Directive
	ready   bool
	pending map[string]func(result any, err error)
}

// NewChannel creates an empty browser channel.
func NewChannel() *Channel {
	return &Channel{pending: make(map[string]func(result any, err error))}
}

// Initialize queues the widget load directive and marks the widget usable.
func (c *Channel) Initialize(ctx context.Context, captureContext *gateway.CaptureContext) error {
	if captureContext == nil || captureContext.JWT == "" {
		return &microform.WidgetLoadError{Message: "capture context is empty"}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.enqueue(DirectiveLoadWidget, map[string]any{
		"captureContext":         captureContext.JWT,
		"clientLibrary":          captureContext.ClientLibraryURL,
		"clientLibraryIntegrity": captureContext.ClientLibraryIntegrity,
	})
	c.ready = true
	return nil
}

// Ready reports whether the widget load directive has been issued.
func (c *Channel) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// CreateToken queues a tokenize directive and parks the callback until the
// front end posts the widget outcome back.
func (c *Channel) CreateToken(options microform.TokenOptions, callback func(result any, err error)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	requestID := sysutils.GenerateUUID()
	c.pending[requestID] = callback
	c.enqueue(DirectiveTokenize, map[string]any{
		"requestId":       requestID,
		"cardholderName":  options.CardholderName,
		"expirationMonth": options.ExpirationMonth,
		"expirationYear":  options.ExpirationYear,
	})
}

// Teardown queues the widget unload directive and abandons pending callbacks.
func (c *Channel) Teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.enqueue(DirectiveUnloadWidget, nil)
	c.ready = false
	c.pending = make(map[string]func(result any, err error))
}

// EnsureFrame queues a frame creation directive. The front end treats the
// directive as idempotent per frame name.
func (c *Channel) EnsureFrame(name string, spec frames.FrameSpec) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.enqueue(DirectiveCreateFrame, map[string]any{
		"name":       name,
		"hidden":     spec.Hidden,
		"width":      spec.Width,
		"height":     spec.Height,
		"fullScreen": spec.FullScreen,
	})
	return nil
}

// PostForm queues a form submission into the named frame.
func (c *Channel) PostForm(name, targetURL string, fields map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.enqueue(DirectivePostForm, map[string]any{
		"name":   name,
		"url":    targetURL,
		"fields": fields,
	})
	return nil
}

// RemoveFrame queues a frame removal directive.
func (c *Channel) RemoveFrame(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.enqueue(DirectiveRemoveFrame, map[string]any{"name": name})
}

// DrainDirectives returns all queued directives and empties the queue.
func (c *Channel) DrainDirectives() []Directive {
	c.mu.Lock()
	defer c.mu.Unlock()

	drained := c.queue
	c.queue = nil
	return drained
}

// ResolveToken completes the tokenize request identified by requestID with
// the outcome the front end observed. Unknown request IDs are dropped.
func (c *Channel) ResolveToken(requestID string, result any, tokenizationErr error) {
	c.mu.Lock()
	callback, ok := c.pending[requestID]
	if ok {
		delete(c.pending, requestID)
	}
	c.mu.Unlock()

	if !ok {
		logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "BrowserChannel"))
		logger.Debug("Dropped widget outcome for unknown request",
			log.String("requestId", requestID))
		return
	}

	callback(result, tokenizationErr)
}

// enqueue appends a directive. Callers must hold the mutex.
func (c *Channel) enqueue(directiveType string, payload map[string]any) {
	c.queue = append(c.queue, Directive{
		ID:        sysutils.GenerateUUID(),
		Type:      directiveType,
		Payload:   payload,
		CreatedAt: time.Now(),
	})
}

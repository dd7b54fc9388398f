/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
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

// Package framesmock provides a mock implementation of the frame bridge for testing.
package framesmock

import (
	"sync"

	"github.com/motumag/payflow/internal/flow/frames"
)

// PostRecord captures one form submission into a frame.
type PostRecord struct {
	Name      string
	TargetURL string
	Fields    map[string]string
}

// MockBridge is a mock implementation of the frames BridgeInterface.
type MockBridge struct {
	mu sync.Mutex

	// MockEnsureFrame defines the behavior for the EnsureFrame method.
	MockEnsureFrame func(name string, spec frames.FrameSpec) error

	// MockPostForm defines the behavior for the PostForm method.
	MockPostForm func(name, targetURL string, fields map[string]string) error

	// EnsuredFrames tracks the specs passed to EnsureFrame by frame name.
	EnsuredFrames map[string]frames.FrameSpec

	// Posts tracks the form submissions in order.
	Posts []PostRecord

	// RemovedFrames tracks the names passed to RemoveFrame.
	RemovedFrames []string
}

// EnsureFrame mocks the EnsureFrame method of the BridgeInterface.
func (m *MockBridge) EnsureFrame(name string, spec frames.FrameSpec) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.MockEnsureFrame != nil {
		if err := m.MockEnsureFrame(name, spec); err != nil {
			return err
		}
	}
	if m.EnsuredFrames == nil {
		m.EnsuredFrames = make(map[string]frames.FrameSpec)
	}
	m.EnsuredFrames[name] = spec
	return nil
}

// PostForm mocks the PostForm method of the BridgeInterface.
func (m *MockBridge) PostForm(name, targetURL string, fields map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.MockPostForm != nil {
		if err := m.MockPostForm(name, targetURL, fields); err != nil {
			return err
		}
	}
	m.Posts = append(m.Posts, PostRecord{Name: name, TargetURL: targetURL, Fields: fields})
	return nil
}

// RemoveFrame mocks the RemoveFrame method of the BridgeInterface.
func (m *MockBridge) RemoveFrame(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RemovedFrames = append(m.RemovedFrames, name)
}

// PostsTo returns the submissions made into the named frame.
func (m *MockBridge) PostsTo(name string) []PostRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []PostRecord
	for _, post := range m.Posts {
		if post.Name == name {
			matched = append(matched, post)
		}
	}
	return matched
}

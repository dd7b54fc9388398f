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

// Package microformmock provides mock implementations of the widget interfaces for testing.
package microformmock

import (
	"context"

	"github.com/motumag/payflow/internal/gateway"
	"github.com/motumag/payflow/internal/microform"
)

// MockDriver is a mock implementation of the widget DriverInterface.
type MockDriver struct {
	// MockInitialize defines the behavior for the Initialize method.
	MockInitialize func(ctx context.Context, captureContext *gateway.CaptureContext) error

	// MockReady defines the behavior for the Ready method.
	MockReady func() bool

	// MockCreateToken defines the behavior for the CreateToken method.
	MockCreateToken func(options microform.TokenOptions, callback func(result any, err error))

	// InitializeCalls tracks the capture contexts passed to Initialize.
	InitializeCalls []*gateway.CaptureContext

	// CreateTokenCalls tracks the options passed to CreateToken.
	CreateTokenCalls []microform.TokenOptions

	// TeardownCalls tracks the calls to Teardown.
	TeardownCalls int
}

// Initialize mocks the Initialize method of the DriverInterface.
func (m *MockDriver) Initialize(ctx context.Context, captureContext *gateway.CaptureContext) error {
	m.InitializeCalls = append(m.InitializeCalls, captureContext)

	if m.MockInitialize != nil {
		return m.MockInitialize(ctx, captureContext)
	}
	return nil
}

// Ready mocks the Ready method of the DriverInterface.
func (m *MockDriver) Ready() bool {
	if m.MockReady != nil {
		return m.MockReady()
	}
	return true
}

// CreateToken mocks the CreateToken method of the DriverInterface.
func (m *MockDriver) CreateToken(options microform.TokenOptions, callback func(result any, err error)) {
	m.CreateTokenCalls = append(m.CreateTokenCalls, options)

	if m.MockCreateToken != nil {
		m.MockCreateToken(options, callback)
		return
	}
	callback("header.payload.signature", nil)
}

// Teardown mocks the Teardown method of the DriverInterface.
func (m *MockDriver) Teardown() {
	m.TeardownCalls++
}

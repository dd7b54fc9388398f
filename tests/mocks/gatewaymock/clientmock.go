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

// Package gatewaymock provides a mock implementation of the gateway client for testing.
package gatewaymock

import (
	"context"

	"github.com/motumag/payflow/internal/gateway"
)

// MockClient is a mock implementation of the gateway ClientInterface.
type MockClient struct {
	// MockGetCaptureContext defines the behavior for the GetCaptureContext method.
	MockGetCaptureContext func(ctx context.Context, targetOrigins, allowedCardNetworks []string) (
		*gateway.CaptureContext, error)

	// MockVerifyTransientToken defines the behavior for the VerifyTransientToken method.
	MockVerifyTransientToken func(ctx context.Context, transientToken string) (
		*gateway.TokenValidationResult, error)

	// MockSetupAuthentication defines the behavior for the SetupAuthentication method.
	MockSetupAuthentication func(ctx context.Context, jti string) (
		*gateway.AuthenticationSetupResult, error)

	// MockCheckEnrollment defines the behavior for the CheckEnrollment method.
	MockCheckEnrollment func(ctx context.Context, request *gateway.EnrollmentRequest) (
		*gateway.EnrollmentCheckResult, error)

	// GetCaptureContextCalls tracks the calls to GetCaptureContext.
	GetCaptureContextCalls int

	// VerifyTransientTokenCalls tracks the tokens passed to VerifyTransientToken.
	VerifyTransientTokenCalls []string

	// SetupAuthenticationCalls tracks the JTIs passed to SetupAuthentication.
	SetupAuthenticationCalls []string

	// CheckEnrollmentCalls tracks the requests passed to CheckEnrollment.
	CheckEnrollmentCalls []*gateway.EnrollmentRequest
}

// GetCaptureContext mocks the GetCaptureContext method of the ClientInterface.
func (m *MockClient) GetCaptureContext(ctx context.Context, targetOrigins, allowedCardNetworks []string) (
	*gateway.CaptureContext, error) {
	m.GetCaptureContextCalls++

	if m.MockGetCaptureContext != nil {
		return m.MockGetCaptureContext(ctx, targetOrigins, allowedCardNetworks)
	}
	return &gateway.CaptureContext{JWT: "capture-context-jwt"}, nil
}

// VerifyTransientToken mocks the VerifyTransientToken method of the ClientInterface.
func (m *MockClient) VerifyTransientToken(ctx context.Context, transientToken string) (
	*gateway.TokenValidationResult, error) {
	m.VerifyTransientTokenCalls = append(m.VerifyTransientTokenCalls, transientToken)

	if m.MockVerifyTransientToken != nil {
		return m.MockVerifyTransientToken(ctx, transientToken)
	}
	return &gateway.TokenValidationResult{JTI: "mock-jti"}, nil
}

// SetupAuthentication mocks the SetupAuthentication method of the ClientInterface.
func (m *MockClient) SetupAuthentication(ctx context.Context, jti string) (
	*gateway.AuthenticationSetupResult, error) {
	m.SetupAuthenticationCalls = append(m.SetupAuthenticationCalls, jti)

	if m.MockSetupAuthentication != nil {
		return m.MockSetupAuthentication(ctx, jti)
	}
	return &gateway.AuthenticationSetupResult{Status: "COMPLETED"}, nil
}

// CheckEnrollment mocks the CheckEnrollment method of the ClientInterface.
func (m *MockClient) CheckEnrollment(ctx context.Context, request *gateway.EnrollmentRequest) (
	*gateway.EnrollmentCheckResult, error) {
	m.CheckEnrollmentCalls = append(m.CheckEnrollmentCalls, request)

	if m.MockCheckEnrollment != nil {
		return m.MockCheckEnrollment(ctx, request)
	}
	return &gateway.EnrollmentCheckResult{Status: "AUTHENTICATION_SUCCESSFUL"}, nil
}

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

package gateway

import "fmt"

// NetworkError denotes a transport level failure where no backend response was received.
type NetworkError struct {
	Operation string
	Err       error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// BackendError denotes a non-2xx response or a malformed body from the backend gateway.
type BackendError struct {
	Operation string
	Status    int
	Message   string
	TraceID   string
}

// Error implements the error interface.
func (e *BackendError) Error() string {
	if e.TraceID != "" {
		return fmt.Sprintf("backend error during %s (status %d, trace %s): %s",
			e.Operation, e.Status, e.TraceID, e.Message)
	}
	return fmt.Sprintf("backend error during %s (status %d): %s", e.Operation, e.Status, e.Message)
}

// ValidationError denotes a transient token rejected during verification.
type ValidationError struct {
	Status      int
	Message     string
	TraceID     string
	FieldErrors map[string]string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.TraceID != "" {
		return fmt.Sprintf("token validation failed (trace %s): %s", e.TraceID, e.Message)
	}
	return "token validation failed: " + e.Message
}

// AuthSetupError denotes a failed authentication setup. A non COMPLETED status in a
// 2xx response is reported through this type as a logical failure.
type AuthSetupError struct {
	Status            string
	HTTPStatus        int
	Message           string
	TraceID           string
	CybersourceReason string
}

// Error implements the error interface.
func (e *AuthSetupError) Error() string {
	msg := "authentication setup failed"
	if e.Status != "" {
		msg += " with status " + e.Status
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.TraceID != "" {
		msg += " (trace " + e.TraceID + ")"
	}
	return msg
}

// EnrollmentError denotes a failed payer authentication enrollment check.
type EnrollmentError struct {
	HTTPStatus int
	Message    string
	TraceID    string
}

// Error implements the error interface.
func (e *EnrollmentError) Error() string {
	if e.TraceID != "" {
		return fmt.Sprintf("enrollment check failed (trace %s): %s", e.TraceID, e.Message)
	}
	return "enrollment check failed: " + e.Message
}

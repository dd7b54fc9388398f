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

// Package model defines the data structures used in the payment flow execution.
package model

import (
	"time"

	"github.com/motumag/payflow/internal/flow/constants"
)

// CompletionSource identifies how a 3DS challenge completion was observed.
type CompletionSource string

const (
	// CompletionSourceMessage marks a completion recognized from a frame message.
	CompletionSourceMessage CompletionSource = "message"
	// CompletionSourceManual marks a completion recorded through the manual fallback trigger.
	CompletionSourceManual CompletionSource = "manual"
)

// FlowError is the uniform error record stored in the session when a flow
// operation fails. Operations never surface raw transport or widget errors
// past the engine; they are converted to this shape first.
type FlowError struct {
	Step    constants.FlowStep  `json:"step"`
	Kind    constants.ErrorKind `json:"kind"`
	Message string              `json:"message"`
	TraceID string              `json:"traceId,omitempty"`
}

// Error implements the error interface.
func (e *FlowError) Error() string {
	if e.TraceID != "" {
		return string(e.Kind) + " error at step " + string(e.Step) + ": " + e.Message +
			" (trace " + e.TraceID + ")"
	}
	return string(e.Kind) + " error at step " + string(e.Step) + ": " + e.Message
}

// ThreeDSCompletionData records the payload observed when a step-up challenge
// finished. Raw preserves the original payload for dispute handling.
type ThreeDSCompletionData struct {
	TransactionID string           `json:"transactionId,omitempty"`
	Raw           map[string]any   `json:"raw,omitempty"`
	Source        CompletionSource `json:"source"`
	ReceivedAt    time.Time        `json:"receivedAt"`
}

// FlowRequest is the request payload of the flow execution endpoint.
type FlowRequest struct {
	SessionID string            `json:"sessionId,omitempty"`
	ActionID  string            `json:"actionId"`
	Inputs    map[string]string `json:"inputs,omitempty"`
}

// FlowResponse is the response payload of the flow execution endpoint.
type FlowResponse struct {
	SessionID    string               `json:"sessionId"`
	FlowStep     constants.FlowStep   `json:"flowStep"`
	StepStatus   constants.StepStatus `json:"stepStatus"`
	Loading      bool                 `json:"loading"`
	Data         map[string]any       `json:"data,omitempty"`
	FailureError *FlowError           `json:"error,omitempty"`
}

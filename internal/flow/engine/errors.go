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

package engine

import (
	"errors"

	"github.com/motumag/payflow/internal/flow/constants"
	"github.com/motumag/payflow/internal/flow/model"
	"github.com/motumag/payflow/internal/gateway"
	"github.com/motumag/payflow/internal/microform"
)

// PreconditionError indicates that a trigger was dispatched before the state
// it depends on was reached.
type PreconditionError struct {
	Operation constants.Operation
	Message   string
}

// Error implements the error interface.
func (e *PreconditionError) Error() string {
	return "precondition not met for " + string(e.Operation) + ": " + e.Message
}

// convertFlowError reduces any operation failure to the uniform FlowError
// recorded in the session. Raw errors never leave the engine.
func convertFlowError(step constants.FlowStep, err error) *model.FlowError {
	var networkErr *gateway.NetworkError
	if errors.As(err, &networkErr) {
		return &model.FlowError{
			Step:    step,
			Kind:    constants.ErrorKindNetwork,
			Message: networkErr.Error(),
		}
	}

	var validationErr *gateway.ValidationError
	if errors.As(err, &validationErr) {
		return &model.FlowError{
			Step:    step,
			Kind:    constants.ErrorKindValidation,
			Message: validationErr.Message,
			TraceID: validationErr.TraceID,
		}
	}

	var authSetupErr *gateway.AuthSetupError
	if errors.As(err, &authSetupErr) {
		message := authSetupErr.Message
		if message == "" {
			message = authSetupErr.Error()
		}
		if authSetupErr.CybersourceReason != "" {
			message = message + " (" + authSetupErr.CybersourceReason + ")"
		}
		return &model.FlowError{
			Step:    step,
			Kind:    constants.ErrorKindBusiness,
			Message: message,
			TraceID: authSetupErr.TraceID,
		}
	}

	var enrollmentErr *gateway.EnrollmentError
	if errors.As(err, &enrollmentErr) {
		return &model.FlowError{
			Step:    step,
			Kind:    constants.ErrorKindBusiness,
			Message: enrollmentErr.Message,
			TraceID: enrollmentErr.TraceID,
		}
	}

	var backendErr *gateway.BackendError
	if errors.As(err, &backendErr) {
		return &model.FlowError{
			Step:    step,
			Kind:    constants.ErrorKindBusiness,
			Message: backendErr.Message,
			TraceID: backendErr.TraceID,
		}
	}

	var loadErr *microform.WidgetLoadError
	var tokenErr *microform.TokenizationError
	if errors.As(err, &loadErr) || errors.As(err, &tokenErr) {
		return &model.FlowError{
			Step:    step,
			Kind:    constants.ErrorKindWidget,
			Message: err.Error(),
		}
	}

	return &model.FlowError{
		Step:    step,
		Kind:    constants.ErrorKindBusiness,
		Message: err.Error(),
	}
}

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

package constants

import (
	"github.com/motumag/payflow/internal/system/error/apierror"
	"github.com/motumag/payflow/internal/system/error/serviceerror"
)

// Client error structs

// APIErrorFlowRequestJSONDecodeError is returned when the flow request payload cannot be decoded.
var APIErrorFlowRequestJSONDecodeError = apierror.ErrorResponse{
	Code:        "PFE-60001",
	Message:     "Invalid request payload",
	Description: "Failed to decode request payload",
}

// ErrorInvalidSessionID is returned when the request carries an unknown session ID.
var ErrorInvalidSessionID = serviceerror.ServiceError{
	Code:             "PFE-60002",
	Type:             serviceerror.ClientErrorType,
	Error:            "Invalid request",
	ErrorDescription: "Invalid session ID provided in the request",
}

// ErrorInvalidActionID is returned when the request carries an unrecognized action ID.
var ErrorInvalidActionID = serviceerror.ServiceError{
	Code:             "PFE-60003",
	Type:             serviceerror.ClientErrorType,
	Error:            "Invalid request",
	ErrorDescription: "Invalid action ID provided in the request",
}

// ErrorPreconditionNotMet is returned when a step is triggered without its required artifacts.
var ErrorPreconditionNotMet = serviceerror.ServiceError{
	Code:             "PFE-60004",
	Type:             serviceerror.ClientErrorType,
	Error:            "Precondition not met",
	ErrorDescription: "The requested step cannot be executed from the current flow state",
}

// ErrorInvalidInputData is returned when the supplied card holder or expiration inputs are invalid.
var ErrorInvalidInputData = serviceerror.ServiceError{
	Code:             "PFE-60005",
	Type:             serviceerror.ClientErrorType,
	Error:            "Invalid request",
	ErrorDescription: "One or more input data values are invalid",
}

// Server error structs

// ErrorFlowExecutionFailure is returned when a flow operation fails unexpectedly.
var ErrorFlowExecutionFailure = serviceerror.ServiceError{
	Code:             "PFE-65001",
	Type:             serviceerror.ServerErrorType,
	Error:            "Something went wrong",
	ErrorDescription: "Unexpected failure while executing the payment flow",
}

// ErrorWidgetNotReady is returned when tokenization is requested before the widget fields mounted.
var ErrorWidgetNotReady = serviceerror.ServiceError{
	Code:             "PFE-65002",
	Type:             serviceerror.ServerErrorType,
	Error:            "Widget not ready",
	ErrorDescription: "The hosted tokenization widget has not finished initializing",
}

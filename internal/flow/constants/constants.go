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

// Package constants defines the constants used in the payment flow service and engine.
package constants

// FlowStep defines the current step of a payment flow session.
type FlowStep string

const (
	// StepIdle indicates that the flow has not started yet.
	StepIdle FlowStep = "idle"
	// StepCaptureContext indicates that a capture context has been issued for the session.
	StepCaptureContext FlowStep = "capture-context"
	// StepTokenCreation indicates that tokenization is in progress.
	StepTokenCreation FlowStep = "token-creation"
	// StepTokenCreated indicates that a transient token has been created.
	StepTokenCreated FlowStep = "token-created"
	// StepTokenValidation indicates that token verification is in progress.
	StepTokenValidation FlowStep = "token-validation"
	// StepTokenVerified indicates that the transient token has been verified.
	StepTokenVerified FlowStep = "token-verified"
	// StepAuthSetup indicates that authentication setup is in progress.
	StepAuthSetup FlowStep = "auth-setup"
	// StepDeviceCollection indicates that device data collection is pending submission.
	StepDeviceCollection FlowStep = "device-collection"
	// StepDeviceComplete indicates that device data collection has been submitted.
	StepDeviceComplete FlowStep = "device-complete"
	// StepEnrollmentCheck indicates that the enrollment check is in progress.
	StepEnrollmentCheck FlowStep = "enrollment-check"
	// StepComplete indicates that the flow finished without a pending challenge.
	StepComplete FlowStep = "complete"
	// StepThreeDSComplete indicates that the 3DS challenge completed and its payload was recorded.
	StepThreeDSComplete FlowStep = "3ds-complete"
)

// StepStatus defines the progress status of an individual flow step.
type StepStatus string

const (
	// StepStatusPending indicates that the step has not completed yet.
	StepStatusPending StepStatus = "pending"
	// StepStatusCompleted indicates that the step has completed.
	StepStatusCompleted StepStatus = "completed"
)

// Operation identifies a flow operation guarded against duplicate dispatch.
type Operation string

const (
	// OperationCaptureContext identifies the capture context retrieval operation.
	OperationCaptureContext Operation = "captureContext"
	// OperationCreateToken identifies the tokenization operation.
	OperationCreateToken Operation = "createToken"
	// OperationVerifyToken identifies the transient token verification operation.
	OperationVerifyToken Operation = "verifyToken"
	// OperationSetupAuthentication identifies the authentication setup operation.
	OperationSetupAuthentication Operation = "setupAuthentication"
	// OperationCheckEnrollment identifies the enrollment check operation.
	OperationCheckEnrollment Operation = "checkEnrollment"
)

// ErrorKind classifies a flow error regardless of its origin.
type ErrorKind string

const (
	// ErrorKindNetwork denotes a transport level failure with no backend response.
	ErrorKindNetwork ErrorKind = "network"
	// ErrorKindValidation denotes a request rejected by the backend or a precondition violation.
	ErrorKindValidation ErrorKind = "validation"
	// ErrorKindBusiness denotes a backend rejection or a response carrying a logical failure status.
	ErrorKindBusiness ErrorKind = "business"
	// ErrorKindWidget denotes a failure reported by the hosted tokenization widget.
	ErrorKindWidget ErrorKind = "widget"
)

// AuthSetupStatusCompleted is the only authentication setup status treated as success.
const AuthSetupStatusCompleted = "COMPLETED"

// EnrollmentStatusPendingAuthentication is the enrollment status that may require a challenge.
const EnrollmentStatusPendingAuthentication = "PENDING_AUTHENTICATION"

// ChallengeRequiredYes is the enrollment flag value indicating a step-up challenge is mandatory.
const ChallengeRequiredYes = "Y"

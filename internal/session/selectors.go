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

package session

import (
	"github.com/motumag/payflow/internal/flow/constants"
)

// tokenPreviewLength is how many characters of the transient token are safe to display.
const tokenPreviewLength = 15

// stepOrder maps each flow step to its position in the forward progression.
// The two terminal steps share the highest position.
var stepOrder = map[constants.FlowStep]int{
	constants.StepIdle:             0,
	constants.StepCaptureContext:   1,
	constants.StepTokenCreation:    2,
	constants.StepTokenCreated:     3,
	constants.StepTokenValidation:  4,
	constants.StepTokenVerified:    5,
	constants.StepAuthSetup:        6,
	constants.StepDeviceCollection: 7,
	constants.StepDeviceComplete:   8,
	constants.StepEnrollmentCheck:  9,
	constants.StepComplete:         10,
	constants.StepThreeDSComplete:  10,
}

// CaptureContextLoaded reports whether a capture context is available for the session.
func (s *SessionState) CaptureContextLoaded() bool {
	return s.CaptureContext != nil && s.CaptureContext.JWT != ""
}

// TransientTokenCreated reports whether tokenization produced a transient token.
func (s *SessionState) TransientTokenCreated() bool {
	return s.TransientToken != ""
}

// TokenValidated reports whether the transient token has been verified.
func (s *SessionState) TokenValidated() bool {
	return s.TokenValidation != nil && s.TokenValidation.JTI != ""
}

// AuthenticationSetupComplete reports whether authentication setup finished with
// a COMPLETED status.
func (s *SessionState) AuthenticationSetupComplete() bool {
	return s.AuthenticationSetup != nil &&
		s.AuthenticationSetup.Status == constants.AuthSetupStatusCompleted
}

// EnrollmentCheckComplete reports whether the enrollment check produced a result.
func (s *SessionState) EnrollmentCheckComplete() bool {
	return s.Enrollment != nil
}

// ChallengeRequired reports whether the enrollment result mandates a step-up challenge.
func (s *SessionState) ChallengeRequired() bool {
	return s.Enrollment != nil &&
		s.Enrollment.Status == constants.EnrollmentStatusPendingAuthentication &&
		s.Enrollment.ChallengeRequired == constants.ChallengeRequiredYes &&
		s.Enrollment.StepUpURL != "" && s.Enrollment.AccessToken != ""
}

// StepStatus reports whether the session has progressed past the given step.
func (s *SessionState) StepStatus(step constants.FlowStep) constants.StepStatus {
	if stepOrder[s.CurrentStep] > stepOrder[step] {
		return constants.StepStatusCompleted
	}
	if s.CurrentStep == step && (step == constants.StepComplete || step == constants.StepThreeDSComplete) {
		return constants.StepStatusCompleted
	}
	return constants.StepStatusPending
}

// TokenPreview returns the leading characters of the transient token for display.
// The full token never leaves the session state through this accessor.
func (s *SessionState) TokenPreview() string {
	if len(s.TransientToken) <= tokenPreviewLength {
		return s.TransientToken
	}
	return s.TransientToken[:tokenPreviewLength] + "..."
}

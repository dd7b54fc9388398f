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

// Package flow provides the payment flow execution service and its HTTP surface.
package flow

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/motumag/payflow/internal/flow/constants"
	"github.com/motumag/payflow/internal/flow/engine"
	"github.com/motumag/payflow/internal/flow/model"
	"github.com/motumag/payflow/internal/gateway"
	"github.com/motumag/payflow/internal/session"
	"github.com/motumag/payflow/internal/system/error/serviceerror"
	"github.com/motumag/payflow/internal/system/log"
)

// Action IDs accepted by the flow execution endpoint.
const (
	ActionStart               = "start"
	ActionMount               = "mount"
	ActionCreateToken         = "createToken"
	ActionVerifyToken         = "verifyToken"
	ActionSetupAuthentication = "setupAuthentication"
	ActionCheckEnrollment     = "checkEnrollment"
	ActionCompleteChallenge   = "completeChallenge"
	ActionFrameMessage        = "frameMessage"
	ActionReset               = "reset"
)

// PaymentFlowServiceInterface defines the entry point for payment flow execution.
type PaymentFlowServiceInterface interface {
	Execute(ctx context.Context, sessionID, actionID string, inputs map[string]string,
		device gateway.DeviceInformation) (*model.FlowResponse, *serviceerror.ServiceError)
}

// paymentFlowService is the implementation of PaymentFlowServiceInterface.
type paymentFlowService struct {
	flowEngine *engine.Engine
}

func newPaymentFlowService(flowEngine *engine.Engine) PaymentFlowServiceInterface {
	return &paymentFlowService{flowEngine: flowEngine}
}

// Execute dispatches one trigger against the session and returns the
// resulting session view.
func (s *paymentFlowService) Execute(ctx context.Context, sessionID, actionID string,
	inputs map[string]string, device gateway.DeviceInformation) (
	*model.FlowResponse, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "PaymentFlowService"))

	if actionID == ActionStart {
		state := s.flowEngine.StartSession()
		return buildFlowResponse(state), nil
	}
	if sessionID == "" {
		return nil, &constants.ErrorInvalidSessionID
	}

	var state session.SessionState
	var err error

	switch actionID {
	case ActionMount:
		state, err = s.flowEngine.Mount(ctx, sessionID)
	case ActionCreateToken:
		state, err = s.flowEngine.CreateToken(ctx, sessionID, tokenInputFromInputs(inputs))
	case ActionVerifyToken:
		state, err = s.flowEngine.VerifyToken(ctx, sessionID)
	case ActionSetupAuthentication:
		state, err = s.flowEngine.SetupAuthentication(ctx, sessionID)
	case ActionCheckEnrollment:
		state, err = s.flowEngine.CheckEnrollment(ctx, sessionID, device)
	case ActionCompleteChallenge:
		state, err = s.flowEngine.CompleteChallenge(sessionID, payloadFromInputs(inputs))
	case ActionFrameMessage:
		s.flowEngine.HandleFrameMessage(inputs["origin"], frameDataFromInputs(inputs))
		state, err = s.flowEngine.Get(sessionID)
	case ActionReset:
		state, err = s.flowEngine.Reset(sessionID)
	default:
		logger.Debug("Rejected unknown action", log.String("actionId", actionID))
		return nil, &constants.ErrorInvalidActionID
	}

	if err != nil {
		return nil, mapEngineError(logger, sessionID, actionID, err)
	}
	return buildFlowResponse(state), nil
}

// mapEngineError converts engine errors to service errors.
func mapEngineError(logger *log.Logger, sessionID, actionID string, err error) *serviceerror.ServiceError {
	if errors.Is(err, session.ErrSessionNotFound) {
		return &constants.ErrorInvalidSessionID
	}

	var precondition *engine.PreconditionError
	if errors.As(err, &precondition) {
		logger.Debug("Precondition not met",
			log.String(log.LoggerKeySessionID, sessionID),
			log.String("actionId", actionID),
			log.String("reason", precondition.Message))
		return serviceerror.CustomServiceError(constants.ErrorPreconditionNotMet,
			precondition.Message)
	}

	logger.Error("Flow execution failed",
		log.String(log.LoggerKeySessionID, sessionID),
		log.String("actionId", actionID),
		log.Error(err))
	return &constants.ErrorFlowExecutionFailure
}

// buildFlowResponse projects the session state onto the wire response.
func buildFlowResponse(state session.SessionState) *model.FlowResponse {
	data := map[string]any{
		"widgetReady":              state.WidgetReady,
		"deviceCollectionComplete": state.DeviceCollectionComplete,
		"processingPayment":        state.ProcessingPayment,
		"paymentSuccess":           state.PaymentSuccess,
	}
	if state.CaptureContextLoaded() {
		data["clientLibrary"] = state.CaptureContext.ClientLibraryURL
		data["clientLibraryIntegrity"] = state.CaptureContext.ClientLibraryIntegrity
	}
	if state.TransientTokenCreated() {
		data["tokenPreview"] = state.TokenPreview()
	}
	if state.TokenValidated() && state.TokenValidation.CardInfo != nil {
		data["cardBrand"] = state.TokenValidation.CardInfo.Brand
	}
	if state.EnrollmentCheckComplete() {
		data["challengeRequired"] = state.ChallengeRequired()
	}
	if state.ThreeDSCompletion != nil {
		data["transactionId"] = state.ThreeDSCompletion.TransactionID
		data["completionSource"] = string(state.ThreeDSCompletion.Source)
	}

	challengePending := state.ChallengeRequired() && state.ThreeDSCompletion == nil
	stepStatus := constants.StepStatusPending
	if state.CurrentStep == constants.StepThreeDSComplete ||
		(state.CurrentStep == constants.StepComplete && !challengePending) {
		stepStatus = constants.StepStatusCompleted
	}

	return &model.FlowResponse{
		SessionID:    state.SessionID,
		FlowStep:     state.CurrentStep,
		StepStatus:   stepStatus,
		Loading:      state.Loading,
		Data:         data,
		FailureError: state.LastError,
	}
}

// tokenInputFromInputs maps the request inputs onto the tokenization input.
func tokenInputFromInputs(inputs map[string]string) engine.TokenInput {
	return engine.TokenInput{
		CardholderName:  inputs["cardholderName"],
		ExpirationMonth: inputs["expirationMonth"],
		ExpirationYear:  inputs["expirationYear"],
		Amount:          inputs["amount"],
		Currency:        inputs["currency"],
		Billing: session.BillingInfo{
			FirstName:          inputs["firstName"],
			LastName:           inputs["lastName"],
			Address1:           inputs["address1"],
			Address2:           inputs["address2"],
			Locality:           inputs["locality"],
			AdministrativeArea: inputs["administrativeArea"],
			PostalCode:         inputs["postalCode"],
			Country:            inputs["country"],
			Email:              inputs["email"],
			PhoneNumber:        inputs["phoneNumber"],
		},
	}
}

// payloadFromInputs parses the optional completion payload of a manual
// challenge completion.
func payloadFromInputs(inputs map[string]string) map[string]any {
	raw, ok := inputs["payload"]
	if !ok || raw == "" {
		return nil
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return map[string]any{"value": raw}
	}
	return payload
}

// frameDataFromInputs reconstructs a frame message payload from the request
// inputs. JSON payloads are passed through as objects.
func frameDataFromInputs(inputs map[string]string) any {
	raw := inputs["payload"]
	if raw == "" {
		return nil
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(raw), &payload); err == nil {
		return payload
	}
	return raw
}
